package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/flightdeck/rpas-checklist/internal/domain/entities"
)

func sampleState() entities.ChecklistState {
	return entities.ChecklistState{
		SessionInfo: entities.SessionInfo{PilotName: "J. Doe", Date: "2024-05-01"},
		Completed:   entities.CompletionMap{"normal-0": true, "normal-1": false, "site-7": true, "legacy-3": true},
	}
}

func TestMarkdownReport(t *testing.T) {
	svc := NewReportService(entities.DefaultCatalog())
	md := string(svc.Markdown(sampleState()))

	assert.True(t, strings.HasPrefix(md, "# RPAS Flight Checklist - DJI Mini 4 Pro\n"))
	assert.Contains(t, md, "- **Pilot:** J. Doe\n")
	assert.Contains(t, md, "- **Progress:** 2/25\n")
	assert.Contains(t, md, "## Normal Procedures (1/11)")
	assert.Contains(t, md, "## Emergency Procedures (0/6)")
	assert.Contains(t, md, "- [x] Pre-flight inspection of RPAS (airframe, motors, propellers, payload)\n")
	assert.Contains(t, md, "- [ ] Battery fully charged and securely installed\n")
	assert.Contains(t, md, "- [x] Ensure bystander safety and establish buffer zones\n")
}

func TestMarkdownReportUnsetFields(t *testing.T) {
	svc := NewReportService(entities.DefaultCatalog())
	md := string(svc.Markdown(entities.DefaultState()))

	assert.Contains(t, md, "- **Pilot:** _not recorded_\n")
	assert.Contains(t, md, "- **Progress:** 0/25\n")
}

func TestHTMLReport(t *testing.T) {
	svc := NewReportService(entities.DefaultCatalog())
	state := sampleState()
	state.PilotName = "<script>alert(1)</script>"

	out, err := svc.HTML(state)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "<h1>RPAS Flight Checklist - DJI Mini 4 Pro</h1>")
	assert.Contains(t, html, `<input checked="" disabled="" type="checkbox">`)
	assert.NotContains(t, html, "<script>")
}

func TestExportFormats(t *testing.T) {
	svc := NewReportService(entities.DefaultCatalog())
	state := sampleState()

	out, err := svc.Export(state, FormatJSON)
	require.NoError(t, err)
	decoded, err := entities.DecodeState(out)
	require.NoError(t, err)
	assert.Equal(t, state, decoded)

	out, err = svc.Export(state, FormatYAML)
	require.NoError(t, err)
	var doc exportDocument
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Equal(t, "J. Doe", doc.PilotName)
	require.Len(t, doc.Categories, 3)
	assert.True(t, doc.Categories[0].Items[0].Checked)
	assert.False(t, doc.Categories[0].Items[1].Checked)

	out, err = svc.Export(state, "")
	require.NoError(t, err)
	assert.Equal(t, svc.Markdown(state), out)

	_, err = svc.Export(state, "pdf")
	assert.Error(t, err)
}
