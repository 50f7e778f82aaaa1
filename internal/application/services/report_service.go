package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/flightdeck/rpas-checklist/internal/domain/entities"
)

// Report formats
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// ReportService renders checklist state as a flight record.
type ReportService struct {
	catalog  *entities.Catalog
	markdown goldmark.Markdown
}

// NewReportService creates a new report service
func NewReportService(catalog *entities.Catalog) *ReportService {
	return &ReportService{
		catalog:  catalog,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Markdown renders the state as a GitHub-flavoured task list.
func (s *ReportService) Markdown(state entities.ChecklistState) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", s.catalog.Title)
	fmt.Fprintf(&b, "- **Pilot:** %s\n", orUnset(state.PilotName))
	fmt.Fprintf(&b, "- **Date:** %s\n", orUnset(state.Date))
	fmt.Fprintf(&b, "- **Progress:** %d/%d\n", s.catalog.CompletedCount(state.Completed), s.catalog.TotalItems())

	for _, cat := range s.catalog.Categories {
		done := 0
		var items strings.Builder
		for i, text := range cat.Items {
			mark := " "
			if state.Completed.Checked(entities.NewItemKey(cat.Name, i)) {
				mark = "x"
				done++
			}
			fmt.Fprintf(&items, "- [%s] %s\n", mark, text)
		}
		fmt.Fprintf(&b, "\n## %s (%d/%d)\n\n%s", cat.Title, done, len(cat.Items), items.String())
	}

	return []byte(b.String())
}

// HTML converts the Markdown report. Raw HTML in pilot fields is not rendered.
func (s *ReportService) HTML(state entities.ChecklistState) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert(s.Markdown(state), &buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

type exportItem struct {
	Text    string `yaml:"text"`
	Checked bool   `yaml:"checked"`
}

type exportCategory struct {
	Name  entities.CategoryName `yaml:"name"`
	Title string                `yaml:"title"`
	Items []exportItem          `yaml:"items"`
}

type exportDocument struct {
	Title      string           `yaml:"title"`
	PilotName  string           `yaml:"pilot_name"`
	Date       string           `yaml:"date"`
	Categories []exportCategory `yaml:"categories"`
}

// Export serializes the state in one of the report formats. JSON is the
// stored record layout.
func (s *ReportService) Export(state entities.ChecklistState, format string) ([]byte, error) {
	switch format {
	case FormatMarkdown, "md", "":
		return s.Markdown(state), nil
	case FormatHTML:
		return s.HTML(state)
	case FormatJSON:
		return entities.EncodeState(state)
	case FormatYAML, "yml":
		doc := exportDocument{Title: s.catalog.Title, PilotName: state.PilotName, Date: state.Date}
		for _, cat := range s.catalog.Categories {
			ec := exportCategory{Name: cat.Name, Title: cat.Title}
			for i, text := range cat.Items {
				ec.Items = append(ec.Items, exportItem{Text: text, Checked: state.Completed.Checked(entities.NewItemKey(cat.Name, i))})
			}
			doc.Categories = append(doc.Categories, ec)
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode yaml report: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

func orUnset(v string) string {
	if strings.TrimSpace(v) == "" {
		return "_not recorded_"
	}
	return v
}
