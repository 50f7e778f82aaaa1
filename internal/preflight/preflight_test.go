package preflight

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAssets(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, dir string)
		passed   bool
		failures []string
	}{
		{
			name: "all assets present",
			setup: func(t *testing.T, dir string) {
				writeAssets(t, dir, RequiredAssets...)
			},
			passed: true,
		},
		{
			name: "missing large icon",
			setup: func(t *testing.T, dir string) {
				writeAssets(t, dir, "manifest.json", "icon-192x192.png")
			},
			failures: []string{"icon-512x512.png"},
		},
		{
			name:     "empty directory",
			setup:    func(t *testing.T, dir string) {},
			failures: []string{"manifest.json", "icon-192x192.png", "icon-512x512.png"},
		},
		{
			name: "manifest is a directory",
			setup: func(t *testing.T, dir string) {
				writeAssets(t, dir, "icon-192x192.png", "icon-512x512.png")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "manifest.json"), 0o755))
			},
			failures: []string{"manifest.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)

			report := Check(dir)
			assert.Len(t, report.Results, len(RequiredAssets))
			assert.Equal(t, tt.passed, report.Passed())

			var failed []string
			for _, res := range report.Failed() {
				failed = append(failed, res.Asset)
			}
			assert.Equal(t, tt.failures, failed)

			if tt.passed {
				assert.Equal(t, 0, report.ExitCode())
			} else {
				assert.Equal(t, 1, report.ExitCode())
			}
		})
	}
}

func TestCheckMissingDirectory(t *testing.T) {
	report := Check(filepath.Join(t.TempDir(), "nope"))
	assert.False(t, report.Passed())
	assert.Len(t, report.Failed(), len(RequiredAssets))
}

func TestReportWrite(t *testing.T) {
	dir := t.TempDir()
	writeAssets(t, dir, "manifest.json")

	var buf bytes.Buffer
	require.NoError(t, Check(dir).Write(&buf))

	out := buf.String()
	assert.Contains(t, out, "PASS  manifest.json")
	assert.Contains(t, out, "FAIL  icon-192x192.png: not found")
	assert.Contains(t, out, "FAIL  icon-512x512.png: not found")
	assert.Contains(t, out, "2 of 3 asset checks failed")

	writeAssets(t, dir, "icon-192x192.png", "icon-512x512.png")
	buf.Reset()
	require.NoError(t, Check(dir).Write(&buf))
	assert.Contains(t, buf.String(), "ready to deploy")
}

func TestWatchRechecksOnChange(t *testing.T) {
	dir := t.TempDir()
	writeAssets(t, dir, "manifest.json", "icon-192x192.png")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reports := make(chan *Report, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, 20*time.Millisecond, func(r *Report) { reports <- r })
	}()

	first := <-reports
	assert.False(t, first.Passed())

	writeAssets(t, dir, "icon-512x512.png")

	var passed bool
	for !passed {
		select {
		case r := <-reports:
			passed = r.Passed()
		case <-ctx.Done():
			t.Fatal("watch never reported the completed asset set")
		}
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope"), 0, func(*Report) {})
	assert.Error(t, err)
}
