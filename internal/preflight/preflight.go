// Package preflight checks that the installable-app assets are in place
// before a deploy.
package preflight

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// RequiredAssets lists the files every deploy must ship, in check order.
var RequiredAssets = []string{
	"manifest.json",
	"icon-192x192.png",
	"icon-512x512.png",
}

// Result is the outcome of a single asset check
type Result struct {
	Asset  string
	Path   string
	OK     bool
	Reason string
}

// Line renders the result as one human-readable line
func (r Result) Line() string {
	if r.OK {
		return fmt.Sprintf("PASS  %s", r.Asset)
	}
	return fmt.Sprintf("FAIL  %s: %s", r.Asset, r.Reason)
}

// Report collects the results of one run
type Report struct {
	Dir     string
	Results []Result
}

// Passed reports whether every check succeeded
func (r *Report) Passed() bool {
	for _, res := range r.Results {
		if !res.OK {
			return false
		}
	}
	return true
}

// Failed returns the failing results
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.OK {
			failed = append(failed, res)
		}
	}
	return failed
}

// ExitCode is 0 when every check passed and 1 otherwise
func (r *Report) ExitCode() int {
	if r.Passed() {
		return 0
	}
	return 1
}

// Write prints one line per check followed by the verdict
func (r *Report) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Checking installable-app assets in %s\n", r.Dir); err != nil {
		return err
	}
	for _, res := range r.Results {
		if _, err := fmt.Fprintln(w, res.Line()); err != nil {
			return err
		}
	}

	verdict := "All asset checks passed, ready to deploy"
	if !r.Passed() {
		verdict = fmt.Sprintf("%d of %d asset checks failed", len(r.Failed()), len(r.Results))
	}
	_, err := fmt.Fprintln(w, verdict)
	return err
}

// Check inspects dir for every required asset. Each asset must exist as a
// regular file; a directory with the right name does not count.
func Check(dir string) *Report {
	report := &Report{Dir: dir, Results: make([]Result, 0, len(RequiredAssets))}
	for _, asset := range RequiredAssets {
		report.Results = append(report.Results, checkAsset(dir, asset))
	}
	return report
}

func checkAsset(dir, asset string) Result {
	path := filepath.Join(dir, asset)
	res := Result{Asset: asset, Path: path}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		res.Reason = "not found"
	case err != nil:
		res.Reason = err.Error()
	case !info.Mode().IsRegular():
		res.Reason = "not a regular file"
	default:
		res.OK = true
	}
	return res
}
