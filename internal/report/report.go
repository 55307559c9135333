// Package report classifies analyzed selectors against a specificity
// threshold and renders the results as text or JSON.
package report

import (
	"errors"

	"github.com/speclint/speclint/internal/selector"
)

var (
	// ErrViolations marks a run that found selectors over the threshold
	// and nothing worse.
	ErrViolations = errors.New("specificity threshold exceeded")
	// ErrMalformed marks a run with input that could not be read or
	// parsed.
	ErrMalformed = errors.New("some selectors could not be analyzed")
)

type Status string

const (
	StatusPass      Status = "pass"
	StatusViolation Status = "violation"
	StatusError     Status = "error"
)

// Classify scores a specificity against the threshold. Equality passes;
// only a strictly greater specificity violates.
func Classify(spec, threshold selector.Specificity) Status {
	if spec.Exceeds(threshold) {
		return StatusViolation
	}
	return StatusPass
}

// Result is the outcome for one selector occurrence.
type Result struct {
	Selector    string
	Specificity selector.Specificity
	Status      Status
	Message     string // parse failure reason, error results only
	File        string // empty in single-selector mode
	Line        int    // 1-based source line, 0 in single-selector mode
}

// FileReport collects one file's results in source order. Err is set when
// the file could not be read or its CSS was structurally malformed;
// Results is empty then.
type FileReport struct {
	Path    string
	Err     error
	Results []Result
}

// Violations counts results over the threshold.
func (f FileReport) Violations() int {
	n := 0
	for _, r := range f.Results {
		if r.Status == StatusViolation {
			n++
		}
	}
	return n
}

// Errors counts results that failed to parse.
func (f FileReport) Errors() int {
	n := 0
	for _, r := range f.Results {
		if r.Status == StatusError {
			n++
		}
	}
	return n
}

// Analysis is one invocation's worth of reports.
type Analysis struct {
	Threshold selector.Specificity
	Files     []FileReport
}

// ExitCode maps the outcome to the process exit status: 2 when any file
// failed or any selector was malformed, 1 when violations were found, 0
// when clean.
func (a Analysis) ExitCode() int {
	code := 0
	for _, f := range a.Files {
		if f.Err != nil || f.Errors() > 0 {
			return 2
		}
		if f.Violations() > 0 {
			code = 1
		}
	}
	return code
}

// Err returns the outcome as an error: ErrMalformed, ErrViolations or nil.
func (a Analysis) Err() error {
	switch a.ExitCode() {
	case 2:
		return ErrMalformed
	case 1:
		return ErrViolations
	}
	return nil
}
