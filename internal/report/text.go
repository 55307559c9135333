package report

import (
	"fmt"
	"io"

	"github.com/speclint/speclint/internal/ui"
)

// WriteText renders one analysis block per file.
func WriteText(w io.Writer, a Analysis) {
	for _, f := range a.Files {
		fmt.Fprintln(w)
		ui.Header(w, "CSS Specificity Analysis: "+f.Path)
		ui.ThickRule(w)
		if f.Err != nil {
			ui.ErrorLine(w, f.Err.Error())
			continue
		}

		violations, errors := f.Violations(), f.Errors()
		fmt.Fprintf(w, "Total selectors: %d\n", len(f.Results))
		fmt.Fprintf(w, "High specificity: %d\n", violations)
		if errors > 0 {
			fmt.Fprintf(w, "Malformed: %d\n", errors)
		}
		fmt.Fprintf(w, "Threshold: %s\n", a.Threshold)
		fmt.Fprintln(w)

		if violations > 0 {
			ui.WarnLine(w, "High Specificity Selectors:")
			ui.Rule(w)
			for _, r := range f.Results {
				if r.Status == StatusViolation {
					ui.HighRow(w, r.Specificity.String(), r.Selector)
				}
			}
			fmt.Fprintln(w)
		}

		if errors > 0 {
			ui.FailLine(w, "Malformed Selectors:")
			ui.Rule(w)
			for _, r := range f.Results {
				if r.Status == StatusError {
					ui.FailRow(w, r.Line, r.Selector, r.Message)
				}
			}
			fmt.Fprintln(w)
		}

		fmt.Fprintln(w, "All Selectors:")
		ui.Rule(w)
		for _, r := range f.Results {
			switch r.Status {
			case StatusViolation:
				ui.WarnRow(w, r.Specificity.String(), r.Selector)
			case StatusPass:
				ui.PassRow(w, r.Specificity.String(), r.Selector)
			}
		}
	}
}

// WriteSelectorText renders the report card used by single-selector runs.
func WriteSelectorText(w io.Writer, a Analysis) {
	for _, f := range a.Files {
		for _, r := range f.Results {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "Selector: %s\n", r.Selector)
			if r.Status == StatusError {
				ui.ErrorLine(w, r.Message)
			} else {
				fmt.Fprintf(w, "Specificity: %s\n", r.Specificity)
			}
			fmt.Fprintf(w, "Threshold: %s\n", a.Threshold)
			fmt.Fprintf(w, "Status: %s\n", ui.StatusWord(string(r.Status)))
		}
	}
}
