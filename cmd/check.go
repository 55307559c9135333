package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/speclint/speclint/internal/css"
	"github.com/speclint/speclint/internal/report"
	"github.com/speclint/speclint/internal/selector"
)

// Options are the resolved settings for one run.
type Options struct {
	Selector  string
	Threshold string
	Format    string
	Jobs      int
	Ignore    []string
	Verbose   bool
}

// RunCheck analyzes the given paths, or the --selector text, and writes
// the report to w. The returned error carries the run outcome: nil when
// clean, report.ErrViolations or report.ErrMalformed otherwise.
func RunCheck(w io.Writer, args []string, opts Options) error {
	threshold, err := selector.ParseSpecificity(opts.Threshold)
	if err != nil {
		return fmt.Errorf("invalid threshold: %w", err)
	}
	if opts.Format != "text" && opts.Format != "json" {
		return fmt.Errorf("invalid format %q: want text or json", opts.Format)
	}

	log := newLogger(opts.Verbose)
	defer func() { _ = log.Sync() }()

	if opts.Selector != "" {
		if len(args) > 0 {
			return errors.New("--selector cannot be combined with file arguments")
		}
		return runSelector(w, opts, threshold, log)
	}
	if len(args) == 0 {
		return errors.New("no input files (or use --selector)")
	}

	files, err := gatherFiles(args, opts.Ignore)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("all input files are ignored")
	}

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	log.Debug("analyzing files", zap.Int("count", len(files)), zap.Int("jobs", jobs))

	// One slot per file keeps the report in input order no matter which
	// worker finishes first. Per-file failures are results, not errors.
	results := make([]report.FileReport, len(files))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			results[i] = analyzeFile(path, threshold, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	a := report.Analysis{Threshold: threshold, Files: results}
	if opts.Format == "json" {
		if err := report.WriteJSON(w, a); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
	} else {
		report.WriteText(w, a)
	}
	return a.Err()
}

func runSelector(w io.Writer, opts Options, threshold selector.Specificity, log *zap.Logger) error {
	p := selector.NewParser(log)
	fr := report.FileReport{Results: analyzeText(p, opts.Selector, threshold)}
	a := report.Analysis{Threshold: threshold, Files: []report.FileReport{fr}}
	if opts.Format == "json" {
		if err := report.WriteJSON(w, a); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
	} else {
		report.WriteSelectorText(w, a)
	}
	return a.Err()
}

// analyzeFile runs the extract-parse-score pipeline for one file. Read
// and extraction failures land in FileReport.Err.
func analyzeFile(path string, threshold selector.Specificity, log *zap.Logger) report.FileReport {
	fr := report.FileReport{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		fr.Err = fmt.Errorf("reading file: %w", err)
		return fr
	}
	raws, err := css.NewExtractor(log).Extract(string(data))
	if err != nil {
		fr.Err = err
		return fr
	}
	p := selector.NewParser(log)
	for _, raw := range raws {
		rs := analyzeText(p, raw.Text, threshold)
		for i := range rs {
			rs[i].File = path
			rs[i].Line = raw.Line
		}
		fr.Results = append(fr.Results, rs...)
	}
	return fr
}

// analyzeText parses one rule's selector text and scores every selector
// in it. Malformed selectors become error results; their siblings are
// still scored.
func analyzeText(p *selector.Parser, text string, threshold selector.Specificity) []report.Result {
	list, errs := p.ParseList(text)
	results := make([]report.Result, 0, len(list)+len(errs))
	for _, sel := range list {
		spec := selector.Calculate(sel)
		results = append(results, report.Result{
			Selector:    sel.String(),
			Specificity: spec,
			Status:      report.Classify(spec, threshold),
		})
	}
	for _, pe := range errs {
		results = append(results, report.Result{
			Selector: pe.Selector,
			Status:   report.StatusError,
			Message:  fmt.Sprintf("%s (offset %d)", pe.Message, pe.Offset),
		})
	}
	return results
}

// gatherFiles expands glob arguments in input order. A pattern that
// matches nothing stays in the list as a literal path, so the missing
// file shows up in the report as a read error.
func gatherFiles(args, ignore []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}
		sort.Strings(matches)
		for _, m := range matches {
			if ignored(m, ignore) {
				continue
			}
			files = append(files, m)
		}
	}
	return files, nil
}

func ignored(path string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, path); ok {
			return true
		}
		if ok, _ := filepath.Match(p, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}
