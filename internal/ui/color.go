package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	ruleStyle   = lipgloss.NewStyle().Faint(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

const ruleWidth = 70

func Header(w io.Writer, text string) {
	fmt.Fprintln(w, headerStyle.Render(text))
}

func ThickRule(w io.Writer) {
	fmt.Fprintln(w, ruleStyle.Render(strings.Repeat("=", ruleWidth)))
}

func Rule(w io.Writer) {
	fmt.Fprintln(w, ruleStyle.Render(strings.Repeat("-", ruleWidth)))
}

func PassRow(w io.Writer, spec, selector string) {
	fmt.Fprintf(w, "%s %-12s | %s\n", passStyle.Render("✓"), spec, selector)
}

func WarnRow(w io.Writer, spec, selector string) {
	fmt.Fprintf(w, "%s %-12s | %s\n", warnStyle.Render("⚠"), spec, selector)
}

// HighRow is the unmarked row of the high-specificity section.
func HighRow(w io.Writer, spec, selector string) {
	fmt.Fprintf(w, "  %-12s | %s\n", spec, selector)
}

func FailRow(w io.Writer, line int, selector, reason string) {
	fmt.Fprintf(w, "%s line %-4d | %s: %s\n", failStyle.Render("✗"), line, selector, reason)
}

func WarnLine(w io.Writer, text string) {
	fmt.Fprintln(w, warnStyle.Render("⚠")+"  "+text)
}

func FailLine(w io.Writer, text string) {
	fmt.Fprintln(w, failStyle.Render("✗")+"  "+text)
}

func ErrorLine(w io.Writer, msg string) {
	fmt.Fprintln(w, failStyle.Render("Error:")+" "+msg)
}

// StatusWord renders the status verdict for the single-selector card.
func StatusWord(status string) string {
	switch status {
	case "pass":
		return passStyle.Render("✓ OK")
	case "violation":
		return warnStyle.Render("⚠ HIGH")
	}
	return failStyle.Render("✗ ERROR")
}
