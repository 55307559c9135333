package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speclint/speclint/internal/report"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
	return dir
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
}

func runCheck(t *testing.T, args []string, opts Options) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := RunCheck(&buf, args, opts)
	return buf.String(), err
}

func defaultOpts() Options {
	return Options{Threshold: "0,1,3,3", Format: "text", Jobs: 4}
}

func TestCheck_CleanFile(t *testing.T) {
	inTempDir(t)
	writeFile(t, "styles.css", ".card { color: red; }\n.card .title { font-weight: bold; }\n")

	out, err := runCheck(t, []string{"styles.css"}, defaultOpts())
	require.NoError(t, err)
	assert.Contains(t, out, "CSS Specificity Analysis: styles.css")
	assert.Contains(t, out, "Total selectors: 2")
	assert.Contains(t, out, "High specificity: 0")
	assert.Contains(t, out, "| .card .title")
}

func TestCheck_ViolationsAreReported(t *testing.T) {
	inTempDir(t)
	writeFile(t, "styles.css", ".card .title { }\n#nav #main .item { }\n")

	out, err := runCheck(t, []string{"styles.css"}, defaultOpts())
	require.ErrorIs(t, err, report.ErrViolations)
	assert.Contains(t, out, "High specificity: 1")
	assert.Contains(t, out, "High Specificity Selectors:")
	assert.Contains(t, out, "| #nav #main .item")
}

func TestCheck_LooserThresholdPasses(t *testing.T) {
	inTempDir(t)
	writeFile(t, "styles.css", ".card .title { }\n#nav #main .item { }\n")

	opts := defaultOpts()
	opts.Threshold = "0,2,4,4"
	out, err := runCheck(t, []string{"styles.css"}, opts)
	require.NoError(t, err)
	assert.Contains(t, out, "High specificity: 0")
	assert.Contains(t, out, "Threshold: 0,2,4,4")
}

func TestCheck_MalformedCSS(t *testing.T) {
	inTempDir(t)
	writeFile(t, "broken.css", ".card {")

	out, err := runCheck(t, []string{"broken.css"}, defaultOpts())
	require.ErrorIs(t, err, report.ErrMalformed)
	assert.Contains(t, out, "Error: malformed css at line 1 (offset 6): unclosed block")
}

func TestCheck_MalformedSelectorDoesNotDropSiblings(t *testing.T) {
	inTempDir(t)
	writeFile(t, "styles.css", "div, .a > { }\n")

	out, err := runCheck(t, []string{"styles.css"}, defaultOpts())
	require.ErrorIs(t, err, report.ErrMalformed)
	assert.Contains(t, out, "Total selectors: 2")
	assert.Contains(t, out, "Malformed: 1")
	assert.Contains(t, out, "| .a >: trailing combinator (offset 4)")
	assert.Contains(t, out, "| div")
}

func TestCheck_MissingFileIsAReadError(t *testing.T) {
	inTempDir(t)
	out, err := runCheck(t, []string{"nope.css"}, defaultOpts())
	require.ErrorIs(t, err, report.ErrMalformed)
	assert.Contains(t, out, "CSS Specificity Analysis: nope.css")
	assert.Contains(t, out, "reading file")
}

func TestCheck_GlobExpandsSorted(t *testing.T) {
	inTempDir(t)
	writeFile(t, "c.css", ".c { }")
	writeFile(t, "a.css", ".a { }")
	writeFile(t, "b.css", ".b { }")

	out, err := runCheck(t, []string{"*.css"}, defaultOpts())
	require.NoError(t, err)
	aIdx := strings.Index(out, "Analysis: a.css")
	bIdx := strings.Index(out, "Analysis: b.css")
	cIdx := strings.Index(out, "Analysis: c.css")
	require.NotEqual(t, -1, aIdx)
	require.NotEqual(t, -1, bIdx)
	require.NotEqual(t, -1, cIdx)
	assert.Less(t, aIdx, bIdx)
	assert.Less(t, bIdx, cIdx)
}

func TestCheck_ExplicitArgsKeepInputOrder(t *testing.T) {
	inTempDir(t)
	writeFile(t, "z.css", ".z { }")
	writeFile(t, "a.css", ".a { }")

	out, err := runCheck(t, []string{"z.css", "a.css"}, defaultOpts())
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Analysis: z.css"), strings.Index(out, "Analysis: a.css"))
}

func TestCheck_ReportOrderIsStableUnderParallelism(t *testing.T) {
	inTempDir(t)
	for i := 0; i < 12; i++ {
		writeFile(t, fmt.Sprintf("f%02d.css", i), ".a { }")
	}

	opts := defaultOpts()
	opts.Jobs = 8
	out, err := runCheck(t, []string{"*.css"}, opts)
	require.NoError(t, err)
	last := -1
	for i := 0; i < 12; i++ {
		idx := strings.Index(out, fmt.Sprintf("Analysis: f%02d.css", i))
		require.NotEqual(t, -1, idx)
		assert.Greater(t, idx, last)
		last = idx
	}
}

func TestCheck_IgnorePatterns(t *testing.T) {
	inTempDir(t)
	writeFile(t, "main.css", ".a { }")
	writeFile(t, "vendor.css", "#x #y { }")

	opts := defaultOpts()
	opts.Ignore = []string{"vendor.css"}
	out, err := runCheck(t, []string{"*.css"}, opts)
	require.NoError(t, err)
	assert.Contains(t, out, "main.css")
	assert.NotContains(t, out, "vendor.css")
}

func TestCheck_IgnoreMatchesBaseName(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.Mkdir("sub", 0o755))
	writeFile(t, filepath.Join("sub", "x.css"), ".a { }")

	opts := defaultOpts()
	opts.Ignore = []string{"x.css"}
	_, err := runCheck(t, []string{filepath.Join("sub", "x.css")}, opts)
	require.EqualError(t, err, "all input files are ignored")
}

func TestCheck_JSONFormat(t *testing.T) {
	inTempDir(t)
	writeFile(t, "styles.css", ".card { }\n#a #b { }\n")

	opts := defaultOpts()
	opts.Format = "json"
	out, err := runCheck(t, []string{"styles.css"}, opts)
	require.ErrorIs(t, err, report.ErrViolations)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, ".card", decoded[0]["selector"])
	assert.Equal(t, "styles.css", decoded[0]["file"])
	assert.Equal(t, float64(1), decoded[0]["line"])
	assert.Equal(t, "violation", decoded[1]["status"])
	assert.Equal(t, float64(2), decoded[1]["line"])
}

func TestCheck_SelectorMode(t *testing.T) {
	opts := defaultOpts()
	opts.Selector = "#nav .menu li a"
	out, err := runCheck(t, nil, opts)
	require.NoError(t, err)
	assert.Contains(t, out, "Selector: #nav .menu li a")
	assert.Contains(t, out, "Specificity: 0,1,1,2")
	assert.Contains(t, out, "Threshold: 0,1,3,3")
	assert.Contains(t, out, "Status: ✓ OK")
}

func TestCheck_SelectorModeViolation(t *testing.T) {
	opts := defaultOpts()
	opts.Selector = "#a #b"
	out, err := runCheck(t, nil, opts)
	require.ErrorIs(t, err, report.ErrViolations)
	assert.Contains(t, out, "Specificity: 0,2,0,0")
	assert.Contains(t, out, "Status: ⚠ HIGH")
}

func TestCheck_SelectorModeParseError(t *testing.T) {
	opts := defaultOpts()
	opts.Selector = ".a >"
	out, err := runCheck(t, nil, opts)
	require.ErrorIs(t, err, report.ErrMalformed)
	assert.Contains(t, out, "Error: trailing combinator (offset 4)")
	assert.Contains(t, out, "Status: ✗ ERROR")
}

func TestCheck_SelectorModeHandlesLists(t *testing.T) {
	opts := defaultOpts()
	opts.Selector = ".a, #b#c"
	out, err := runCheck(t, nil, opts)
	require.ErrorIs(t, err, report.ErrViolations)
	assert.Contains(t, out, "Selector: .a")
	assert.Contains(t, out, "Selector: #b#c")
}

func TestCheck_SelectorModeJSON(t *testing.T) {
	opts := defaultOpts()
	opts.Selector = "li:nth-child(2n+1 of .a.b)"
	opts.Format = "json"
	out, err := runCheck(t, nil, opts)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, []any{float64(0), float64(0), float64(2), float64(1)}, decoded[0]["specificity"])
}

func TestCheck_SelectorConflictsWithFiles(t *testing.T) {
	opts := defaultOpts()
	opts.Selector = ".a"
	_, err := runCheck(t, []string{"x.css"}, opts)
	require.EqualError(t, err, "--selector cannot be combined with file arguments")
}

func TestCheck_InvalidThreshold(t *testing.T) {
	opts := defaultOpts()
	opts.Threshold = "1,2,3"
	_, err := runCheck(t, nil, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid threshold")
}

func TestCheck_InvalidFormat(t *testing.T) {
	opts := defaultOpts()
	opts.Format = "xml"
	_, err := runCheck(t, nil, opts)
	require.EqualError(t, err, `invalid format "xml": want text or json`)
}

func TestCheck_NoInputs(t *testing.T) {
	_, err := runCheck(t, nil, defaultOpts())
	require.EqualError(t, err, "no input files (or use --selector)")
}

func TestCheck_ZeroJobsStillRuns(t *testing.T) {
	inTempDir(t)
	writeFile(t, "styles.css", ".a { }")

	opts := defaultOpts()
	opts.Jobs = 0
	_, err := runCheck(t, []string{"styles.css"}, opts)
	require.NoError(t, err)
}
