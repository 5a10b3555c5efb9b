package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-adf/adf/file"
	"github.com/cwbudde/algo-adf/adf/term"
	"github.com/cwbudde/algo-adf/internal/testutil"
)

func runTool(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunUsage(t *testing.T) {
	code, _, stderr := runTool(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Commands:")

	code, _, _ = runTool(t, "--help")
	assert.Equal(t, 0, code)

	code, _, stderr = runTool(t, "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)

	code, _, _ = runTool(t, "info")
	assert.Equal(t, 2, code)

	code, _, stderr = runTool(t, "lookup", "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "Usage: adftool lookup")
}

func TestInsertLookupDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.adf")

	code, _, stderr := runTool(t, "insert", path, "<a>", "<p>", `"one"`)
	require.Equal(t, 0, code, stderr)
	code, _, stderr = runTool(t, "insert", path, "<a>", "<q>", "42")
	require.Equal(t, 0, code, stderr)

	code, stdout, _ := runTool(t, "lookup", path, "-s", "<a>")
	require.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"one"`)
	assert.Contains(t, stdout, "42")

	code, _, stderr = runTool(t, "delete", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--all")

	code, stdout, stderr = runTool(t, "delete", path, "--predicate", "<p>", "--at", "2024-01-02T03:04:05Z")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "deleted 1 statements\n", stdout)

	_, stdout, _ = runTool(t, "lookup", path)
	assert.NotContains(t, stdout, `"one"`)
	assert.Contains(t, stdout, "42")

	_, stdout, _ = runTool(t, "lookup", path, "--history", "-p", "<p>")
	assert.Contains(t, stdout, "deleted 2024-01-02T03:04:05Z")
}

func TestInsertResolvesNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rec.adf")
	vocabPath := filepath.Join(dir, "vocab.yaml")
	require.NoError(t, os.WriteFile(vocabPath, []byte("prefixes:\n  ex: https://example.com/\naliases:\n  label: ex:label\n"), 0o644))

	code, _, stderr := runTool(t, "--vocab", vocabPath, "insert", path, "<a>", "label", `"x"`)
	require.Equal(t, 0, code, stderr)

	f, err := file.Open(path)
	require.NoError(t, err)
	values, err := f.LookupStrings(term.NamedNode("a"), "https://example.com/label")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, values)

	code, _, stderr = runTool(t, "insert", path, "<a>", "nope:thing", `"x"`)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "nope")
}

func TestInsertAnonymousNode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.adf")
	for range 2 {
		code, _, stderr := runTool(t, "insert", path, "[]", "<p>", "1")
		require.Equal(t, 0, code, stderr)
	}

	f, err := file.Open(path)
	require.NoError(t, err)
	subjects, err := f.LookupSubjects(term.Integer(1), "p")
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.True(t, subjects[0].IsBlank())
	assert.NotEqual(t, subjects[0], subjects[1])
}

func TestImportDataInfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rec.adf")
	csvPath := filepath.Join(dir, "samples.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("# a b\n1,2\n3, 4\n5,6.5\n"), 0o644))

	code, stdout, stderr := runTool(t, "import", path, csvPath, "--sfreq", "256", "--start", "2024-01-01T10:00:00Z")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "imported 3 points")

	code, stdout, _ = runTool(t, "data", path, "--channel", "1")
	require.Equal(t, 0, code)
	assert.Equal(t, "2\n4\n6.5\n", stdout)

	_, stdout, _ = runTool(t, "data", path, "-c", "0", "--start", "1", "--count", "10")
	assert.Equal(t, "3\n5\n", stdout)

	code, stdout, _ = runTool(t, "info", path)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "2024-01-01T10:00:00Z")
	assert.Contains(t, stdout, "256 Hz")
	assert.Contains(t, stdout, "Column")
	assert.Contains(t, stdout, "<#channel-1>")

	code, _, _ = runTool(t, "data", path, "--channel", "2")
	assert.Equal(t, 1, code)
}

func TestImportRejectsRaggedRows(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("1,2\n3\n"), 0o644))

	code, _, _ := runTool(t, "import", filepath.Join(dir, "rec.adf"), csvPath)
	assert.Equal(t, 1, code)
	_, err := os.Stat(filepath.Join(dir, "rec.adf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFilter(t *testing.T) {
	const (
		sr     = 100.0
		points = 1000
	)
	path := filepath.Join(t.TempDir(), "rec.adf")

	signal := testutil.Mix(testutil.DeterministicSine(5, sr, 1, points), testutil.DeterministicSine(40, sr, 1, points))
	f := file.New()
	require.NoError(t, f.SetSamples(points, 1, signal))
	id, eeg := term.NamedNode("#fz"), term.NamedNode("#EEG")
	require.NoError(t, f.SetChannelIdentifier(0, id))
	require.NoError(t, f.AddChannelType(id, eeg))
	require.NoError(t, f.SetTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), sr))
	require.NoError(t, f.Save(path))

	code, stdout, stderr := runTool(t, "filter", path, "--type", "<#EEG>", "--low", "1", "--high", "10")
	require.Equal(t, 0, code, stderr)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Len(t, lines, points)

	code, stdout, stderr = runTool(t, "filter", path, "--type", "<#EEG>", "--low", "0", "--high", "10", "--causal")
	require.Equal(t, 0, code, stderr)
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), points)

	code, _, stderr = runTool(t, "filter", path, "--low", "1", "--high", "10")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--type")
}

func TestDesign(t *testing.T) {
	code, stdout, stderr := runTool(t, "design", "--sfreq", "256", "--tbw", "0.5", "--low", "1", "--high", "3")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "2049")
	assert.Contains(t, stdout, "1024 samples")
	assert.Contains(t, stdout, "Hamming")

	code, _, _ = runTool(t, "design", "--sfreq", "256", "--low", "3", "--high", "1")
	assert.Equal(t, 1, code)

	code, _, _ = runTool(t, "design", "--sfreq", "256", "--low", "1", "--high", "30", "--window", "triangle")
	assert.Equal(t, 1, code)
}

func TestPrintValues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printValues(&buf, []float64{0.5, -2, math.Inf(1)}))
	assert.Equal(t, "0.5\n-2\n+Inf\n", buf.String())
}
