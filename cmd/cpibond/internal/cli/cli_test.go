package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ukDoc = "../../../../marketdata/testdata/uk.yaml"

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

func TestRootCommandTree(t *testing.T) {
	t.Parallel()

	cmd := NewRootCommand()
	for _, name := range []string{"curve", "price", "yield", "fixings"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
	for _, flag := range []string{"verbose", "format", "config", "fixings-dsn"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestPriceJSON(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "price", ukDoc, "--format", "json")
	require.NoError(t, err)

	var out priceOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "2009-11-25", out.EvaluationDate)
	require.Len(t, out.Bonds, 1)

	b := out.Bonds[0]
	assert.Equal(t, "UK-CPI-2052", b.ID)
	assert.Equal(t, "2009-11-30", b.Settlement)
	assert.InDelta(t, 383.01816406, b.Clean, 1e-8)
	assert.InDelta(t, b.Clean+b.Accrued, b.Dirty, 1e-9)
	assert.Positive(t, b.NPV)
}

func TestPriceUnknownBond(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "price", ukDoc, "--bond", "UK-CPI-2099")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, ExitCode(err))
}

func TestYieldRoundTrip(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "yield", ukDoc, "--format", "json")
	require.NoError(t, err)

	var out yieldOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Bonds, 1)

	b := out.Bonds[0]
	assert.InDelta(t, 0.05, b.ImpliedRate, 1e-9)
	// a flat continuous ACT/ACT yield discounts like the flat discount curve
	assert.InDelta(t, 383.01816406, b.Clean, 1e-7)
	assert.Greater(t, b.Duration, 0.0)
}

func TestYieldFromDirty(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "yield", ukDoc, "--format", "json")
	require.NoError(t, err)
	var quoted yieldOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &quoted))
	dirty := quoted.Bonds[0].Dirty

	stdout, _, err = execute(t, "yield", ukDoc, "--format", "json",
		"--bond", "UK-CPI-2052", "--dirty", strconv.FormatFloat(dirty, 'g', -1, 64))
	require.NoError(t, err)
	var solved yieldOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &solved))
	assert.InDelta(t, 0.05, solved.Bonds[0].ImpliedRate, 1e-9)

	_, _, err = execute(t, "yield", ukDoc, "--dirty", "100")
	assert.Equal(t, ExitCommandError, ExitCode(err))
}

func TestCurveText(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "curve", ukDoc, ukDoc)
	require.NoError(t, err)
	assert.Contains(t, stdout, "UKRPI reference 2009-11-25 base 2009-09-01")
	assert.Contains(t, stdout, "DATE")
	assert.Contains(t, stdout, "2059-09-01")
}

func TestFixingsSQLite(t *testing.T) {
	t.Parallel()

	dsn := "sqlite3://" + filepath.Join(t.TempDir(), "fixings.db")

	stdout, _, err := execute(t, "fixings", ukDoc, "--fixings-dsn", dsn, "--format", "json")
	require.NoError(t, err)
	var out fixingsOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, fixingsOutput{Index: "UKRPI", Saved: 27, First: "2007-07-01", Last: "2009-09-01"}, out)

	// stored fixings agree with the document, so pricing reads both cleanly
	_, stderr, err := execute(t, "price", ukDoc, "--fixings-dsn", dsn, "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "source=database")
}

func TestStoredFixingsPrecedeDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dsn := "sqlite3://" + filepath.Join(dir, "fixings.db")

	raw, err := os.ReadFile(ukDoc)
	require.NoError(t, err)
	longer := strings.Replace(string(raw), "fixings:\n", "fixings:\n  - {date: 2007-06-01, level: 206.6}\n", 1)
	require.NotEqual(t, string(raw), longer)
	extended := filepath.Join(dir, "uk-extended.yaml")
	require.NoError(t, os.WriteFile(extended, []byte(longer), 0o600))

	stdout, _, err := execute(t, "fixings", extended, "--fixings-dsn", dsn, "--format", "json")
	require.NoError(t, err)
	var out fixingsOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, 28, out.Saved)
	assert.Equal(t, "2007-06-01", out.First)

	// the stored month precedes the document's first fixing
	_, stderr, err := execute(t, "price", ukDoc, "--fixings-dsn", dsn, "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "count=28")
}

func TestCommandErrors(t *testing.T) {
	t.Parallel()

	cases := map[string][]string{
		"bad format":      {"price", ukDoc, "--format", "xml"},
		"fixings no dsn":  {"fixings", ukDoc},
		"missing args":    {"price"},
		"missing config":  {"price", ukDoc, "--config", filepath.Join(t.TempDir(), "none.yaml")},
		"unreadable file": {"price", filepath.Join(t.TempDir(), "none.yaml")},
	}
	for name, args := range cases {
		_, _, err := execute(t, args...)
		assert.Error(t, err, name)
	}

	_, _, err := execute(t, "price", ukDoc, "--format", "xml")
	assert.Equal(t, ExitCommandError, ExitCode(err))
	_, _, err = execute(t, "fixings", ukDoc)
	assert.Equal(t, ExitCommandError, ExitCode(err))
}
