package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/njchilds90/qseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args, feeding stdin, and returns what
// it wrote to stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("QSERIES_TRUNC", "")
	os.Unsetenv("QSERIES_TRUNC")
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

// ============================================================
// call tests
// ============================================================

func TestCall_Etaq(t *testing.T) {
	out, _, err := run(t, "", "call", "etaq", `{"b": 1}`, "--trunc", "6")
	require.NoError(t, err)
	if want := "1 - q - q^2 + q^5 + O(q^6)\n"; out != want {
		t.Errorf("want %q, got %q", want, out)
	}
}

func TestCall_LaTeXAndJSON(t *testing.T) {
	out, _, err := run(t, "", "call", "etaq", `{"b": 1}`, "--trunc", "6", "--latex")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1 - q - q^{2}"), out)

	out, _, err = run(t, "", "call", "partition_count", `{"n": 10}`, "--json")
	require.NoError(t, err)
	var resp qseries.ToolResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "p(10) = 42", resp.String)
	assert.Empty(t, resp.Error)
}

func TestCall_Errors(t *testing.T) {
	cases := map[string][]string{
		"unknown tool": {"call", "no_such_tool"},
		"bad json":     {"call", "etaq", `{"b": `},
		"zero trunc":   {"call", "etaq", `{"b": 1}`, "--trunc", "0"},
		"bad level":    {"call", "etaq", `{"b": 1}`, "--log-level", "loud"},
	}
	for name, args := range cases {
		if _, _, err := run(t, "", args...); err == nil {
			t.Errorf("%s: want error, got nil", name)
		}
	}
}

func TestCall_TruncFromEnv(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"call", "etaq", `{"b": 1}`})
	t.Setenv("QSERIES_TRUNC", "3")
	require.NoError(t, root.Execute())
	if want := "1 - q - q^2 + O(q^3)\n"; out.String() != want {
		t.Errorf("want %q, got %q", want, out.String())
	}
}

// ============================================================
// batch tests
// ============================================================

func TestBatch_KeepsInputOrder(t *testing.T) {
	in := strings.Join([]string{
		`{"tool": "partition_count", "params": {"n": 5}}`,
		``,
		`{"tool": "no_such_tool", "params": {}}`,
		`{"tool": "partition_count", "params": {"n": 100}}`,
	}, "\n")
	out, _, err := run(t, in, "batch", "-", "--jobs", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	var resps []qseries.ToolResponse
	for _, l := range lines {
		var r qseries.ToolResponse
		require.NoError(t, json.Unmarshal([]byte(l), &r))
		resps = append(resps, r)
	}
	assert.Equal(t, "p(5) = 7", resps[0].String)
	assert.NotEmpty(t, resps[1].Error)
	assert.Equal(t, "p(100) = 190569292", resps[2].String)
}

func TestBatch_Errors(t *testing.T) {
	_, _, err := run(t, `{"tool": "partition_count", "params": {"n": 5}}`, "batch", "-", "--jobs", "0")
	assert.Error(t, err)

	_, _, err = run(t, "{not json}\n", "batch", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-:1:")
}

// ============================================================
// repl tests
// ============================================================

func TestRepl_StopsAtQuit(t *testing.T) {
	in := "partition_count {\"n\": 10}\n\nno_such_tool\nquit\npartition_count {\"n\": 5}\n"
	out, errOut, err := run(t, in, "repl")
	require.NoError(t, err)
	assert.Equal(t, "p(10) = 42\n", out)
	assert.Contains(t, errOut, "error:")
}

// ============================================================
// pairs tests
// ============================================================

func TestPairs_List(t *testing.T) {
	out, _, err := run(t, "", "pairs", "list")
	require.NoError(t, err)
	for _, name := range []string{"unit", "rogers-ramanujan", "q-binomial(z=1)"} {
		assert.Contains(t, out, name)
	}
}

func TestPairs_ExportThenCheck(t *testing.T) {
	yml, _, err := run(t, "", "pairs", "export")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "pairs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	out, _, err := run(t, "", "pairs", "check", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	for _, l := range lines {
		if !strings.HasSuffix(l, " true") {
			t.Errorf("want a verified pair, got %q", l)
		}
	}
}

func TestCheckCatalogue_EmptyTabulatedPair(t *testing.T) {
	doc := "format: 1.1.0\npairs:\n" +
		"  - name: empty\n    family: tabulated\n    a: {coeff: \"1\", power: 0}\n" +
		"  - name: unit\n    family: unit\n"
	var out bytes.Buffer
	require.NoError(t, checkCatalogue(&out, strings.NewReader(doc)))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "not checkable")
	assert.NotContains(t, lines[0], "true")
	assert.True(t, strings.HasSuffix(lines[1], " true"), lines[1])
}
