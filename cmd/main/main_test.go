package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetops/internal/table"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_FILE", "")
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEditCommand(t *testing.T) {
	in := writeTemp(t, "people.csv", "Name,Age\nAnn,34\n,\nBob,19\n")
	out := filepath.Join(t.TempDir(), "clean.csv")

	stdout, err := run(t, "edit", "--in", in, "--out", out,
		"--command", "remove empty rows", "--command", "add column Status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote "+out)

	ds, err := readFile(out, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Age", "Status"}, ds.Columns())
	assert.Equal(t, 2, ds.Len())
	v, _ := ds.Value(1, "Status")
	assert.Equal(t, table.Text("New Data"), v)
}

func TestEditCommandStrict(t *testing.T) {
	in := writeTemp(t, "people.csv", "Name,Age\nAnn,34\n")
	out := filepath.Join(t.TempDir(), "same.xlsx")

	_, err := run(t, "edit", "--in", in, "--out", out, "--command", "rename column Nope to Yes")
	require.NoError(t, err)

	_, err = run(t, "edit", "--in", in, "--out", out, "--strict", "--command", "rename column Nope to Yes")
	require.Error(t, err)
	_, statErr := os.Stat(out)
	assert.NoError(t, statErr, "output is written even when a command fails")
}

func TestMapCommand(t *testing.T) {
	portal := writeTemp(t, "portal.csv", "ASIN,New EAN,VENDOR 8 DIGIT\nB001,111,V1\nB002,222,V2\n")
	catalogue := writeTemp(t, "catalogue.csv", "ASIN,New EAN,VENDOR 8 DIGIT\nB001,111,V1\n")
	out := filepath.Join(t.TempDir(), "mapped.xlsx")

	stdout, err := run(t, "map", "--portal", portal, "--catalogue", catalogue, "--method", "fuzzy", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "matched 1 of 2 rows")

	ds, err := readFile(out, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, ds.Width())

	_, err = run(t, "map", "--portal", portal, "--catalogue", catalogue, "--threshold", "20", "--out", out)
	assert.Error(t, err)
}
