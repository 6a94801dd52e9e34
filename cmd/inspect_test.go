package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInspect(t *testing.T) {
	dir := t.TempDir()
	sales := filepath.Join(dir, "sales.csv")
	names := filepath.Join(dir, "names.csv")
	require.NoError(t, os.WriteFile(sales, []byte("month,revenue\nJan,100\nFeb,150\nMar,130\n"), 0o600))
	require.NoError(t, os.WriteFile(names, []byte("name\nann\n"), 0o600))

	var out bytes.Buffer
	err := runInspect(context.Background(), &out, []string{sales, names}, 2)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "| month | text |")
	assert.Contains(t, got, "| revenue | numeric |")
	assert.Contains(t, got, "| revenue | 3 | 126.667 | 25.1661 | 100 | 130 | 150 |")
	assert.Less(t, strings.Index(got, sales), strings.Index(got, names), "reports follow argument order")
}

func TestRunInspectReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	require.NoError(t, os.WriteFile(good, []byte("a\n1\n"), 0o600))

	var out bytes.Buffer
	err := runInspect(context.Background(), &out, []string{filepath.Join(dir, "missing.csv"), good}, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.csv")
	assert.Contains(t, out.String(), "| a | numeric |")
}
