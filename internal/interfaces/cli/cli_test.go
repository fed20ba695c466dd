package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, stdin string, args ...string) string {
	t.Helper()

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	cmd.SetArgs(args)

	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestValidateCommand(t *testing.T) {
	out := runCommand(t, "", "validate", "aspirin", "2024")

	assert.Contains(t, out, "aspirin: valid")
	assert.Contains(t, out, "2024: invalid")
}

func TestValidateCommandJSON(t *testing.T) {
	out := runCommand(t, "", "validate", "metformin", "-o", "json")

	assert.Contains(t, out, `"isValid": true`)
	assert.Contains(t, out, `"input": "metformin"`)
}

func TestAnalyzeTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("LISINOPRIL 10MG once daily"), 0o644))

	out := runCommand(t, "", "analyze", path, "--text", "-o", "json")

	assert.Contains(t, out, `"lisinopril"`)
	assert.Contains(t, out, `"provider": "text-input"`)
}

func TestParseStdin(t *testing.T) {
	out := runCommand(t, "ASPIRIN 81MG twice daily", "parse", "-")

	assert.Contains(t, out, "aspirin")
	assert.Contains(t, out, "81MG")
}

func TestAnalyzeMissingFile(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"analyze", "/nonexistent/file.png"})

	assert.Error(t, cmd.Execute())
}
