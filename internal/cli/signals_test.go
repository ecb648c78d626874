package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignals_ListsDeclarations(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "wave.vcd")
	require.NoError(t, os.WriteFile(input, []byte(basicVCD), 0644))

	buf := &bytes.Buffer{}
	cmd := NewSignalsCommand(&RootOptions{})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{input})
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "clk")
	assert.Contains(t, out, "rst")
	assert.Contains(t, out, "data")
	assert.Contains(t, out, "[2:0]")
}

func TestSignals_MissingInput(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewSignalsCommand(&RootOptions{})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "nope.vcd")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
