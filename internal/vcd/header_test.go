package vcd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimescale(t *testing.T) {
	lines := []string{
		"$date today $end",
		"$timescale",
		"\t10 ns",
		"$end",
	}
	assert.InEpsilon(t, 10e-9, ParseTimescale(lines), 1e-12)
}

func TestParseTimescale_NoSpace(t *testing.T) {
	lines := []string{"$timescale", "1ps", "$end"}
	assert.InEpsilon(t, 1e-12, ParseTimescale(lines), 1e-12)
}

func TestParseTimescale_DefaultWhenAbsent(t *testing.T) {
	assert.Equal(t, DefaultScaleSeconds, ParseTimescale([]string{"$date x $end"}))
}

func TestParseTimescale_DefaultWhenMalformed(t *testing.T) {
	lines := []string{"$timescale", "banana", "$end"}
	assert.Equal(t, DefaultScaleSeconds, ParseTimescale(lines))
}

func TestParseHeader(t *testing.T) {
	lines := []string{
		"$timescale 1ns $end",
		"$scope module top $end",
		"$var wire 1 ! clk $end",
		"$var wire 1 \" rst $end",
		"$var wire 3 # state_o [2:0] $end",
		"$var wire 4 % data $end", // bus without explicit range
		"$upscope $end",
		"$enddefinitions $end",
		"#0",
	}
	cat, err := ParseHeader(lines)
	require.NoError(t, err)

	id, ok := cat.ScalarID("clk")
	require.True(t, ok)
	assert.Equal(t, "!", id)

	assert.Equal(t, []string{"clk", "rst"}, cat.ScalarNames())

	sig, ok := cat.FindBusBit("state_o", 2)
	require.True(t, ok)
	assert.Equal(t, "#", sig.ID)
	assert.Equal(t, 2, sig.MSB)
	assert.Equal(t, 0, sig.LSB)
	assert.Equal(t, 0, sig.BitOffset(2))
	assert.Equal(t, 2, sig.BitOffset(0))

	// No explicit range defaults to [width-1:0].
	sig, ok = cat.FindBusBit("data", 3)
	require.True(t, ok)
	assert.Equal(t, 3, sig.MSB)
	assert.Equal(t, 0, sig.LSB)

	_, ok = cat.FindBusBit("state_o", 5)
	assert.False(t, ok, "index outside the declared range must not resolve")
}

func TestParseHeader_AliasFirstRegistrationWins(t *testing.T) {
	lines := []string{
		"$var wire 1 ! clk $end",
		"$var wire 1 ! clk_i $end", // same id, extra alias
		"$var wire 1 @ clk $end",   // same name, later id: ignored
		"$enddefinitions $end",
	}
	cat, err := ParseHeader(lines)
	require.NoError(t, err)

	id, _ := cat.ScalarID("clk")
	assert.Equal(t, "!", id)
	id, _ = cat.ScalarID("clk_i")
	assert.Equal(t, "!", id)
}

func TestParseHeader_NoSignals(t *testing.T) {
	lines := []string{"$timescale 1ns $end", "$enddefinitions $end"}
	_, err := ParseHeader(lines)
	require.Error(t, err)
	assert.True(t, IsNoSignals(err))
}

func TestSignal_AscendingRange(t *testing.T) {
	sig := &Signal{ID: "#", Name: "v", Width: 3, MSB: 0, LSB: 2}
	assert.True(t, sig.Contains(1))
	assert.False(t, sig.Contains(3))
	// Payload is MSB-first regardless of orientation.
	assert.Equal(t, 0, sig.BitOffset(0))
	assert.Equal(t, 2, sig.BitOffset(2))
}

func TestReadLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wave.vcd")
	require.NoError(t, os.WriteFile(path, []byte("#0\n1!\n#5\n0!\n"), 0644))

	lines, err := ReadLog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"#0", "1!", "#5", "0!"}, lines)
}

func TestReadLog_Gzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wave.vcd.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte("#0\n1!\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	lines, err := ReadLog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"#0", "1!"}, lines)
}

func TestReadLog_Missing(t *testing.T) {
	_, err := ReadLog(filepath.Join(t.TempDir(), "nope.vcd"))
	require.Error(t, err)
	assert.True(t, IsFileAccess(err))
}
