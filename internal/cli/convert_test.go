package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwtrace/vcdcsv/internal/store"
)

const basicVCD = `$date today $end
$timescale
	1ns
$end
$scope module top $end
$var wire 1 ! clk $end
$var wire 1 " rst $end
$var wire 3 # data [2:0] $end
$upscope $end
$enddefinitions $end
#0
$dumpvars
0!
1"
b000 #
$end
#5
1!
#10
0!
0"
b101 #
#15
1!
`

// uniformVCD uses a 1 s timescale so grid arithmetic is exact.
const uniformVCD = `$timescale
	1 s
$end
$var wire 1 ! clk $end
$enddefinitions $end
#0
0!
#4
1!
#8
0!
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runConvertCmd(t *testing.T, args ...string) error {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewConvertCommand(&RootOptions{})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestConvert_Basic(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "wave.vcd", basicVCD)
	output := filepath.Join(dir, "wave.csv")

	require.NoError(t, runConvertCmd(t, input, output))

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "convert_basic", data)
}

func TestConvert_Idempotent(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "wave.vcd", basicVCD)
	out1 := filepath.Join(dir, "one.csv")
	out2 := filepath.Join(dir, "two.csv")

	require.NoError(t, runConvertCmd(t, input, out1))
	require.NoError(t, runConvertCmd(t, input, out2))

	d1, err := os.ReadFile(out1)
	require.NoError(t, err)
	d2, err := os.ReadFile(out2)
	require.NoError(t, err)
	assert.Equal(t, d1, d2, "two runs on identical input must be byte-identical")
}

func TestConvert_GzipInputIdentical(t *testing.T) {
	dir := t.TempDir()
	plain := writeFile(t, dir, "wave.vcd", basicVCD)

	gzPath := filepath.Join(dir, "wave.vcd.gz")
	f, err := os.Create(gzPath)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(basicVCD))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	outPlain := filepath.Join(dir, "plain.csv")
	outGz := filepath.Join(dir, "gz.csv")
	require.NoError(t, runConvertCmd(t, plain, outPlain))
	require.NoError(t, runConvertCmd(t, gzPath, outGz))

	d1, err := os.ReadFile(outPlain)
	require.NoError(t, err)
	d2, err := os.ReadFile(outGz)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestConvert_ExplicitSignalsAndBusBit(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "wave.vcd", basicVCD)
	output := filepath.Join(dir, "wave.csv")

	require.NoError(t, runConvertCmd(t, input, output, "-s", "clk", "-s", "data[0]"))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Equal(t, "Time[s],clk,data[0]", lines[0])
	// data goes 000 -> 101 at tick 10: bit 0 ends at 1.
	last := lines[len(lines)-1]
	assert.True(t, strings.HasSuffix(last, ",1"), "data[0] should end high, got %q", last)
}

func TestConvert_UniformStep(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "wave.vcd", uniformVCD)
	output := filepath.Join(dir, "wave.csv")

	require.NoError(t, runConvertCmd(t, input, output, "--uniform-step", "2s"))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	// [0,4): 0,2 with clk=0; [4,8): 4,6 with clk=1.
	require.Len(t, lines, 5)
	assert.Equal(t, "0.000000000000,0", lines[1])
	assert.Equal(t, "2.000000000000,0", lines[2])
	assert.Equal(t, "4.000000000000,1", lines[3])
	assert.Equal(t, "6.000000000000,1", lines[4])
}

func TestConvert_TMaxStopsOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "wave.vcd", basicVCD)
	output := filepath.Join(dir, "wave.csv")

	require.NoError(t, runConvertCmd(t, input, output, "--tmax", "7ns"))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	// Rows at 0 and 5 ns pass; the change at 10 ns exceeds the bound.
	require.Len(t, lines, 3)
	assert.Equal(t, "0.000000005000,1,1", lines[2])
}

func TestConvert_SQLiteSink(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "wave.vcd", basicVCD)
	output := filepath.Join(dir, "wave.csv")
	dbPath := filepath.Join(dir, "samples.db")

	require.NoError(t, runConvertCmd(t, input, output, "--sqlite", dbPath))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	csvRows := strings.Count(string(data), "\n") - 1 // minus header

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	var n int
	require.NoError(t, st.DB().QueryRow("SELECT COUNT(*) FROM samples").Scan(&n))
	// Two columns (clk, rst) per emitted row.
	assert.Equal(t, csvRows*2, n)

	var runs int
	require.NoError(t, st.DB().QueryRow("SELECT COUNT(*) FROM runs").Scan(&runs))
	assert.Equal(t, 1, runs)
}

func TestConvert_ProfileWithFlagOverride(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "wave.vcd", basicVCD)
	profilePath := writeFile(t, dir, "profile.yaml", "signals: [clk]\ntmax: 2ns\n")
	output := filepath.Join(dir, "wave.csv")

	// The flag overrides the profile's tmax; the profile's signal list
	// still applies.
	require.NoError(t, runConvertCmd(t, input, output, "--config", profilePath, "--tmax", "20ns"))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Equal(t, "Time[s],clk", lines[0])
	assert.Equal(t, "0.000000015000,1", lines[len(lines)-1])
}

func TestConvert_GTKWSelection(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "wave.vcd", basicVCD)
	gtkw := writeFile(t, dir, "save.gtkw", `[dumpfile] "wave.vcd"
@28
top.clk
top.data[2:0]
`)
	output := filepath.Join(dir, "wave.csv")

	require.NoError(t, runConvertCmd(t, input, output, "--gtkw", gtkw))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Equal(t, "Time[s],clk,data[2],data[1],data[0]", lines[0])
}

func TestConvert_MissingSignalFatal(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "wave.vcd", basicVCD)
	output := filepath.Join(dir, "wave.csv")

	err := runConvertCmd(t, input, output, "-s", "clk", "-s", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MISSING_SIGNALS")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	// No partial output on a pre-processing failure.
	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvert_IgnoreMissing(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "wave.vcd", basicVCD)
	output := filepath.Join(dir, "wave.csv")

	require.NoError(t, runConvertCmd(t, input, output, "-s", "clk", "-s", "nope", "--ignore-missing"))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Time[s],clk\n"))
}

func TestConvert_AllMissingEvenIgnoredIsFatal(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "wave.vcd", basicVCD)

	err := runConvertCmd(t, input, filepath.Join(dir, "wave.csv"), "-s", "nope", "--ignore-missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMPTY_SELECTION")
}

func TestConvert_InvalidTimeSpec(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "wave.vcd", basicVCD)

	err := runConvertCmd(t, input, filepath.Join(dir, "wave.csv"), "--tmin", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_TIME_SPEC")

	err = runConvertCmd(t, input, filepath.Join(dir, "wave.csv"), "--uniform-step", "10ks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_TIME_UNIT")
}

func TestConvert_MissingInput(t *testing.T) {
	dir := t.TempDir()
	err := runConvertCmd(t, filepath.Join(dir, "nope.vcd"), filepath.Join(dir, "out.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FILE_ACCESS")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestConvert_NoSignalsInHeader(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "empty.vcd", "$timescale 1ns $end\n$enddefinitions $end\n#0\n")

	err := runConvertCmd(t, input, filepath.Join(dir, "out.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NO_SIGNALS_FOUND")
}
