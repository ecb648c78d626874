package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	CPUProfile string // directory to write a CPU profile into
}

// NewRootCommand creates the root command for the vcdcsv CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "vcdcsv",
		Short: "Convert VCD waveform dumps to viewer-friendly CSV",
		Long: `vcdcsv converts Value Change Dump (VCD) files into CSV suitable for
import into a waveform viewer such as PulseView, with x/z cleanup and
bus-bit support.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(opts.Verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.CPUProfile, "cpuprofile", "", "write a CPU profile into this directory")

	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewSignalsCommand(opts))

	return cmd
}

// configureLogging routes diagnostics to stderr; --verbose switches the
// level to debug.
func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
