package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/hwtrace/vcdcsv/internal/config"
	"github.com/hwtrace/vcdcsv/internal/engine"
	"github.com/hwtrace/vcdcsv/internal/selection"
	"github.com/hwtrace/vcdcsv/internal/store"
	"github.com/hwtrace/vcdcsv/internal/timespec"
	"github.com/hwtrace/vcdcsv/internal/vcd"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	GTKW          string
	Signals       []string
	TMin          string
	TMax          string
	UniformStep   string
	IgnoreMissing bool
	Config        string
	SQLite        string
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <input.vcd[.gz]> <output.csv>",
		Short: "Convert a VCD dump to CSV",
		Long: `Convert a Value Change Dump to CSV with x/z cleanup.

Columns come from a GTKWave save file (--gtkw), an explicit signal list
(--signal, repeatable), or default to every scalar signal. Rows are
emitted per change, or on a uniform time grid with --uniform-step.

Examples:
  vcdcsv convert wave.vcd wave.csv --gtkw wave.gtkw
  vcdcsv convert wave.vcd wave.csv -s clk -s "data[3]" --tmin 100ns --tmax 2.5us
  vcdcsv convert wave.vcd.gz wave.csv --uniform-step 10ns`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.GTKW, "gtkw", "", "GTKWave save file to take the signal list from")
	cmd.Flags().StringArrayVarP(&opts.Signals, "signal", "s", nil, "signal name to export (repeatable; use bit names for buses, e.g. state_o[2])")
	cmd.Flags().StringVar(&opts.TMin, "tmin", "", "minimum time to include, e.g. 10ns, 2.5us (no unit means seconds)")
	cmd.Flags().StringVar(&opts.TMax, "tmax", "", "maximum time to include; processing stops past it")
	cmd.Flags().StringVar(&opts.UniformStep, "uniform-step", "", "emit rows on a uniform time grid with this step")
	cmd.Flags().BoolVar(&opts.IgnoreMissing, "ignore-missing", false, "warn instead of failing when requested signals are missing")
	cmd.Flags().StringVar(&opts.Config, "config", "", "YAML conversion profile; explicit flags override it")
	cmd.Flags().StringVar(&opts.SQLite, "sqlite", "", "also record the run and samples into this SQLite database")

	return cmd
}

// settings is the merged flag/profile view of one conversion.
type settings struct {
	gtkw          string
	signals       []string
	tmin          *float64
	tmax          *float64
	step          *float64
	ignoreMissing bool
	sqlite        string
}

func runConvert(opts *ConvertOptions, input, output string, cmd *cobra.Command) error {
	if opts.CPUProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(opts.CPUProfile), profile.Quiet).Stop()
	}

	set, err := mergeSettings(opts, cmd)
	if err != nil {
		return err
	}

	lines, err := vcd.ReadLog(input)
	if err != nil {
		return WrapExitError(ExitFailure, "cannot read VCD file", err)
	}
	scale := vcd.ParseTimescale(lines)
	cat, err := vcd.ParseHeader(lines)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid VCD header", err)
	}
	slog.Debug("header parsed", "scalars", len(cat.ScalarNames()), "buses", len(cat.Buses()), "scale_sec", scale)

	wanted := set.signals
	if set.gtkw != "" {
		fromSave, err := selection.ParseGTKW(set.gtkw)
		if err != nil {
			return WrapExitError(ExitFailure, "cannot read GTKWave save file", err)
		}
		if len(fromSave) == 0 {
			slog.Warn("no signals parsed from GTKW file, falling back to --signal or all scalar signals", "path", set.gtkw)
		} else {
			wanted = fromSave
		}
	}

	cols, err := selection.Resolve(cat, wanted, set.ignoreMissing)
	if err != nil {
		return WrapExitError(ExitFailure, "signal selection failed", err)
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	slog.Debug("selection resolved", "columns", len(names))

	// All validation is done; only now is the output file created, so a
	// fatal pre-processing error never leaves a partial file behind.
	out, err := os.Create(output)
	if err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("cannot open output CSV file %q for writing", output), err)
	}
	defer out.Close()

	csvw := engine.NewCSVWriter(out)
	var writer engine.RowWriter = csvw
	var run *store.RunWriter
	if set.sqlite != "" {
		st, err := store.Open(set.sqlite)
		if err != nil {
			return WrapExitError(ExitFailure, "cannot open SQLite database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		run, err = st.BeginRun(input, scale, names)
		if err != nil {
			return WrapExitError(ExitFailure, "cannot record run", err)
		}
		slog.Info("recording run", "run_id", run.ID, "db", set.sqlite)
		writer = engine.NewMultiWriter(csvw, run)
	}

	eng := engine.New(cols, engine.Config{
		ScaleSeconds: scale,
		TMin:         set.tmin,
		TMax:         set.tmax,
		Step:         set.step,
	}, writer)

	if err := eng.Run(lines); err != nil {
		if run != nil {
			_ = run.Abort()
		}
		return WrapExitError(ExitFailure, "conversion failed", err)
	}
	if err := writer.Flush(); err != nil {
		return WrapExitError(ExitFailure, "cannot write output", err)
	}
	if err := out.Close(); err != nil {
		return WrapExitError(ExitFailure, "cannot write output", err)
	}
	slog.Debug("conversion finished", "input", input, "output", output)
	return nil
}

// mergeSettings combines the profile (if any) with explicit flags; a flag
// the user set always wins over the profile.
func mergeSettings(opts *ConvertOptions, cmd *cobra.Command) (*settings, error) {
	prof := &config.Profile{}
	if opts.Config != "" {
		p, err := config.Load(opts.Config)
		if err != nil {
			return nil, WrapExitError(ExitFailure, "cannot load conversion profile", err)
		}
		prof = p
	}

	flags := cmd.Flags()
	pick := func(name, flagVal, profVal string) string {
		if flags.Changed(name) {
			return flagVal
		}
		return profVal
	}

	set := &settings{
		gtkw:   pick("gtkw", opts.GTKW, prof.GTKW),
		sqlite: pick("sqlite", opts.SQLite, prof.SQLite),
	}
	set.signals = prof.Signals
	if flags.Changed("signal") {
		set.signals = opts.Signals
	}
	set.ignoreMissing = prof.IgnoreMissing
	if flags.Changed("ignore-missing") {
		set.ignoreMissing = opts.IgnoreMissing
	}

	var err error
	if set.tmin, err = parseBound(pick("tmin", opts.TMin, prof.TMin), "--tmin"); err != nil {
		return nil, err
	}
	if set.tmax, err = parseBound(pick("tmax", opts.TMax, prof.TMax), "--tmax"); err != nil {
		return nil, err
	}
	if set.step, err = parseBound(pick("uniform-step", opts.UniformStep, prof.UniformStep), "--uniform-step"); err != nil {
		return nil, err
	}
	return set, nil
}

// parseBound parses an optional time-spec flag value into seconds.
func parseBound(spec, flagName string) (*float64, error) {
	if spec == "" {
		return nil, nil
	}
	sec, err := timespec.Parse(spec)
	if err != nil {
		return nil, WrapExitError(ExitFailure, fmt.Sprintf("invalid value for %s", flagName), err)
	}
	return &sec, nil
}
