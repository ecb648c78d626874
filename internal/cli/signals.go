package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hwtrace/vcdcsv/internal/vcd"
)

// NewSignalsCommand creates the signals command, which lists the
// declarations found in a dump's header.
func NewSignalsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signals <input.vcd[.gz]>",
		Short: "List the signals declared in a VCD header",
		Long: `List every scalar alias and bus declared in the dump's header, with
internal identifiers, widths and bit ranges. Useful for picking --signal
arguments for convert.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignals(args[0], cmd)
		},
	}
	return cmd
}

func runSignals(input string, cmd *cobra.Command) error {
	lines, err := vcd.ReadLog(input)
	if err != nil {
		return WrapExitError(ExitFailure, "cannot read VCD file", err)
	}
	cat, err := vcd.ParseHeader(lines)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid VCD header", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tID\tWIDTH\tRANGE")
	for _, a := range cat.Scalars() {
		fmt.Fprintf(w, "%s\t%s\t1\t-\n", a.Name, a.ID)
	}
	for _, b := range cat.Buses() {
		fmt.Fprintf(w, "%s\t%s\t%d\t[%d:%d]\n", b.Name, b.ID, b.Width, b.MSB, b.LSB)
	}
	return w.Flush()
}
