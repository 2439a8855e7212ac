package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nandanugg/walkarea/module/core/domain"
	"github.com/nandanugg/walkarea/module/core/service"
)

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List supported distance units",
	RunE: func(cmd *cobra.Command, args []string) error {
		return formatUnits(cmd.OutOrStdout())
	},
}

func init() { rootCmd.AddCommand(unitsCmd) }

func formatUnits(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "UNIT\tSYMBOL\tMETERS")
	for _, u := range domain.AllUnits {
		fmt.Fprintf(tw, "%s\t%s\t%g\n", service.UnitDisplayName(u), service.UnitSymbol(u), service.ToMeters(1, u))
	}
	return tw.Flush()
}
