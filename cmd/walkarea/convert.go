package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nandanugg/walkarea/module/core/domain"
	"github.com/nandanugg/walkarea/module/core/service"
)

var convertCmd = &cobra.Command{
	Use:   "convert <value> <unit>",
	Short: "Convert a distance to other units",
	Long:  "Convert a distance to the unit given by --to, or to every supported unit when --to is omitted.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("parse value %q: %w", args[0], err)
		}
		from, err := domain.ParseDistanceUnit(args[1])
		if err != nil {
			return err
		}

		targets := domain.AllUnits
		if to, _ := cmd.Flags().GetString("to"); to != "" {
			u, err := domain.ParseDistanceUnit(to)
			if err != nil {
				return err
			}
			targets = []domain.DistanceUnit{u}
		}

		formatConversion(cmd.OutOrStdout(), value, from, targets)
		return nil
	},
}

func init() {
	convertCmd.Flags().String("to", "", "target unit (name or symbol)")
	rootCmd.AddCommand(convertCmd)
}

func formatConversion(w io.Writer, value float64, from domain.DistanceUnit, targets []domain.DistanceUnit) {
	meters := service.ToMeters(value, from)
	for _, to := range targets {
		fmt.Fprintln(w, service.FormatDistance(meters, to))
	}
}
