package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nandanugg/walkarea/module/core/domain"
	"github.com/nandanugg/walkarea/module/core/service"
	"github.com/nandanugg/walkarea/module/core/track"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Replay a GPX or FIT track against a walking area",
	Long:  "Feeds every recorded position through a walking area anchored at the first one and prints each event.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		distance, _ := cmd.Flags().GetFloat64("distance")
		unitName, _ := cmd.Flags().GetString("unit")
		model, _ := cmd.Flags().GetString("model")
		if model == "" {
			model = cfg.Walk.DistanceModel
		}

		unit, err := domain.ParseDistanceUnit(unitName)
		if err != nil {
			return err
		}
		distFn, err := service.DistanceModel(model)
		if err != nil {
			return err
		}

		locs, err := track.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read track: %w", err)
		}

		radius := service.ToMeters(distance, unit)
		steps, err := track.Replay(locs, radius, distFn)
		if err != nil {
			return err
		}

		zap.L().Info("replayed track",
			zap.String("file", args[0]),
			zap.Int("samples", len(steps)),
			zap.Float64("radius_m", radius),
			zap.String("model", model),
		)

		formatSteps(cmd.OutOrStdout(), steps, unit)
		return nil
	},
}

func init() {
	replayCmd.Flags().Float64("distance", 500, "walking area radius")
	replayCmd.Flags().String("unit", "m", "unit of --distance (name or symbol)")
	replayCmd.Flags().String("model", "", "distance model: haversine or planar (default from config)")
	rootCmd.AddCommand(replayCmd)
}

func formatSteps(w io.Writer, steps []track.Step, unit domain.DistanceUnit) {
	for i, s := range steps {
		ts := "-"
		if !s.Location.Timestamp.IsZero() {
			ts = s.Location.Timestamp.UTC().Format("2006-01-02 15:04:05")
		}

		if s.Err != nil {
			fmt.Fprintf(w, "%4d  %s  error  %v\n", i, ts, s.Err)
			continue
		}

		line := fmt.Sprintf("%4d  %s  %-16s  %s", i, ts, s.Event.Kind, service.FormatDistance(s.Event.Distance, unit))
		if s.Event.ShouldNotify {
			line += "  NOTIFY"
		}
		fmt.Fprintln(w, line)
	}
}
