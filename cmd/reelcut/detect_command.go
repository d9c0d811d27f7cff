package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelcut/internal/catalog"
	"reelcut/internal/pipeline"
	"reelcut/internal/timeutil"
)

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "detect <capture>",
		Short: "Score recording boundaries in a capture without splitting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveCapture(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			p := pipeline.New(cfg, store, logger)
			src, run, err := p.Detect(cmd.Context(), path)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), struct {
					Source string         `json:"source"`
					Cuts   []catalog.Cut  `json:"cuts"`
					Zones  []catalog.Zone `json:"noise_zones,omitempty"`
				}{Source: src.Path, Cuts: run.Cuts, Zones: run.NoiseZones})
			}

			out := cmd.OutOrStdout()
			if len(run.Cuts) == 0 {
				fmt.Fprintf(out, "No boundaries found in %s (duration %s)\n",
					src.Path, timeutil.FormatDuration(src.DurationSeconds))
				return nil
			}

			rows := make([][]string, 0, len(run.Cuts))
			for _, cut := range run.Cuts {
				rows = append(rows, []string{
					timeutil.FormatTime(cut.Timestamp),
					fmt.Sprintf("%.1f", cut.Score),
					cut.Signals,
					yesNo(cut.Verified),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Timestamp", "Score", "Signals", "Verified"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
			))
			if len(run.NoiseZones) > 0 {
				for _, zone := range run.NoiseZones {
					fmt.Fprintf(out, "Noise zone %s - %s (%d detections)\n",
						timeutil.FormatTime(zone.Start), timeutil.FormatTime(zone.End), zone.Detections)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")
	return cmd
}
