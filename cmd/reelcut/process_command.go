package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"reelcut/internal/pipeline"
	"reelcut/internal/timeutil"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <capture>...",
		Short: "Run the full pipeline: detect, split, thumbnail, transcribe, catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := make([]string, 0, len(args))
			for _, arg := range args {
				path, err := resolveCapture(arg)
				if err != nil {
					return err
				}
				paths = append(paths, path)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			unlock, err := ctx.lockWorkspace()
			if err != nil {
				return err
			}
			defer unlock()

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			p := pipeline.New(cfg, store, logger)
			out := cmd.OutOrStdout()
			for _, path := range paths {
				fmt.Fprintf(out, "Processing %s\n", path)
				outcome, err := p.Process(cmd.Context(), path)
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(outcome.Clips))
				for _, clip := range outcome.Clips {
					rows = append(rows, []string{
						filepath.Base(clip.Path),
						timeutil.FormatTime(clip.Start),
						timeutil.FormatDuration(clip.End - clip.Start),
						yesNo(clip.Transcript != ""),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Clip", "Start", "Length", "Transcript"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				))
				for _, warning := range outcome.Warnings {
					fmt.Fprintf(out, "warning: %s\n", warning)
				}
				fmt.Fprintf(out, "Wrote %d clips to %s\n", len(outcome.Clips), outcome.OutputDir)
			}
			return nil
		},
	}
	return cmd
}
