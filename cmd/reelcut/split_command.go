package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"reelcut/internal/pipeline"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split <capture>",
		Short: "Split a capture using its most recent stored detection run",
		Long: "Split reuses the cut timestamps from the capture's latest detection run " +
			"and redoes the output stages, so encoder setting changes do not pay for " +
			"detection again. Run 'reelcut detect' or 'reelcut process' first.",
		Args: cobra.ExactArgs(1),
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
			outcome, err := p.Resplit(cmd.Context(), path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, clip := range outcome.Clips {
				fmt.Fprintln(out, filepath.Base(clip.Path))
			}
			fmt.Fprintf(out, "Wrote %d clips to %s\n", len(outcome.Clips), outcome.OutputDir)
			return nil
		},
	}
	return cmd
}
