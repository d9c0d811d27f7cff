package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelcut/internal/gallery"
)

func newGalleryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Render the HTML gallery over everything in the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			gen := gallery.New(cfg, logger)
			path, err := gen.Build(cfg.Paths.OutputDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Gallery written to %s\n", path)
			return nil
		},
	}
	return cmd
}
