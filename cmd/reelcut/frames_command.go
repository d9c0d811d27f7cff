package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"reelcut/internal/media/ffprobe"
	"reelcut/internal/media/frames"
	"reelcut/internal/timeutil"
)

func newFramesCommand(ctx *commandContext) *cobra.Command {
	var (
		atFlag     string
		outputDir  string
		durationSS float64
	)

	cmd := &cobra.Command{
		Use:   "frames <capture>",
		Short: "Extract individual frames around a timestamp",
		Long: "Writes every frame of a short window to disk, named with its\n" +
			"capture offset, so a detected boundary can be inspected frame by\n" +
			"frame. Accepts timestamps as plain seconds or 1h2m3s form.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			capture, err := resolveCapture(args[0])
			if err != nil {
				return err
			}
			at, err := timeutil.ParseTimestamp(atFlag)
			if err != nil {
				return err
			}
			outDir, err := filepath.Abs(outputDir)
			if err != nil {
				return err
			}

			fps := 0.0
			if probe, err := ffprobe.Inspect(cmd.Context(), cfg.FFmpeg.FFprobeBinary, capture); err == nil {
				fps = probe.FrameRate()
			}

			extractor := frames.New(cfg, logger)
			written, err := extractor.Burst(cmd.Context(), capture, outDir, at, durationSS, fps)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Extracted %d frames:\n", len(written))
			for _, path := range written {
				fmt.Fprintf(out, "  %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&atFlag, "at", "", "Timestamp to inspect (e.g. 47.5, 47m40s, 1h2m3s)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "frames", "Output directory")
	cmd.Flags().Float64Var(&durationSS, "duration", 1.0, "Window length in seconds")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}
