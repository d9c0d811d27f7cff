package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"reelcut/internal/media/preprocess"
)

func newPreprocessCommand(ctx *commandContext) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "preprocess <input-dir> <target-dir>",
		Short: "Convert raw DV captures to deinterlaced MP4",
		Long: "Scans input-dir for capture files, converts every DV file to a\n" +
			"deinterlaced H.264 MP4 in target-dir, and skips files that were\n" +
			"already converted. Non-DV files pass through untouched.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			inputDir, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(inputDir)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("input %s is not a directory", args[0])
			}
			targetDir, err := filepath.Abs(args[1])
			if err != nil {
				return err
			}

			conv := preprocess.New(cfg, workers, logger)
			results, err := conv.ConvertDir(cmd.Context(), inputDir, targetDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			converted := 0
			var failed error
			for _, res := range results {
				name := filepath.Base(res.Source)
				switch {
				case res.Err != nil:
					fmt.Fprintf(out, "FAIL %s: %v\n", name, res.Err)
					failed = errors.Join(failed, res.Err)
				case res.Skipped != "":
					fmt.Fprintf(out, "Skip (%s): %s\n", res.Skipped, name)
				default:
					fmt.Fprintf(out, "Converted %s -> %s\n", name, filepath.Base(res.Output))
					converted++
				}
			}
			if failed != nil {
				return fmt.Errorf("%d of %d conversions failed", countErrors(results), len(results))
			}
			fmt.Fprintf(out, "%d converted, %d skipped\n", converted, len(results)-converted)
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel conversions (default: half the CPUs)")
	return cmd
}

func countErrors(results []preprocess.Result) int {
	n := 0
	for _, res := range results {
		if res.Err != nil {
			n++
		}
	}
	return n
}
