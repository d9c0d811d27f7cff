package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"reelcut/internal/catalog"
	"reelcut/internal/language"
	"reelcut/internal/pipeline"
	"reelcut/internal/transcribe"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe <capture>",
		Short: "Generate transcripts for a capture's existing clips",
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

			src, err := store.SourceByPath(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("transcribe %s: %w (run 'reelcut process' first)", path, err)
			}
			clips, err := store.ListClips(cmd.Context(), src.ID)
			if err != nil {
				return err
			}
			if len(clips) == 0 {
				return fmt.Errorf("no clips recorded for %s; run 'reelcut process' first", path)
			}

			transcriber := transcribe.New(cfg, logger)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Transcribing %d clips (%s, %s model)\n",
				len(clips), language.DisplayName(cfg.Transcription.Language), cfg.Transcription.Model)
			failures := 0
			for i := range clips {
				clip := &clips[i]
				text, err := transcriber.Transcribe(cmd.Context(), clip.Path)
				if err != nil {
					failures++
					fmt.Fprintf(out, "warning: %s: %v\n", filepath.Base(clip.Path), err)
					continue
				}
				clip.Transcript = text
				if err := store.UpdateClipTranscript(cmd.Context(), clip.ID, text); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %d characters\n", filepath.Base(clip.Path), len(text))
			}

			run, err := store.LatestRun(cmd.Context(), src.ID)
			if err != nil && !errors.Is(err, catalog.ErrNotFound) {
				return err
			}
			outputDir := pipeline.New(cfg, store, logger).SourceOutputDir(path)
			if _, err := catalog.WriteSidecar(outputDir, catalog.BuildSidecar(src, run, clips)); err != nil {
				return err
			}

			if failures > 0 {
				fmt.Fprintf(out, "Transcribed %d of %d clips\n", len(clips)-failures, len(clips))
			} else {
				fmt.Fprintf(out, "Transcribed %d clips\n", len(clips))
			}
			return nil
		},
	}
	return cmd
}
