package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"reelcut/internal/timeutil"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the catalog database",
	}
	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogShowCommand(ctx))
	return catalogCmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			sources, err := store.ListSources(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(sources) == 0 {
				fmt.Fprintln(out, "No sources registered")
				return nil
			}

			rows := make([][]string, 0, len(sources))
			for _, src := range sources {
				clips, err := store.ListClips(cmd.Context(), src.ID)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					src.Path,
					timeutil.FormatDuration(src.DurationSeconds),
					fmt.Sprintf("%d", len(clips)),
					yesNo(src.Interlaced),
				})
			}
			if !isTerminal(out) {
				for _, row := range rows {
					fmt.Fprintln(out, strings.Join(row, "\t"))
				}
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Source", "Duration", "Clips", "Interlaced"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <capture>",
		Short: "Show the latest detection run and clips for a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveCapture(args[0])
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
				return fmt.Errorf("catalog show %s: %w", path, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", src.Path)
			fmt.Fprintf(out, "  duration %s, %d bytes", timeutil.FormatDuration(src.DurationSeconds), src.SizeBytes)
			if src.VideoCodec != "" {
				fmt.Fprintf(out, ", %s %dx%d", src.VideoCodec, src.Width, src.Height)
			}
			fmt.Fprintln(out)

			run, err := store.LatestRun(cmd.Context(), src.ID)
			if err == nil {
				fmt.Fprintf(out, "  latest run: %d cuts (min confidence %.0f, verified %s)\n",
					len(run.Cuts), run.MinConfidence, yesNo(run.Verified))
				for _, cut := range run.Cuts {
					fmt.Fprintf(out, "    %s  %.1f  %s\n",
						timeutil.FormatTime(cut.Timestamp), cut.Score, cut.Signals)
				}
			} else {
				fmt.Fprintln(out, "  no detection runs recorded")
			}

			clips, err := store.ListClips(cmd.Context(), src.ID)
			if err != nil {
				return err
			}
			for _, clip := range clips {
				fmt.Fprintf(out, "  clip %s  %s - %s\n",
					filepath.Base(clip.Path), timeutil.FormatTime(clip.Start), timeutil.FormatTime(clip.End))
			}
			return nil
		},
	}
}
