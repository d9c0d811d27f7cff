package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"reelcut/internal/textutil"
	"reelcut/internal/timeutil"
)

type searchHit struct {
	clipPath   string
	sourcePath string
	start      float64
	score      float64
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Find clips by transcript content",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := textutil.NewFingerprint(strings.Join(args, " "))
			if query == nil {
				return fmt.Errorf("query has no searchable terms (tokens shorter than 3 characters are ignored)")
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			sources, err := store.ListSources(cmd.Context())
			if err != nil {
				return err
			}

			var hits []searchHit
			for _, src := range sources {
				clips, err := store.ListClips(cmd.Context(), src.ID)
				if err != nil {
					return err
				}
				for _, clip := range clips {
					score := textutil.CosineSimilarity(query, textutil.NewFingerprint(clip.Transcript))
					if score <= 0 {
						continue
					}
					hits = append(hits, searchHit{
						clipPath:   clip.Path,
						sourcePath: src.Path,
						start:      clip.Start,
						score:      score,
					})
				}
			}
			sort.Slice(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
			if limit > 0 && len(hits) > limit {
				hits = hits[:limit]
			}

			out := cmd.OutOrStdout()
			if len(hits) == 0 {
				fmt.Fprintln(out, "No matching transcripts")
				return nil
			}
			rows := make([][]string, 0, len(hits))
			for _, hit := range hits {
				rows = append(rows, []string{
					fmt.Sprintf("%.2f", hit.score),
					filepath.Base(hit.clipPath),
					filepath.Base(hit.sourcePath),
					timeutil.FormatTime(hit.start),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Score", "Clip", "Source", "Start"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of results")
	return cmd
}
