package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/timbre/internal/adapters/deezer"
	"github.com/ewilliams-labs/timbre/internal/core/domain"
)

var deezerCmd = &cobra.Command{
	Use:   "deezer <query> [query...]",
	Short: "Build a dataset from Deezer search results",
	Long: `Search the Deezer catalog and analyze the preview of every hit.

Each query doubles as the genre label for its tracks, so
'datasetctl deezer amapiano afrobeats' produces a two-class dataset.

Examples:
  datasetctl deezer amapiano
  datasetctl deezer amapiano afrobeats --limit 50 --out two_class.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := deezer.NewClient(nil, cfg.DeezerBaseURL)
		builder := newBuilder()

		var results []domain.TrackResult
		for _, query := range args {
			color.Cyan("searching deezer for %q", query)
			tracks, err := client.Search(cmd.Context(), query, trackLimit)
			if err != nil {
				return err
			}
			fmt.Printf("  %d tracks found\n", len(tracks))
			results = append(results, analyzeAll(cmd.Context(), builder, tracks, query)...)
		}

		path := outPath
		if path == "" {
			path = fmt.Sprintf("deezer_%s_dataset.csv", sanitize(args[0]))
		}
		summary, err := builder.WriteDataset(path, results)
		if err != nil {
			return err
		}
		printSummary(path, summary)
		return nil
	},
}
