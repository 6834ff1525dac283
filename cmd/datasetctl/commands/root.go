package commands

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/timbre/internal/adapters/csvdataset"
	"github.com/ewilliams-labs/timbre/internal/adapters/preview"
	"github.com/ewilliams-labs/timbre/internal/config"
	"github.com/ewilliams-labs/timbre/internal/core/domain"
	"github.com/ewilliams-labs/timbre/internal/core/services"
	"github.com/ewilliams-labs/timbre/internal/dsp"
	"github.com/ewilliams-labs/timbre/internal/worker"
)

var (
	// Global flags
	outPath     string
	trackLimit  int
	concurrency int
	mfccCount   int
	structure   bool

	// Global configuration
	cfg config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "datasetctl",
	Short: "Build labeled audio-feature datasets from music catalogs",
	Long: `datasetctl pulls track previews from a music catalog, runs each one
through the feature extraction pipeline, and writes the labeled feature
rows to a CSV file ready for model training.

Tracks without preview audio are skipped; tracks whose pipeline fails
are logged and counted, never abort the build.

Examples:
  # Search Deezer and label everything with the query
  datasetctl deezer amapiano --limit 50

  # Pull the default labeled Spotify playlists
  datasetctl spotify

  # Custom playlists, one label each
  datasetctl spotify highlife=37i9dQZF1DWSiyIBdVQrkk --out highlife.csv`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVarP(&outPath, "out", "o", "", "output CSV path (default depends on the command)")
	rootCmd.PersistentFlags().IntVar(&trackLimit, "limit", 25, "max tracks per label")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "parallel pipeline workers (default WORKER_COUNT)")
	rootCmd.PersistentFlags().IntVar(&mfccCount, "mfcc", services.DefaultMFCCCount, "cepstral coefficients per track")
	rootCmd.PersistentFlags().BoolVar(&structure, "structure", true, "include rhythm/structure descriptors")

	// Add subcommands
	rootCmd.AddCommand(deezerCmd)
	rootCmd.AddCommand(spotifyCmd)
}

func initConfig() {
	_ = godotenv.Load()
	cfg = config.Load()
}

// workers resolves the worker count: the flag wins, then WORKER_COUNT.
func workers() int {
	if concurrency > 0 {
		return concurrency
	}
	return cfg.WorkerCount
}

// newBuilder wires the preview pipeline shared by every dataset command.
func newBuilder() *services.DatasetBuilder {
	httpClient := &http.Client{Timeout: cfg.PreviewTimeout}
	loader := preview.NewLoader(httpClient, cfg.PreviewMaxSeconds)
	extractor := services.NewExtractor(dsp.New(dsp.DefaultConfig()))
	opts := services.ExtractOptions{MFCCCount: mfccCount, Structure: structure}
	return services.NewDatasetBuilder(loader, extractor, csvdataset.NewWriter(), opts)
}

// analyzeAll runs every track through the pipeline under one genre label,
// bounded by the worker pool.
func analyzeAll(ctx context.Context, builder *services.DatasetBuilder, tracks []domain.Track, label string) []domain.TrackResult {
	analyze := func(ctx context.Context, track domain.Track) domain.TrackResult {
		return builder.AnalyzeTrack(ctx, track, label)
	}
	return worker.Process(ctx, analyze, tracks, workers())
}

func printSummary(path string, summary services.BuildSummary) {
	fmt.Println()
	color.Green("analyzed %d tracks", summary.Analyzed)
	if summary.Skipped > 0 {
		color.Yellow("skipped  %d tracks without preview audio", summary.Skipped)
	}
	if summary.Failed > 0 {
		color.Red("failed   %d tracks", summary.Failed)
	}
	fmt.Printf("dataset written to %s\n", path)
}

// sanitize turns a free-text label into a filename fragment.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, s)
}
