package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/config"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/database"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/enrich"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/mediahost"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/repository"
)

func newEnrichCmd() *cobra.Command {
	var (
		delay  time.Duration
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Backfill EXIF metadata onto photos that lack it",
		Long: `Selects every photo with a media asset but no technical metadata, fetches
the raw EXIF block from the media host, and fills the gaps (camera, lens,
settings, capture date) without touching curated values. Records that fail
stay unenriched and are retried by the next run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.RequireDatabase(); err != nil {
				return err
			}
			if err := cfg.RequireMediaHost(); err != nil {
				return err
			}

			pool, err := database.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			media, err := mediahost.New(cfg.MediaBaseURL, cfg.MediaNamespace)
			if err != nil {
				return err
			}

			if delay <= 0 {
				delay = cfg.EnrichDelay
			}
			pipeline := enrich.New(repository.NewPhotoRepository(pool), media, delay)
			pipeline.SetDryRun(dryRun)

			// Per-record failures are already accounted for in the summary; only
			// a failed candidate query (or cancellation) surfaces as an error.
			sum, err := pipeline.Run(ctx)
			fmt.Printf("enrichment finished: %d updated, %d failed, %d skipped, %d processed\n",
				sum.Updated, sum.Failed, sum.Skipped, sum.Processed)
			return err
		},
	}
	cmd.Flags().DurationVar(&delay, "delay", 0, "Pause between records (defaults to PORTFOLIO_ENRICH_DELAY)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan merges without writing to the content store")
	return cmd
}
