package main

import (
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/config"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/database"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/model"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/queue"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/repository"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/s3storage"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".tiff": true,
}

func newUploadCmd() *cobra.Command {
	var (
		collectionID string
		prefix       string
		skipQueue    bool
	)
	cmd := &cobra.Command{
		Use:   "upload <directory>",
		Short: "Bulk-upload image originals and register photo records",
		Long: `Walks a directory of image files, uploads each binary into the media
bucket, creates the photo record with the media asset reference set, and
queues background enrichment so EXIF fields appear without a manual backfill.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := args[0]

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.RequireDatabase(); err != nil {
				return err
			}
			if err := cfg.RequireS3(); err != nil {
				return err
			}

			pool, err := database.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()
			if err := database.EnsureSchema(ctx, pool); err != nil {
				return err
			}
			repo := repository.NewPhotoRepository(pool)

			store, err := s3storage.New(cfg)
			if err != nil {
				return err
			}
			if err := store.EnsureBucket(ctx); err != nil {
				return err
			}

			var queueClient *asynq.Client
			if !skipQueue {
				queueClient = asynq.NewClient(asynq.RedisClientOpt{
					Addr:     cfg.RedisAddr,
					Password: cfg.RedisPassword,
					DB:       cfg.RedisDB,
				})
				defer queueClient.Close()
			}

			var uploaded, failed int
			walkErr := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(path))] {
					return nil
				}
				if err := uploadOne(cmd, path, prefix, collectionID, repo, store, queueClient); err != nil {
					failed++
					log.Printf("upload %s failed: %v", path, err)
					return nil
				}
				uploaded++
				return nil
			})
			if walkErr != nil {
				return fmt.Errorf("walk %s: %w", dir, walkErr)
			}
			fmt.Printf("upload finished: %d uploaded, %d failed\n", uploaded, failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&collectionID, "collection", "", "Collection id to attach the photos to")
	cmd.Flags().StringVar(&prefix, "prefix", "originals", "Asset key prefix inside the media bucket")
	cmd.Flags().BoolVar(&skipQueue, "skip-queue", false, "Do not enqueue background enrichment (run the backfill later)")
	return cmd
}

func uploadOne(cmd *cobra.Command, path, prefix, collectionID string, repo *repository.PhotoRepository, store *s3storage.Storage, queueClient *asynq.Client) error {
	ctx := cmd.Context()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	photoID := uuid.NewString()
	assetKey := fmt.Sprintf("%s/%s/%s", prefix, photoID, base)

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := store.UploadOriginal(ctx, assetKey, f, info.Size(), contentType); err != nil {
		return err
	}

	photo := &model.Photo{
		ID:           photoID,
		Title:        title,
		// Filenames repeat across shoots, so the slug gets an id suffix.
		Slug:         model.Slugify(title) + "-" + photoID[:8],
		CollectionID: collectionID,
		MediaAssetID: assetKey,
	}
	if err := repo.Create(ctx, photo); err != nil {
		return err
	}
	if queueClient != nil {
		payload := queue.EnrichPayload{PhotoID: photo.ID, MediaAssetID: assetKey}
		if err := queue.EnqueueEnrich(ctx, queueClient, payload); err != nil {
			// The record exists; the backfill command covers it on the next run.
			log.Printf("enqueue enrich for %s: %v", photo.ID, err)
		}
	}
	log.Printf("uploaded %s as photo %s", base, photo.ID)
	return nil
}
