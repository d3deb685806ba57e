package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// EnrichPhotoTask is scheduled each time a photo with a media asset is
	// created, so new uploads get their EXIF fields without waiting for the
	// next backfill run.
	EnrichPhotoTask = "photo:enrich"
)

// EnrichPayload tells the worker which photo to enrich.
type EnrichPayload struct {
	PhotoID      string `json:"photo_id"`
	MediaAssetID string `json:"media_asset_id"`
}

// EnqueueEnrich enqueues a single-photo enrichment job. Unlike the batch
// backfill, queued jobs retry transient failures through asynq.
func EnqueueEnrich(ctx context.Context, client *asynq.Client, payload EnrichPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(EnrichPhotoTask, data)
	if _, err := client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue enrich task: %w", err)
	}
	return nil
}
