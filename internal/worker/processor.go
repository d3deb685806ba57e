package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/enrich"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/mediahost"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/queue"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/repository"
)

// Processor is plugged into the asynq worker loop. It runs the same
// fetch/normalize/merge/patch sequence as the backfill command, one photo per
// task.
type Processor struct {
	repo     *repository.PhotoRepository
	media    *mediahost.Client
	pipeline *enrich.Pipeline
}

// NewProcessor constructs a worker processor.
func NewProcessor(repo *repository.PhotoRepository, media *mediahost.Client) *Processor {
	return &Processor{
		repo:     repo,
		media:    media,
		pipeline: enrich.New(repo, media, enrich.DefaultDelay),
	}
}

// Handler registers the enrich job handler.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.EnrichPhotoTask, p.handleEnrich)
	return mux
}

func (p *Processor) handleEnrich(ctx context.Context, task *asynq.Task) error {
	var payload queue.EnrichPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	photo, err := p.repo.Get(ctx, payload.PhotoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The record was deleted before the job ran; nothing to retry.
			log.Printf("enrich task: photo %s no longer exists", payload.PhotoID)
			return nil
		}
		return fmt.Errorf("load photo %s: %w", payload.PhotoID, err)
	}
	if photo.TechnicalMetadata != nil {
		log.Printf("enrich task: photo %s already enriched", photo.ID)
		return nil
	}
	if width, height, err := p.media.Dimensions(ctx, photo.MediaAssetID); err == nil && width > 0 {
		if err := p.repo.SetDimensions(ctx, photo.ID, width, height); err != nil {
			log.Printf("enrich task: set dimensions for %s: %v", photo.ID, err)
		}
	}
	updated, err := p.pipeline.EnrichOne(ctx, *photo)
	if err != nil {
		if errors.Is(err, mediahost.ErrNotFound) {
			// Retrying will not materialize the asset; leave the record for a
			// manual fix or a later backfill run.
			log.Printf("enrich task: %v", err)
			return nil
		}
		return err
	}
	if updated {
		log.Printf("enrich task: photo %s updated", photo.ID)
	} else {
		log.Printf("enrich task: photo %s had no usable metadata", photo.ID)
	}
	return nil
}
