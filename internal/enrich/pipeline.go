// Package enrich implements the EXIF backfill pipeline: select photos that
// still lack technical metadata, fetch raw metadata from the media host,
// normalize it, and patch the gaps back into the content store. The loop is
// strictly sequential with a fixed delay between records to stay under the
// media host's request-rate ceiling.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/exif"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/mediahost"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/model"
)

// DefaultDelay is the pause between records.
const DefaultDelay = 500 * time.Millisecond

// Store is the content-store surface the pipeline needs: one candidate query
// and one partial update per record.
type Store interface {
	ListUnenriched(ctx context.Context) ([]model.Photo, error)
	PatchEnrichment(ctx context.Context, id string, delta Delta) error
}

// MetadataSource fetches raw vendor metadata for one media asset.
type MetadataSource interface {
	ImageMetadata(ctx context.Context, assetID string) (map[string]any, error)
}

// Summary is the end-of-run accounting printed by the enrich command.
type Summary struct {
	Processed int
	Updated   int
	Skipped   int
	Failed    int
}

// Pipeline runs the backfill. Construct it with New; the zero value is not
// usable.
type Pipeline struct {
	store  Store
	source MetadataSource
	delay  time.Duration
	dryRun bool
}

// New builds a Pipeline. A non-positive delay falls back to DefaultDelay.
func New(store Store, source MetadataSource, delay time.Duration) *Pipeline {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Pipeline{store: store, source: source, delay: delay}
}

// SetDryRun makes the pipeline log planned changes without writing them.
func (p *Pipeline) SetDryRun(dry bool) {
	p.dryRun = dry
}

// Run selects every photo missing technical metadata and carries each one
// through fetch, normalize, merge and patch before moving to the next.
// Per-record failures are logged and counted, never fatal; only a failed
// candidate query or context cancellation aborts the run. Because the
// selector excludes already-enriched photos, re-running after a partial
// failure retries exactly the records that still need work.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	photos, err := p.store.ListUnenriched(ctx)
	if err != nil {
		return sum, fmt.Errorf("list unenriched photos: %w", err)
	}
	log.Printf("enrich: %d candidate photo(s)", len(photos))

	for i, photo := range photos {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		sum.Processed++
		updated, err := p.EnrichOne(ctx, photo)
		switch {
		case err != nil:
			sum.Failed++
			log.Printf("enrich: %s (%d/%d) failed: %v", photo.ID, i+1, len(photos), err)
		case updated:
			sum.Updated++
			log.Printf("enrich: %s (%d/%d) updated", photo.ID, i+1, len(photos))
		default:
			sum.Skipped++
			log.Printf("enrich: %s (%d/%d) no updates needed", photo.ID, i+1, len(photos))
		}
		// The delay runs after every record, including failures.
		if err := sleepContext(ctx, p.delay); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

// EnrichOne fetches, normalizes and patches a single photo. It returns true
// when a delta was written. Photos without a media asset reference are never
// touched.
func (p *Pipeline) EnrichOne(ctx context.Context, photo model.Photo) (bool, error) {
	if photo.MediaAssetID == "" {
		return false, errors.New("photo has no media asset id")
	}
	raw, err := p.source.ImageMetadata(ctx, photo.MediaAssetID)
	if err != nil {
		if errors.Is(err, mediahost.ErrNotFound) {
			return false, fmt.Errorf("asset %s: %w", photo.MediaAssetID, err)
		}
		return false, fmt.Errorf("fetch metadata for %s: %w", photo.MediaAssetID, err)
	}
	delta := PlanMerge(photo, exif.Normalize(raw))
	if delta.Empty() {
		return false, nil
	}
	if p.dryRun {
		log.Printf("enrich: dry run, would patch %s", photo.ID)
		return false, nil
	}
	if err := p.store.PatchEnrichment(ctx, photo.ID, delta); err != nil {
		return false, fmt.Errorf("patch photo %s: %w", photo.ID, err)
	}
	return true, nil
}

// sleepContext blocks for d, returning early when ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
