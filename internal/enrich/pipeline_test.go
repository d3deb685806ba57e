package enrich

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/exif"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/mediahost"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/model"
)

// fakeStore keeps photos in memory and applies deltas the way the SQL layer
// does, so idempotency across runs can be exercised end to end.
type fakeStore struct {
	photos   map[string]*model.Photo
	patches  int
	patchErr error
}

func newFakeStore(photos ...*model.Photo) *fakeStore {
	s := &fakeStore{photos: make(map[string]*model.Photo)}
	for _, p := range photos {
		s.photos[p.ID] = p
	}
	return s
}

func (s *fakeStore) ListUnenriched(ctx context.Context) ([]model.Photo, error) {
	var out []model.Photo
	for _, p := range s.photos {
		if p.MediaAssetID != "" && p.TechnicalMetadata == nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakeStore) PatchEnrichment(ctx context.Context, id string, delta Delta) error {
	if s.patchErr != nil {
		return s.patchErr
	}
	p, ok := s.photos[id]
	if !ok {
		return errors.New("no such photo")
	}
	s.patches++
	if delta.Metadata != nil {
		p.TechnicalMetadata = delta.Metadata
	}
	if delta.Camera != nil {
		p.Camera = *delta.Camera
	}
	if delta.Lens != nil {
		p.Lens = *delta.Lens
	}
	if delta.Settings != nil {
		p.Settings = delta.Settings
	}
	if delta.CaptureDate != nil {
		p.CaptureDate = *delta.CaptureDate
	}
	return nil
}

// fakeSource serves canned metadata per asset id.
type fakeSource struct {
	metadata map[string]map[string]any
	errs     map[string]error
	calls    int
}

func (f *fakeSource) ImageMetadata(ctx context.Context, assetID string) (map[string]any, error) {
	f.calls++
	if err := f.errs[assetID]; err != nil {
		return nil, err
	}
	raw, ok := f.metadata[assetID]
	if !ok {
		return nil, fmt.Errorf("asset missing: %w", mediahost.ErrNotFound)
	}
	return raw, nil
}

func TestRunEnrichesCandidate(t *testing.T) {
	store := newFakeStore(&model.Photo{ID: "p1", MediaAssetID: "abc123"})
	source := &fakeSource{metadata: map[string]map[string]any{
		"abc123": {"Make": "Canon", "Model": "R5", "FNumber": 2.8, "ISO": 400.0},
	}}
	sum, err := New(store, source, 1).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Processed != 1 || sum.Updated != 1 || sum.Failed != 0 || sum.Skipped != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	p := store.photos["p1"]
	if p.TechnicalMetadata == nil || p.TechnicalMetadata.Make != "Canon" || p.TechnicalMetadata.ISO != 400 {
		t.Errorf("technical metadata not written: %+v", p.TechnicalMetadata)
	}
	if p.Camera != "Canon R5" {
		t.Errorf("camera = %q, want %q", p.Camera, "Canon R5")
	}
	if p.Settings == nil || p.Settings.Aperture != "2.8" || p.Settings.ISO != "400" {
		t.Errorf("settings = %+v", p.Settings)
	}
	if p.Lens != "" || p.CaptureDate != "" {
		t.Errorf("lens/captureDate should stay absent, got %q %q", p.Lens, p.CaptureDate)
	}
}

func TestRunNeverClobbersCuratedFields(t *testing.T) {
	store := newFakeStore(&model.Photo{ID: "p1", MediaAssetID: "abc123", Camera: "My Canon"})
	source := &fakeSource{metadata: map[string]map[string]any{
		"abc123": {"Make": "Canon", "Model": "R5"},
	}}
	if _, err := New(store, source, 1).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	p := store.photos["p1"]
	if p.Camera != "My Canon" {
		t.Errorf("curated camera was overwritten: %q", p.Camera)
	}
	if p.TechnicalMetadata == nil {
		t.Errorf("technical metadata should still be written")
	}
}

func TestRunSkipsFetchFailures(t *testing.T) {
	store := newFakeStore(
		&model.Photo{ID: "p1", MediaAssetID: "gone"},
		&model.Photo{ID: "p2", MediaAssetID: "ok"},
	)
	source := &fakeSource{
		metadata: map[string]map[string]any{"ok": {"Make": "Nikon", "Model": "Z8"}},
		errs:     map[string]error{"gone": fmt.Errorf("status 404: %w", mediahost.ErrNotFound)},
	}
	sum, err := New(store, source, 1).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Processed != 2 || sum.Updated != 1 || sum.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if store.photos["p1"].TechnicalMetadata != nil {
		t.Errorf("failed record must stay unenriched")
	}
	// The failed record is still a candidate for the next run.
	remaining, _ := store.ListUnenriched(context.Background())
	if len(remaining) != 1 || remaining[0].ID != "p1" {
		t.Errorf("expected p1 to remain selectable, got %v", remaining)
	}
}

func TestRunIsIdempotentAcrossRuns(t *testing.T) {
	store := newFakeStore(&model.Photo{ID: "p1", MediaAssetID: "abc123"})
	source := &fakeSource{metadata: map[string]map[string]any{
		"abc123": {"Make": "Canon", "Model": "R5"},
	}}
	pipeline := New(store, source, 1)
	if _, err := pipeline.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	sum, err := pipeline.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if sum.Processed != 0 {
		t.Errorf("second run selected %d candidates, want 0", sum.Processed)
	}
	if store.patches != 1 {
		t.Errorf("expected exactly one write across both runs, got %d", store.patches)
	}
}

func TestRunEmptySelection(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{}
	sum, err := New(store, source, 1).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum != (Summary{}) {
		t.Errorf("expected zero summary, got %+v", sum)
	}
	if source.calls != 0 {
		t.Errorf("no fetches expected, got %d", source.calls)
	}
}

func TestRunCountsWriteFailures(t *testing.T) {
	store := newFakeStore(&model.Photo{ID: "p1", MediaAssetID: "abc123"})
	store.patchErr = errors.New("conflict")
	source := &fakeSource{metadata: map[string]map[string]any{
		"abc123": {"Make": "Canon", "Model": "R5"},
	}}
	sum, err := New(store, source, 1).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Failed != 1 || sum.Updated != 0 {
		t.Errorf("unexpected summary: %+v", sum)
	}
}

func TestRunStopsOnCancellation(t *testing.T) {
	store := newFakeStore(&model.Photo{ID: "p1", MediaAssetID: "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(store, &fakeSource{}, 1).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEnrichOneEmptyMetadataIsNoOp(t *testing.T) {
	store := newFakeStore(&model.Photo{ID: "p1", MediaAssetID: "blank"})
	source := &fakeSource{metadata: map[string]map[string]any{"blank": {}}}
	sum, err := New(store, source, 1).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Skipped != 1 || sum.Updated != 0 || sum.Failed != 0 {
		t.Errorf("unexpected summary: %+v", sum)
	}
	if store.patches != 0 {
		t.Errorf("no write expected for empty metadata")
	}
}

func TestEnrichOneRequiresAssetID(t *testing.T) {
	p := New(newFakeStore(), &fakeSource{}, 1)
	if _, err := p.EnrichOne(context.Background(), model.Photo{ID: "p1"}); err == nil {
		t.Fatalf("expected error for photo without media asset id")
	}
}

func TestPlanMergeFillGap(t *testing.T) {
	n := exif.Normalize(map[string]any{
		"Make": "Canon", "Model": "R5", "LensModel": "RF 35mm",
		"ISO": 200.0, "DateTimeOriginal": "2024:06_01 10:00:00",
	})
	photo := model.Photo{
		ID:     "p1",
		Lens:   "Hand-noted lens",
		Camera: "",
	}
	d := PlanMerge(photo, n)
	if d.Metadata == nil {
		t.Fatalf("metadata must always be included when fetch yielded data")
	}
	if d.Camera == nil || *d.Camera != "Canon R5" {
		t.Errorf("camera gap should be filled")
	}
	if d.Lens != nil {
		t.Errorf("curated lens must not appear in the delta")
	}
	if d.Settings == nil || d.Settings.ISO != "200" {
		t.Errorf("settings = %+v", d.Settings)
	}
	if d.CaptureDate != nil {
		t.Errorf("malformed timestamp must not produce a capture date")
	}
}

func TestPlanMergeEmptyNormalization(t *testing.T) {
	d := PlanMerge(model.Photo{ID: "p1"}, exif.Normalize(map[string]any{}))
	if !d.Empty() {
		t.Fatalf("expected empty delta, got %+v", d)
	}
}
