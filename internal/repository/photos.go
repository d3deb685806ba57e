// Package repository wraps all SQL used by the API, the worker and the
// maintenance commands.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/enrich"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

const photoColumns = `id, title, slug, description, collection_id, media_asset_id,
	width, height, featured, sort_order, camera, lens, settings,
	technical_metadata, capture_date, created_at, updated_at`

// PhotoRepository holds the photo queries.
type PhotoRepository struct {
	pool *pgxpool.Pool
}

// NewPhotoRepository constructs a repository.
func NewPhotoRepository(pool *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{pool: pool}
}

// Create inserts a new photo. Enrichment fields start absent; the worker or
// the backfill command fills them later.
func (r *PhotoRepository) Create(ctx context.Context, p *model.Photo) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Slug == "" {
		p.Slug = model.Slugify(p.Title)
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO photos (id, title, slug, description, collection_id, media_asset_id,
			width, height, featured, sort_order, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, p.ID, p.Title, p.Slug, p.Description, nullString(p.CollectionID), nullString(p.MediaAssetID),
		p.Width, p.Height, p.Featured, p.SortOrder, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert photo: %w", err)
	}
	return nil
}

// Get returns one photo by id.
func (r *PhotoRepository) Get(ctx context.Context, id string) (*model.Photo, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+photoColumns+` FROM photos WHERE id=$1`, id)
	return scanPhoto(row)
}

// GetBySlug returns one photo by its URL slug.
func (r *PhotoRepository) GetBySlug(ctx context.Context, slug string) (*model.Photo, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+photoColumns+` FROM photos WHERE slug=$1`, slug)
	return scanPhoto(row)
}

// ListOptions narrows a photo listing.
type ListOptions struct {
	CollectionID string
	FeaturedOnly bool
	Limit        int
}

// List returns photos ordered for gallery display.
func (r *PhotoRepository) List(ctx context.Context, opts ListOptions) ([]model.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos`
	var (
		where []string
		args  []any
	)
	if opts.CollectionID != "" {
		args = append(args, opts.CollectionID)
		where = append(where, fmt.Sprintf("collection_id=$%d", len(args)))
	}
	if opts.FeaturedOnly {
		where = append(where, "featured")
	}
	for i, clause := range where {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY sort_order, created_at DESC"
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()
	return collectPhotos(rows)
}

// ListUnenriched selects the backfill candidates: photos that reference a
// media asset but have never had technical metadata written. A fresh query is
// issued per call; ordering is whatever the store returns.
func (r *PhotoRepository) ListUnenriched(ctx context.Context) ([]model.Photo, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+photoColumns+` FROM photos
		WHERE media_asset_id IS NOT NULL AND media_asset_id <> ''
		  AND technical_metadata IS NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("list unenriched photos: %w", err)
	}
	defer rows.Close()
	return collectPhotos(rows)
}

// PatchEnrichment applies a merge delta as one partial update. Delta fields
// left nil pass NULL through COALESCE and keep the stored value, so the
// statement only ever touches the keys the merge policy decided to set.
func (r *PhotoRepository) PatchEnrichment(ctx context.Context, id string, delta enrich.Delta) error {
	metaJSON, err := marshalNullable(delta.Metadata)
	if err != nil {
		return fmt.Errorf("encode technical metadata: %w", err)
	}
	settingsJSON, err := marshalNullable(delta.Settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE photos
		SET technical_metadata = COALESCE($1, technical_metadata),
			camera = COALESCE($2, camera),
			lens = COALESCE($3, lens),
			settings = COALESCE($4, settings),
			capture_date = COALESCE($5, capture_date),
			updated_at = $6
		WHERE id=$7
	`, metaJSON, delta.Camera, delta.Lens, settingsJSON, delta.CaptureDate, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("patch photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("patch photo %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetDimensions stores the pixel size reported by the media host.
func (r *PhotoRepository) SetDimensions(ctx context.Context, id string, width, height int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE photos SET width=$1, height=$2, updated_at=$3 WHERE id=$4
	`, width, height, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set photo dimensions: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(row rowScanner) (*model.Photo, error) {
	var (
		p            model.Photo
		collectionID sql.NullString
		assetID      sql.NullString
		camera       sql.NullString
		lens         sql.NullString
		captureDate  sql.NullString
		settingsJSON []byte
		metaJSON     []byte
	)
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &collectionID, &assetID,
		&p.Width, &p.Height, &p.Featured, &p.SortOrder, &camera, &lens, &settingsJSON,
		&metaJSON, &captureDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan photo: %w", err)
	}
	p.CollectionID = collectionID.String
	p.MediaAssetID = assetID.String
	p.Camera = camera.String
	p.Lens = lens.String
	p.CaptureDate = captureDate.String
	if len(settingsJSON) > 0 {
		var s model.CameraSettings
		if err := json.Unmarshal(settingsJSON, &s); err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
		p.Settings = &s
	}
	if len(metaJSON) > 0 {
		var m model.TechnicalMetadata
		if err := json.Unmarshal(metaJSON, &m); err != nil {
			return nil, fmt.Errorf("decode technical metadata: %w", err)
		}
		p.TechnicalMetadata = &m
	}
	return &p, nil
}

func collectPhotos(rows pgx.Rows) ([]model.Photo, error) {
	var out []model.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photos: %w", err)
	}
	return out, nil
}

// marshalNullable encodes v to JSON, or returns nil (SQL NULL) for a nil
// pointer so COALESCE keeps the stored column.
func marshalNullable(v any) ([]byte, error) {
	switch t := v.(type) {
	case *model.TechnicalMetadata:
		if t == nil {
			return nil, nil
		}
	case *model.CameraSettings:
		if t == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
