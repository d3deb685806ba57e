package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/model"
)

// CollectionRepository holds the gallery collection queries.
type CollectionRepository struct {
	pool *pgxpool.Pool
}

// NewCollectionRepository constructs a repository.
func NewCollectionRepository(pool *pgxpool.Pool) *CollectionRepository {
	return &CollectionRepository{pool: pool}
}

const collectionColumns = `id, title, slug, description, cover_asset_id, sort_order, published, created_at, updated_at`

// Create inserts a collection.
func (r *CollectionRepository) Create(ctx context.Context, c *model.Collection) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Slug == "" {
		c.Slug = model.Slugify(c.Title)
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO collections (id, title, slug, description, cover_asset_id, sort_order, published, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, c.ID, c.Title, c.Slug, c.Description, c.CoverAssetID, c.SortOrder, c.Published, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert collection: %w", err)
	}
	return nil
}

// List returns published collections in display order.
func (r *CollectionRepository) List(ctx context.Context) ([]model.Collection, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+collectionColumns+` FROM collections
		WHERE published ORDER BY sort_order, created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()
	var out []model.Collection
	for rows.Next() {
		var c model.Collection
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.CoverAssetID,
			&c.SortOrder, &c.Published, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}
	return out, nil
}

// GetBySlug returns one collection.
func (r *CollectionRepository) GetBySlug(ctx context.Context, slug string) (*model.Collection, error) {
	var c model.Collection
	row := r.pool.QueryRow(ctx, `SELECT `+collectionColumns+` FROM collections WHERE slug=$1`, slug)
	if err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.CoverAssetID,
		&c.SortOrder, &c.Published, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select collection: %w", err)
	}
	return &c, nil
}

// VideoRepository holds the video queries.
type VideoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository constructs a repository.
func NewVideoRepository(pool *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{pool: pool}
}

const videoColumns = `id, title, slug, video_url, thumb_asset_id, description, published, created_at, updated_at`

// List returns published videos, newest first.
func (r *VideoRepository) List(ctx context.Context) ([]model.Video, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+videoColumns+` FROM videos WHERE published ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()
	var out []model.Video
	for rows.Next() {
		var v model.Video
		if err := rows.Scan(&v.ID, &v.Title, &v.Slug, &v.VideoURL, &v.ThumbAssetID,
			&v.Description, &v.Published, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return out, nil
}

// GetBySlug returns one video.
func (r *VideoRepository) GetBySlug(ctx context.Context, slug string) (*model.Video, error) {
	var v model.Video
	row := r.pool.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE slug=$1`, slug)
	if err := row.Scan(&v.ID, &v.Title, &v.Slug, &v.VideoURL, &v.ThumbAssetID,
		&v.Description, &v.Published, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select video: %w", err)
	}
	return &v, nil
}

// SiteRepository reads and writes the singleton site sections (hero, services,
// contact).
type SiteRepository struct {
	pool *pgxpool.Pool
}

// NewSiteRepository constructs a repository.
func NewSiteRepository(pool *pgxpool.Pool) *SiteRepository {
	return &SiteRepository{pool: pool}
}

// Section returns one site section document.
func (r *SiteRepository) Section(ctx context.Context, key string) (*model.SiteSection, error) {
	var (
		s    model.SiteSection
		data []byte
	)
	row := r.pool.QueryRow(ctx, `SELECT key, data, updated_at FROM site_sections WHERE key=$1`, key)
	if err := row.Scan(&s.Key, &data, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select site section: %w", err)
	}
	s.Data = json.RawMessage(data)
	return &s, nil
}

// UpsertSection replaces a site section document.
func (r *SiteRepository) UpsertSection(ctx context.Context, key string, data json.RawMessage) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO site_sections (key, data, updated_at) VALUES ($1,$2,$3)
		ON CONFLICT (key) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at
	`, key, []byte(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert site section: %w", err)
	}
	return nil
}
