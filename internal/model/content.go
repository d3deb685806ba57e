package model

import (
	"encoding/json"
	"time"
)

// Collection groups photos into a gallery page.
type Collection struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	CoverAssetID string    `json:"coverAssetId,omitempty"`
	SortOrder    int       `json:"sortOrder"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Video is an embedded video entry shown alongside the photo galleries.
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	VideoURL     string    `json:"videoUrl"`
	ThumbAssetID string    `json:"thumbAssetId,omitempty"`
	Description  string    `json:"description,omitempty"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Site section keys. Each section is a singleton JSON document edited through
// the admin gate (hero copy, services list, contact details).
const (
	SectionHero     = "hero"
	SectionServices = "services"
	SectionContact  = "contact"
)

// KnownSection reports whether key names one of the editable site sections.
func KnownSection(key string) bool {
	switch key {
	case SectionHero, SectionServices, SectionContact:
		return true
	}
	return false
}

// SiteSection is a keyed JSON document of site copy.
type SiteSection struct {
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
