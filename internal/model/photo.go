// Package model contains the content entities shared across packages.
package model

import (
	"strings"
	"time"
)

// TechnicalMetadata is the structured EXIF block extracted from the media
// host. Once written it marks the photo as enriched; the backfill selector
// skips any photo that already carries it.
type TechnicalMetadata struct {
	Make             string  `json:"make,omitempty"`
	Model            string  `json:"model,omitempty"`
	LensModel        string  `json:"lensModel,omitempty"`
	FNumber          float64 `json:"fNumber,omitempty"`
	ExposureTime     string  `json:"exposureTime,omitempty"`
	ISO              int     `json:"iso,omitempty"`
	FocalLength      float64 `json:"focalLength,omitempty"`
	DateTimeOriginal string  `json:"dateTimeOriginal,omitempty"`
	Software         string  `json:"software,omitempty"`
}

// IsZero reports whether no field was populated.
func (m TechnicalMetadata) IsZero() bool {
	return m == TechnicalMetadata{}
}

// CameraSettings holds the human-facing display strings shown on a photo
// detail page, e.g. {Aperture: "2.8", Shutter: "1/250", ISO: "400"}.
type CameraSettings struct {
	Aperture    string `json:"aperture,omitempty"`
	Shutter     string `json:"shutter,omitempty"`
	ISO         string `json:"iso,omitempty"`
	FocalLength string `json:"focalLength,omitempty"`
}

// IsZero reports whether no setting was derived.
func (s CameraSettings) IsZero() bool {
	return s == CameraSettings{}
}

// Photo is one published photograph. MediaAssetID references the binary in
// the media host's namespace and is set once at upload time. Camera, Lens,
// Settings and CaptureDate may be curated by hand; the enrichment pipeline
// only ever fills them when they are empty.
type Photo struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Slug              string             `json:"slug"`
	Description       string             `json:"description,omitempty"`
	CollectionID      string             `json:"collectionId,omitempty"`
	MediaAssetID      string             `json:"mediaAssetId,omitempty"`
	Width             int                `json:"width,omitempty"`
	Height            int                `json:"height,omitempty"`
	Featured          bool               `json:"featured"`
	SortOrder         int                `json:"sortOrder"`
	Camera            string             `json:"camera,omitempty"`
	Lens              string             `json:"lens,omitempty"`
	Settings          *CameraSettings    `json:"settings,omitempty"`
	TechnicalMetadata *TechnicalMetadata `json:"technicalMetadata,omitempty"`
	CaptureDate       string             `json:"captureDate,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// Slugify derives a URL slug from a title: lower-case, non-alphanumerics
// collapsed to single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
