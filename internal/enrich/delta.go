package enrich

import (
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/exif"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/model"
)

// Delta is the minimal set of field changes for one photo. A nil field means
// "leave the stored value alone"; a non-nil field is written as-is. Keeping
// the optionality in the type makes the fill-gap contract explicit instead of
// hiding it in an untyped map.
type Delta struct {
	Metadata    *model.TechnicalMetadata
	Camera      *string
	Lens        *string
	Settings    *model.CameraSettings
	CaptureDate *string
}

// Empty reports whether applying the delta would change nothing.
func (d Delta) Empty() bool {
	return d.Metadata == nil && d.Camera == nil && d.Lens == nil &&
		d.Settings == nil && d.CaptureDate == nil
}

// PlanMerge decides, per field, what the enrichment pass may write. The
// technical metadata block is always included when the fetch yielded anything,
// because it doubles as the "already enriched" marker the selector keys off.
// Every human-facing field is fill-gap only: a curated value on the record is
// never replaced by a derived one.
func PlanMerge(photo model.Photo, n exif.Normalized) Delta {
	var d Delta
	if n.Metadata == nil {
		return d
	}
	d.Metadata = n.Metadata
	if photo.Camera == "" && n.Camera != "" {
		d.Camera = &n.Camera
	}
	if photo.Lens == "" && n.Lens != "" {
		d.Lens = &n.Lens
	}
	if (photo.Settings == nil || photo.Settings.IsZero()) && n.Settings != nil {
		d.Settings = n.Settings
	}
	if photo.CaptureDate == "" && n.CaptureDate != "" {
		d.CaptureDate = &n.CaptureDate
	}
	return d
}
