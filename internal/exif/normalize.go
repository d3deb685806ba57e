// Package exif maps the raw vendor metadata returned by the media host into
// the canonical structure stored on a photo. Normalization is pure and
// lenient: malformed or missing fields are dropped, never an error.
package exif

import (
	"strconv"
	"strings"

	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/model"
)

// Canonical raw metadata keys, exiftool naming.
const (
	keyMake             = "Make"
	keyModel            = "Model"
	keyLensModel        = "LensModel"
	keyFNumber          = "FNumber"
	keyExposureTime     = "ExposureTime"
	keyISO              = "ISO"
	keyFocalLength      = "FocalLength"
	keyDateTimeOriginal = "DateTimeOriginal"
	keySoftware         = "Software"
)

// Normalized is the canonical output of a normalization pass. Metadata is nil
// when the raw map held nothing usable; Camera, Lens and CaptureDate are empty
// strings when not derivable; Settings is nil unless at least one display
// setting was derived.
type Normalized struct {
	Metadata    *model.TechnicalMetadata
	Camera      string
	Lens        string
	Settings    *model.CameraSettings
	CaptureDate string
}

// Normalize converts a raw vendor metadata map into the canonical structure.
// Raw values may arrive as JSON numbers or strings depending on how the media
// host extracted them.
func Normalize(raw map[string]any) Normalized {
	var n Normalized

	meta := model.TechnicalMetadata{
		Make:         stringField(raw, keyMake),
		Model:        stringField(raw, keyModel),
		LensModel:    stringField(raw, keyLensModel),
		ExposureTime: stringField(raw, keyExposureTime),
		Software:     stringField(raw, keySoftware),
	}
	if f, ok := numberField(raw, keyFNumber); ok {
		meta.FNumber = f
	}
	if iso, ok := numberField(raw, keyISO); ok {
		meta.ISO = int(iso)
	}
	if fl, ok := numberField(raw, keyFocalLength); ok {
		meta.FocalLength = fl
	}
	if ts := stringField(raw, keyDateTimeOriginal); ts != "" {
		meta.DateTimeOriginal = ts
	}
	if !meta.IsZero() {
		n.Metadata = &meta
	}

	// Camera is only derived when both halves exist; a partial "Canon " or
	// bare model string never reaches the record.
	if meta.Make != "" && meta.Model != "" {
		n.Camera = strings.TrimSpace(meta.Make + " " + meta.Model)
	}
	n.Lens = meta.LensModel

	settings := model.CameraSettings{
		Shutter: meta.ExposureTime,
	}
	if meta.FNumber > 0 {
		settings.Aperture = formatNumber(meta.FNumber)
	}
	if meta.ISO > 0 {
		settings.ISO = strconv.Itoa(meta.ISO)
	}
	if meta.FocalLength > 0 {
		settings.FocalLength = formatNumber(meta.FocalLength) + "mm"
	}
	if !settings.IsZero() {
		n.Settings = &settings
	}

	n.CaptureDate = captureDate(meta.DateTimeOriginal)
	return n
}

// captureDate reformats the date portion of an EXIF timestamp
// ("YYYY:MM:DD HH:MM:SS") to "YYYY-MM-DD" by substituting the first two
// colons. Anything that does not match the pattern is dropped.
func captureDate(ts string) string {
	if len(ts) < 10 {
		return ""
	}
	date := ts[:10]
	if date[4] != ':' || date[7] != ':' {
		return ""
	}
	for i, r := range date {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return ""
		}
	}
	return date[:4] + "-" + date[5:7] + "-" + date[8:10]
}

func stringField(raw map[string]any, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return formatNumber(s)
	}
	return ""
}

// numberField pulls a numeric value out of the raw map. Some extractors emit
// numbers as strings, occasionally with a trailing unit ("35.0 mm"), so
// string values get their non-numeric suffix stripped before parsing.
func numberField(raw map[string]any, key string) (float64, bool) {
	v, ok := raw[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		for len(s) > 0 && (s[len(s)-1] < '0' || s[len(s)-1] > '9') {
			s = s[:len(s)-1]
		}
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
