package exif

import "testing"

func TestNormalizeFullBlock(t *testing.T) {
	raw := map[string]any{
		"Make":             "Canon",
		"Model":            "EOS R5",
		"LensModel":        "RF 50mm F1.2 L USM",
		"FNumber":          2.8,
		"ExposureTime":     "1/250",
		"ISO":              400.0,
		"FocalLength":      50.0,
		"DateTimeOriginal": "2024:01:15 14:30:00",
		"Software":         "Adobe Lightroom",
	}
	n := Normalize(raw)
	if n.Metadata == nil {
		t.Fatalf("expected metadata block")
	}
	if n.Metadata.Make != "Canon" || n.Metadata.Model != "EOS R5" {
		t.Errorf("unexpected make/model: %q %q", n.Metadata.Make, n.Metadata.Model)
	}
	if n.Metadata.FNumber != 2.8 || n.Metadata.ISO != 400 || n.Metadata.FocalLength != 50 {
		t.Errorf("unexpected numeric fields: %+v", n.Metadata)
	}
	if n.Camera != "Canon EOS R5" {
		t.Errorf("camera = %q, want %q", n.Camera, "Canon EOS R5")
	}
	if n.Lens != "RF 50mm F1.2 L USM" {
		t.Errorf("lens = %q", n.Lens)
	}
	if n.Settings == nil {
		t.Fatalf("expected settings")
	}
	if n.Settings.Aperture != "2.8" || n.Settings.Shutter != "1/250" || n.Settings.ISO != "400" {
		t.Errorf("unexpected settings: %+v", n.Settings)
	}
	if n.Settings.FocalLength != "50mm" {
		t.Errorf("focal length = %q, want %q", n.Settings.FocalLength, "50mm")
	}
	if n.CaptureDate != "2024-01-15" {
		t.Errorf("capture date = %q, want %q", n.CaptureDate, "2024-01-15")
	}
}

func TestNormalizeCameraRequiresBothHalves(t *testing.T) {
	cases := []map[string]any{
		{"Model": "EOS R5"},
		{"Make": "Canon"},
		{"Make": "Canon", "Model": ""},
		{"Make": "  ", "Model": "EOS R5"},
	}
	for _, raw := range cases {
		if n := Normalize(raw); n.Camera != "" {
			t.Errorf("Normalize(%v).Camera = %q, want empty", raw, n.Camera)
		}
	}
}

func TestNormalizeCaptureDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024:01:15 14:30:00", "2024-01-15"},
		{"1999:12:31 23:59:59", "1999-12-31"},
		{"2024-01-15 14:30:00", ""},
		{"2024:01:15", "2024-01-15"},
		{"not a date", ""},
		{"20240115", ""},
		{"", ""},
	}
	for _, tc := range cases {
		n := Normalize(map[string]any{"DateTimeOriginal": tc.in})
		if n.CaptureDate != tc.want {
			t.Errorf("DateTimeOriginal %q: capture date = %q, want %q", tc.in, n.CaptureDate, tc.want)
		}
	}
}

func TestNormalizeEmptyRaw(t *testing.T) {
	n := Normalize(map[string]any{})
	if n.Metadata != nil {
		t.Errorf("expected no metadata block for empty raw map")
	}
	if n.Settings != nil || n.Camera != "" || n.Lens != "" || n.CaptureDate != "" {
		t.Errorf("expected fully empty normalization, got %+v", n)
	}
}

func TestNormalizeSettingsOnlyWhenDerived(t *testing.T) {
	n := Normalize(map[string]any{"Make": "Canon", "Model": "EOS R5"})
	if n.Settings != nil {
		t.Errorf("expected no settings when no exposure fields present, got %+v", n.Settings)
	}
}

func TestNormalizeStringNumbers(t *testing.T) {
	raw := map[string]any{
		"FNumber":     "1.8",
		"ISO":         "100",
		"FocalLength": "35.0 mm",
	}
	n := Normalize(raw)
	if n.Settings == nil {
		t.Fatalf("expected settings")
	}
	if n.Settings.Aperture != "1.8" {
		t.Errorf("aperture = %q", n.Settings.Aperture)
	}
	if n.Settings.ISO != "100" {
		t.Errorf("iso = %q", n.Settings.ISO)
	}
	if n.Settings.FocalLength != "35mm" {
		t.Errorf("focal length = %q, want %q", n.Settings.FocalLength, "35mm")
	}
}
