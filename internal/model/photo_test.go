package model

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Golden Hour at Angkor", "golden-hour-at-angkor"},
		{"  Wedding / Day 2  ", "wedding-day-2"},
		{"UPPER CASE", "upper-case"},
		{"---", ""},
		{"", ""},
		{"café nights", "caf-nights"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.title); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestTechnicalMetadataIsZero(t *testing.T) {
	if !(TechnicalMetadata{}).IsZero() {
		t.Error("zero value should report zero")
	}
	if (TechnicalMetadata{Make: "Canon"}).IsZero() {
		t.Error("populated value should not report zero")
	}
}
