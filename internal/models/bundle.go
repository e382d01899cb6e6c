package models

import (
	"fmt"
	"time"
)

// Bundle is the portable JSON document exchanged on import and export.
// An exported bundle is accepted by import unchanged.
type Bundle struct {
	User     *BundleUser     `json:"user" validate:"required"`
	Journals []BundleJournal `json:"journals" validate:"required,dive"`
	Diaries  []BundleDiary   `json:"diaries" validate:"required,dive"`
	Buckets  []BundleBucket  `json:"buckets" validate:"required,dive"`
}

type BundleUser struct {
	Username  string `json:"username" validate:"required"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type BundleJournal struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Date    string `json:"date" validate:"required,bundledate"`
	Mood    string `json:"mood,omitempty"`
}

type BundleDiary struct {
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content" validate:"required"`
	Date      string `json:"date" validate:"required,bundledate"`
	WordCount *int   `json:"wordCount,omitempty"`
}

type BundleBucket struct {
	Name        string       `json:"name" validate:"required"`
	Description string       `json:"description"`
	Icon        string       `json:"icon,omitempty"`
	Color       string       `json:"color,omitempty"`
	Pinned      bool         `json:"pinned"`
	Items       []BundleItem `json:"items" validate:"required,dive"`
}

type BundleItem struct {
	Content string `json:"content" validate:"required"`
	Pinned  bool   `json:"pinned"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate accepts RFC 3339 timestamps, zone-less timestamps and bare
// dates. Zone-less values are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// FormatDate is the export form of a record date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Day is the calendar-day key used for duplicate detection.
func Day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
