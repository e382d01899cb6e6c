package models

import "fmt"

type EntryCounts struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type BucketCounts struct {
	New    int `json:"new"`
	Merged int `json:"merged"`
	Items  int `json:"items"`
}

// Result summarizes one reconciliation pass.
type Result struct {
	Journals EntryCounts  `json:"journals"`
	Diaries  EntryCounts  `json:"diaries"`
	Buckets  BucketCounts `json:"buckets"`
}

func (r Result) String() string {
	return fmt.Sprintf("journals: %d imported, %d skipped; diaries: %d imported, %d skipped; buckets: %d new, %d merged, %d items",
		r.Journals.Imported, r.Journals.Skipped,
		r.Diaries.Imported, r.Diaries.Skipped,
		r.Buckets.New, r.Buckets.Merged, r.Buckets.Items)
}
