// Package models defines the journal records, the portable bundle format and
// the reconciliation result.
//
// Sensitive text fields (Title, Content, Name, Description) hold ciphertext
// whenever a record is in its stored form. Sealed reports whether that is
// known for certain; legacy rows with Sealed=false fall back to the
// ciphertext classifier on read.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes journals from diaries. They share one shape.
type Kind string

const (
	KindJournal Kind = "journal"
	KindDiary   Kind = "diary"
)

type Entry struct {
	ID     string
	UserID string
	Kind   Kind

	Title   string
	Content string
	Date    time.Time

	Mood      string
	WordCount int

	Fingerprint string
	Sealed      bool
	CreatedAt   time.Time
}

type Bucket struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Icon        string
	Color       string
	Pinned      bool

	Fingerprint string
	Sealed      bool
	CreatedAt   time.Time

	Items []*BucketItem
}

type BucketItem struct {
	ID       string
	BucketID string
	Content  string
	Pinned   bool

	Fingerprint string
	Sealed      bool
	CreatedAt   time.Time
}

type User struct {
	Username  string
	CreatedAt time.Time
}

// Snapshot is every record a user has at one point in time.
type Snapshot struct {
	Journals []*Entry
	Diaries  []*Entry
	Buckets  []*Bucket
}

func NewID() string {
	return uuid.NewString()
}

// NewEntry returns a plaintext entry with a fresh id.
func NewEntry(userID string, kind Kind, title, content string, date time.Time) *Entry {
	return &Entry{
		ID:        NewID(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Content:   content,
		Date:      date,
		CreatedAt: time.Now().UTC(),
	}
}

// CountWords is the diary word count used when none was supplied.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// Clone copies b and its items.
func (b *Bucket) Clone() *Bucket {
	c := *b
	c.Items = make([]*BucketItem, len(b.Items))
	for i, it := range b.Items {
		ic := *it
		c.Items[i] = &ic
	}
	return &c
}
