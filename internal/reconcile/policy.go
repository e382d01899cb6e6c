package reconcile

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/models"
)

// Policy turns the identity fields of a record into the parts that are
// fingerprinted. Two records are duplicates iff their parts are equal.
//
// ID names the policy and its options. Fingerprints carry it, so one stored
// under a different policy is recomputed instead of trusted.
type Policy interface {
	ID() string
	EntryKey(title string, date time.Time) []string
	BucketKey(name, description string) []string
	ItemKey(content string) []string
}

// DefaultPolicy matches journals and diaries on case-insensitive title and
// calendar day, buckets on case-insensitive name and exact description, and
// items on case-insensitive content. FoldDescription makes the bucket
// description case-insensitive as well.
type DefaultPolicy struct {
	FoldDescription bool
}

func (p DefaultPolicy) ID() string {
	if p.FoldDescription {
		return "d1f"
	}
	return "d1"
}

func (DefaultPolicy) EntryKey(title string, date time.Time) []string {
	return []string{strings.ToLower(title), models.Day(date)}
}

func (p DefaultPolicy) BucketKey(name, description string) []string {
	if p.FoldDescription {
		description = strings.ToLower(description)
	}
	return []string{strings.ToLower(name), description}
}

func (DefaultPolicy) ItemKey(content string) []string {
	return []string{strings.ToLower(content)}
}

// Fingerprinter computes keyed digests; *session.Session implements it.
type Fingerprinter interface {
	Fingerprint(parts ...string) (string, error)
}

// Identifier computes the duplicate-detection fingerprint of a record from
// its plaintext identity fields.
type Identifier struct {
	fp     Fingerprinter
	policy Policy
}

func NewIdentifier(fp Fingerprinter, p Policy) *Identifier {
	if p == nil {
		p = DefaultPolicy{}
	}
	return &Identifier{fp: fp, policy: p}
}

// tagged fingerprints "<policy id>.<digest>".
func (i *Identifier) tagged(parts ...string) (string, error) {
	fp, err := i.fp.Fingerprint(parts...)
	if err != nil {
		return "", err
	}
	return i.policy.ID() + "." + fp, nil
}

// Current reports whether a stored fingerprint was computed under this
// identifier's policy. Empty and untagged values are not current.
func (i *Identifier) Current(fp string) bool {
	return strings.HasPrefix(fp, i.policy.ID()+".")
}

func (i *Identifier) Entry(kind models.Kind, title string, date time.Time) (string, error) {
	return i.tagged(append([]string{string(kind)}, i.policy.EntryKey(title, date)...)...)
}

func (i *Identifier) Bucket(name, description string) (string, error) {
	return i.tagged(append([]string{"bucket"}, i.policy.BucketKey(name, description)...)...)
}

func (i *Identifier) Item(content string) (string, error) {
	return i.tagged(append([]string{"item"}, i.policy.ItemKey(content)...)...)
}
