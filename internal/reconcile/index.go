package reconcile

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/codec"
	"github.com/dmitrijs2005/gophjournal/internal/models"
)

type bucketRef struct {
	bucket *models.Bucket
	items  map[string]struct{}
}

// index holds the fingerprints of records that existed before the pass.
type index struct {
	journals map[string]struct{}
	diaries  map[string]struct{}
	buckets  map[string]*bucketRef
}

func (e *Engine) buildIndex(ctx context.Context, snap *models.Snapshot) (*index, error) {
	idx := &index{
		journals: map[string]struct{}{},
		diaries:  map[string]struct{}{},
		buckets:  map[string]*bucketRef{},
	}
	if snap == nil {
		return idx, nil
	}

	for _, j := range snap.Journals {
		if err := e.indexEntry(ctx, idx.journals, j); err != nil {
			return nil, err
		}
	}
	for _, d := range snap.Diaries {
		if err := e.indexEntry(ctx, idx.diaries, d); err != nil {
			return nil, err
		}
	}
	for _, b := range snap.Buckets {
		if err := e.indexBucket(ctx, idx.buckets, b); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// entryFingerprint prefers the stored fingerprint when it was computed under
// the current policy and otherwise decodes the record. ok is false when the
// title could not be read.
func (e *Engine) entryFingerprint(ctx context.Context, rec *models.Entry) (fp string, ok bool, err error) {
	if e.ident.Current(rec.Fingerprint) {
		return rec.Fingerprint, true, nil
	}
	dec, derr := e.codec.DecodeEntry(rec)
	if fe, isFE := derr.(*codec.FieldErrors); isFE && fe.Has("title") {
		e.logger.Warn(ctx, "existing record left out of duplicate index", "kind", rec.Kind, "id", rec.ID, "error", derr)
		return "", false, nil
	}
	fp, err = e.ident.Entry(rec.Kind, dec.Title, rec.Date)
	if err != nil {
		return "", false, fmt.Errorf("fingerprint %s %s: %w", rec.Kind, rec.ID, err)
	}
	return fp, true, nil
}

func (e *Engine) indexEntry(ctx context.Context, set map[string]struct{}, rec *models.Entry) error {
	fp, ok, err := e.entryFingerprint(ctx, rec)
	if err != nil || !ok {
		return err
	}
	set[fp] = struct{}{}
	return nil
}

// indexBucket registers b under its fingerprint. When several existing
// buckets share one, the first in snapshot order is the merge target and
// only its items count as present.
func (e *Engine) indexBucket(ctx context.Context, m map[string]*bucketRef, b *models.Bucket) error {
	fp := b.Fingerprint
	if !e.ident.Current(fp) {
		dec, derr := e.codec.DecodeBucket(&models.Bucket{Name: b.Name, Description: b.Description, Sealed: b.Sealed})
		if fe, isFE := derr.(*codec.FieldErrors); isFE && (fe.Has("name") || fe.Has("description")) {
			e.logger.Warn(ctx, "existing bucket left out of duplicate index", "id", b.ID, "error", derr)
			return nil
		}
		var err error
		if fp, err = e.ident.Bucket(dec.Name, dec.Description); err != nil {
			return fmt.Errorf("fingerprint bucket %s: %w", b.ID, err)
		}
	}

	if _, seen := m[fp]; seen {
		e.logger.Debug(ctx, "duplicate existing bucket, merging into the first", "id", b.ID)
		return nil
	}
	ref := &bucketRef{bucket: b, items: map[string]struct{}{}}
	m[fp] = ref

	for _, it := range b.Items {
		ifp := it.Fingerprint
		if !e.ident.Current(ifp) {
			dec, derr := e.codec.DecodeItem(it)
			if derr != nil {
				e.logger.Warn(ctx, "existing bucket item left out of duplicate index", "id", it.ID, "error", derr)
				continue
			}
			var err error
			if ifp, err = e.ident.Item(dec.Content); err != nil {
				return fmt.Errorf("fingerprint item %s: %w", it.ID, err)
			}
		}
		ref.items[ifp] = struct{}{}
	}
	return nil
}
