// Package reconcile merges an import bundle into a user's existing records.
//
// A pass works on a snapshot of the records taken before it starts. Each
// candidate is compared only against that snapshot, never against records
// queued earlier in the same pass. Candidates are handled in bundle order.
// The result is a Plan of stored-form records for the caller to persist,
// plus the counts reported to the user.
package reconcile

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/bundle"
	"github.com/dmitrijs2005/gophjournal/internal/codec"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/models"
)

// Plan lists what a pass wants written. Every sensitive field has been
// through the codec.
type Plan struct {
	Journals   []*models.Entry
	Diaries    []*models.Entry
	NewBuckets []*models.Bucket
	// MergedItems belong to existing buckets; BucketID is already set.
	MergedItems []*models.BucketItem
}

func (p *Plan) Empty() bool {
	return len(p.Journals) == 0 && len(p.Diaries) == 0 && len(p.NewBuckets) == 0 && len(p.MergedItems) == 0
}

type Engine struct {
	codec  *codec.Codec
	ident  *Identifier
	logger logging.Logger
}

func NewEngine(c *codec.Codec, ident *Identifier, logger logging.Logger) *Engine {
	return &Engine{codec: c, ident: ident, logger: logger}
}

// Reconcile validates b and plans its merge into snap for userID. It writes
// nothing. An error means no part of the plan may be applied.
func (e *Engine) Reconcile(ctx context.Context, userID string, b *models.Bundle, snap *models.Snapshot) (*Plan, models.Result, error) {
	var res models.Result

	if err := bundle.Validate(b); err != nil {
		return nil, res, err
	}

	idx, err := e.buildIndex(ctx, snap)
	if err != nil {
		return nil, res, err
	}

	plan := &Plan{}

	for i, j := range b.Journals {
		date, _ := models.ParseDate(j.Date)
		rec := models.NewEntry(userID, models.KindJournal, j.Title, j.Content, date)
		rec.Mood = j.Mood

		queued, err := e.planEntry(ctx, idx.journals, rec)
		if err != nil {
			return nil, res, fmt.Errorf("journals[%d]: %w", i, err)
		}
		if queued == nil {
			res.Journals.Skipped++
			continue
		}
		plan.Journals = append(plan.Journals, queued)
		res.Journals.Imported++
	}

	for i, d := range b.Diaries {
		date, _ := models.ParseDate(d.Date)
		rec := models.NewEntry(userID, models.KindDiary, d.Title, d.Content, date)
		if d.WordCount != nil {
			rec.WordCount = *d.WordCount
		} else {
			rec.WordCount = models.CountWords(d.Content)
		}

		queued, err := e.planEntry(ctx, idx.diaries, rec)
		if err != nil {
			return nil, res, fmt.Errorf("diaries[%d]: %w", i, err)
		}
		if queued == nil {
			res.Diaries.Skipped++
			continue
		}
		plan.Diaries = append(plan.Diaries, queued)
		res.Diaries.Imported++
	}

	for i, bb := range b.Buckets {
		if err := e.planBucket(ctx, idx, userID, bb, plan, &res); err != nil {
			return nil, res, fmt.Errorf("buckets[%d]: %w", i, err)
		}
	}

	e.logger.Info(ctx, "reconciliation planned", "user", userID,
		"journals", res.Journals.Imported, "diaries", res.Diaries.Imported,
		"buckets_new", res.Buckets.New, "buckets_merged", res.Buckets.Merged, "items", res.Buckets.Items)

	return plan, res, nil
}

// planEntry returns nil when rec duplicates an indexed record, otherwise its
// stored form.
func (e *Engine) planEntry(ctx context.Context, seen map[string]struct{}, rec *models.Entry) (*models.Entry, error) {
	fp, err := e.ident.Entry(rec.Kind, rec.Title, rec.Date)
	if err != nil {
		return nil, err
	}
	if _, dup := seen[fp]; dup {
		return nil, nil
	}
	rec.Fingerprint = fp

	enc, err := e.codec.EncodeEntry(rec)
	if err != nil {
		e.logger.Warn(ctx, "field encryption failed", "kind", rec.Kind, "id", rec.ID, "error", err)
	}
	return enc, nil
}

func (e *Engine) planBucket(ctx context.Context, idx *index, userID string, in models.BundleBucket, plan *Plan, res *models.Result) error {
	fp, err := e.ident.Bucket(in.Name, in.Description)
	if err != nil {
		return err
	}

	if ref, ok := idx.buckets[fp]; ok {
		added := 0
		for _, it := range in.Items {
			ifp, err := e.ident.Item(it.Content)
			if err != nil {
				return err
			}
			if _, dup := ref.items[ifp]; dup {
				continue
			}
			item := newItem(ref.bucket.ID, it, ifp)
			enc, err := e.codec.EncodeItem(item)
			if err != nil {
				e.logger.Warn(ctx, "field encryption failed", "kind", "bucket_item", "id", item.ID, "error", err)
			}
			plan.MergedItems = append(plan.MergedItems, enc)
			added++
		}
		if added > 0 {
			res.Buckets.Merged++
			res.Buckets.Items += added
		}
		return nil
	}

	b := &models.Bucket{
		ID:          models.NewID(),
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		Color:       in.Color,
		Pinned:      in.Pinned,
		Fingerprint: fp,
		CreatedAt:   now(),
	}
	for _, it := range in.Items {
		ifp, err := e.ident.Item(it.Content)
		if err != nil {
			return err
		}
		b.Items = append(b.Items, newItem(b.ID, it, ifp))
	}

	enc, err := e.codec.EncodeBucket(b)
	if err != nil {
		e.logger.Warn(ctx, "field encryption failed", "kind", "bucket", "id", b.ID, "error", err)
	}
	plan.NewBuckets = append(plan.NewBuckets, enc)
	res.Buckets.New++
	res.Buckets.Items += len(b.Items)
	return nil
}

func newItem(bucketID string, in models.BundleItem, fp string) *models.BucketItem {
	return &models.BucketItem{
		ID:          models.NewID(),
		BucketID:    bucketID,
		Content:     in.Content,
		Pinned:      in.Pinned,
		Fingerprint: fp,
		CreatedAt:   now(),
	}
}
