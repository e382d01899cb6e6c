// Package export turns a user's stored records into a portable bundle and
// hands the serialized document to a sink.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/codec"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/models"
)

type Assembler struct {
	codec  *codec.Codec
	logger logging.Logger
}

func NewAssembler(c *codec.Codec, logger logging.Logger) *Assembler {
	return &Assembler{codec: c, logger: logger}
}

// Assemble decodes every record in snap into bundle form. Fields that cannot
// be decrypted carry codec.DecryptionFailedPlaceholder; nothing is dropped.
// The result is accepted by import unchanged.
func (a *Assembler) Assemble(ctx context.Context, user models.User, snap *models.Snapshot) *models.Bundle {
	out := &models.Bundle{
		User:     &models.BundleUser{Username: user.Username},
		Journals: []models.BundleJournal{},
		Diaries:  []models.BundleDiary{},
		Buckets:  []models.BundleBucket{},
	}
	if !user.CreatedAt.IsZero() {
		out.User.CreatedAt = models.FormatDate(user.CreatedAt)
	}
	if snap == nil {
		return out
	}

	for _, j := range snap.Journals {
		dec := a.decodeEntry(ctx, j)
		out.Journals = append(out.Journals, models.BundleJournal{
			Title:   dec.Title,
			Content: dec.Content,
			Date:    models.FormatDate(dec.Date),
			Mood:    dec.Mood,
		})
	}

	for _, d := range snap.Diaries {
		dec := a.decodeEntry(ctx, d)
		wc := dec.WordCount
		out.Diaries = append(out.Diaries, models.BundleDiary{
			Title:     dec.Title,
			Content:   dec.Content,
			Date:      models.FormatDate(dec.Date),
			WordCount: &wc,
		})
	}

	for _, b := range snap.Buckets {
		dec, err := a.codec.DecodeBucket(b)
		if err != nil {
			a.logger.Warn(ctx, "bucket exported with placeholders", "id", b.ID, "error", err)
		}
		bb := models.BundleBucket{
			Name:        dec.Name,
			Description: dec.Description,
			Icon:        dec.Icon,
			Color:       dec.Color,
			Pinned:      dec.Pinned,
			Items:       make([]models.BundleItem, 0, len(dec.Items)),
		}
		for _, it := range dec.Items {
			bb.Items = append(bb.Items, models.BundleItem{Content: it.Content, Pinned: it.Pinned})
		}
		out.Buckets = append(out.Buckets, bb)
	}

	return out
}

func (a *Assembler) decodeEntry(ctx context.Context, e *models.Entry) *models.Entry {
	dec, err := a.codec.DecodeEntry(e)
	if err != nil {
		a.logger.Warn(ctx, "entry exported with placeholders", "kind", e.Kind, "id", e.ID, "error", err)
	}
	return dec
}

// Marshal renders b as the indented JSON document written by every sink.
func Marshal(b *models.Bundle) ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal bundle: %w", err)
	}
	return data, nil
}

// FileName is the export artifact name: {username}_{product}_{DD-MM-YYYY}.json.
func FileName(username, product string, t time.Time) string {
	return fmt.Sprintf("%s_%s_%s.json", username, product, t.Format("02-01-2006"))
}
