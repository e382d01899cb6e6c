package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/bundle"
	"github.com/dmitrijs2005/gophjournal/internal/codec"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/models"
	"github.com/dmitrijs2005/gophjournal/internal/reconcile"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/repomanager"
)

// NewJournal is the user input for a journal or diary entry.
type NewJournal struct {
	Title   string
	Content string
	Date    time.Time
	Mood    string
	// WordCount applies to diaries; nil means count the content.
	WordCount *int
}

type NewBucket struct {
	Name        string
	Description string
	Icon        string
	Color       string
	Pinned      bool
}

// RecordService edits a user's records. Everything written goes through the
// codec; everything returned has been decoded.
type RecordService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	codec  *codec.Codec
	ident  *reconcile.Identifier
	logger logging.Logger
}

func NewRecordService(db *sql.DB, repos repomanager.RepositoryManager, c *codec.Codec, ident *reconcile.Identifier, logger logging.Logger) *RecordService {
	return &RecordService{db: db, repos: repos, codec: c, ident: ident, logger: logger}
}

func required(field, v string) error {
	if v == "" {
		return &bundle.ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

func (s *RecordService) AddEntry(ctx context.Context, userID string, kind models.Kind, in NewJournal) (*models.Entry, error) {
	if err := required("title", in.Title); err != nil {
		return nil, err
	}
	if err := required("content", in.Content); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	e := models.NewEntry(userID, kind, in.Title, in.Content, in.Date.UTC())
	switch kind {
	case models.KindJournal:
		e.Mood = in.Mood
	case models.KindDiary:
		e.WordCount = models.CountWords(in.Content)
		if in.WordCount != nil {
			e.WordCount = *in.WordCount
		}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", common.ErrValidation, kind)
	}

	fp, err := s.ident.Entry(kind, e.Title, e.Date)
	if err != nil {
		return nil, err
	}
	e.Fingerprint = fp

	enc, err := s.codec.EncodeEntry(e)
	if err != nil {
		s.logger.Warn(ctx, "field encryption failed", "kind", kind, "id", e.ID, "error", err)
	}
	if err := s.repos.Entries(s.db).Create(ctx, enc); err != nil {
		return nil, fmt.Errorf("save %s: %w", kind, err)
	}
	return e, nil
}

func (s *RecordService) ListEntries(ctx context.Context, userID string, kind models.Kind) ([]*models.Entry, error) {
	rows, err := s.repos.Entries(s.db).ListByUser(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Entry, 0, len(rows))
	for _, r := range rows {
		dec, err := s.codec.DecodeEntry(r)
		if err != nil {
			s.logger.Warn(ctx, "field decryption failed", "kind", kind, "id", r.ID, "error", err)
		}
		out = append(out, dec)
	}
	return out, nil
}

func (s *RecordService) DeleteEntry(ctx context.Context, userID, id string) error {
	return s.repos.Entries(s.db).Delete(ctx, userID, id)
}

func (s *RecordService) AddBucket(ctx context.Context, userID string, in NewBucket) (*models.Bucket, error) {
	if err := required("name", in.Name); err != nil {
		return nil, err
	}

	b := &models.Bucket{
		ID:          models.NewID(),
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		Color:       in.Color,
		Pinned:      in.Pinned,
		CreatedAt:   time.Now().UTC(),
	}
	fp, err := s.ident.Bucket(b.Name, b.Description)
	if err != nil {
		return nil, err
	}
	b.Fingerprint = fp

	enc, err := s.codec.EncodeBucket(b)
	if err != nil {
		s.logger.Warn(ctx, "field encryption failed", "kind", "bucket", "id", b.ID, "error", err)
	}
	if err := s.repos.Buckets(s.db).Create(ctx, enc); err != nil {
		return nil, fmt.Errorf("save bucket: %w", err)
	}
	return b, nil
}

// AddItem appends an item to one of the user's buckets.
func (s *RecordService) AddItem(ctx context.Context, userID, bucketID, content string, pinned bool) (*models.BucketItem, error) {
	if err := required("content", content); err != nil {
		return nil, err
	}

	it := &models.BucketItem{
		ID:        models.NewID(),
		BucketID:  bucketID,
		Content:   content,
		Pinned:    pinned,
		CreatedAt: time.Now().UTC(),
	}
	fp, err := s.ident.Item(content)
	if err != nil {
		return nil, err
	}
	it.Fingerprint = fp

	enc, err := s.codec.EncodeItem(it)
	if err != nil {
		s.logger.Warn(ctx, "field encryption failed", "kind", "bucket_item", "id", it.ID, "error", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		owned, err := s.repos.Buckets(tx).ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if !containsBucket(owned, bucketID) {
			return fmt.Errorf("bucket %s: %w", bucketID, common.ErrorNotFound)
		}
		return s.repos.Buckets(tx).AddItem(ctx, enc)
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}

func containsBucket(list []*models.Bucket, id string) bool {
	for _, b := range list {
		if b.ID == id {
			return true
		}
	}
	return false
}

func (s *RecordService) ListBuckets(ctx context.Context, userID string) ([]*models.Bucket, error) {
	rows, err := s.repos.Buckets(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Bucket, 0, len(rows))
	for _, r := range rows {
		dec, err := s.codec.DecodeBucket(r)
		if err != nil {
			s.logger.Warn(ctx, "field decryption failed", "kind", "bucket", "id", r.ID, "error", err)
		}
		out = append(out, dec)
	}
	return out, nil
}

func (s *RecordService) SetBucketPinned(ctx context.Context, userID, id string, pinned bool) error {
	return s.repos.Buckets(s.db).SetPinned(ctx, userID, id, pinned)
}

// DeleteBucket removes the bucket together with its items.
func (s *RecordService) DeleteBucket(ctx context.Context, userID, id string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repos.Buckets(tx).Delete(ctx, userID, id)
	})
}
