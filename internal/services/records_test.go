package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/bundle"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/models"
	"github.com/dmitrijs2005/gophjournal/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var may17 = time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)

func TestRecords_JournalStoredSealed(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, "alice")
	ctx := context.Background()

	added, err := e.records.AddEntry(ctx, "alice", models.KindJournal, NewJournal{Title: "Day 1", Content: "Hello", Date: may17, Mood: "calm"})
	require.NoError(t, err)
	assert.Equal(t, "Day 1", added.Title)
	assert.NotEmpty(t, added.Fingerprint)

	raw, err := e.repos.Entries(e.db).ListByUser(ctx, "alice", models.KindJournal)
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.True(t, raw[0].Sealed)
	assert.NotEqual(t, "Day 1", raw[0].Title)
	assert.True(t, e.sess.IsEncrypted(raw[0].Content))
	assert.Equal(t, "calm", raw[0].Mood)

	list, err := e.records.ListEntries(ctx, "alice", models.KindJournal)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Day 1", list[0].Title)
	assert.Equal(t, "Hello", list[0].Content)
	assert.True(t, may17.Equal(list[0].Date))
}

func TestRecords_DiaryWordCount(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, "alice")
	ctx := context.Background()

	counted, err := e.records.AddEntry(ctx, "alice", models.KindDiary, NewJournal{Title: "a", Content: "one two three", Date: may17})
	require.NoError(t, err)
	assert.Equal(t, 3, counted.WordCount)

	n := 42
	given, err := e.records.AddEntry(ctx, "alice", models.KindDiary, NewJournal{Title: "b", Content: "x", Date: may17, WordCount: &n})
	require.NoError(t, err)
	assert.Equal(t, 42, given.WordCount)

	journals, err := e.records.ListEntries(ctx, "alice", models.KindJournal)
	require.NoError(t, err)
	assert.Empty(t, journals)
}

func TestRecords_Validation(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, "alice")
	ctx := context.Background()

	_, err := e.records.AddEntry(ctx, "alice", models.KindJournal, NewJournal{Content: "x"})
	var ve *bundle.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Field)
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = e.records.AddBucket(ctx, "alice", NewBucket{})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = e.records.AddEntry(ctx, "alice", models.Kind("memo"), NewJournal{Title: "t", Content: "c"})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestRecords_NoKeyRefusesWrites(t *testing.T) {
	e := newEnv(t)

	_, err := e.records.AddEntry(context.Background(), "alice", models.KindJournal, NewJournal{Title: "t", Content: "c"})
	require.ErrorIs(t, err, session.ErrNoKey)

	raw, err := e.repos.Entries(e.db).ListByUser(context.Background(), "alice", models.KindJournal)
	require.NoError(t, err)
	assert.Empty(t, raw, "plaintext must not be written without a key")
}

func TestRecords_BucketLifecycle(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, "alice")
	ctx := context.Background()

	b, err := e.records.AddBucket(ctx, "alice", NewBucket{Name: "Movies", Description: "to watch", Icon: "🎬"})
	require.NoError(t, err)

	_, err = e.records.AddItem(ctx, "alice", b.ID, "Dune", false)
	require.NoError(t, err)
	_, err = e.records.AddItem(ctx, "alice", b.ID, "Arrival", true)
	require.NoError(t, err)

	_, err = e.records.AddItem(ctx, "bob", b.ID, "Heat", false)
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, e.records.SetBucketPinned(ctx, "alice", b.ID, true))

	list, err := e.records.ListBuckets(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	got := list[0]
	assert.Equal(t, "Movies", got.Name)
	assert.Equal(t, "to watch", got.Description)
	assert.True(t, got.Pinned)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Dune", got.Items[0].Content)
	assert.Equal(t, "Arrival", got.Items[1].Content)
	assert.True(t, got.Items[1].Pinned)

	require.NoError(t, e.records.DeleteBucket(ctx, "alice", b.ID))
	require.ErrorIs(t, e.records.DeleteBucket(ctx, "alice", b.ID), common.ErrorNotFound)

	list, err = e.records.ListBuckets(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecords_DeleteEntry(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, "alice")
	ctx := context.Background()

	j, err := e.records.AddEntry(ctx, "alice", models.KindJournal, NewJournal{Title: "t", Content: "c", Date: may17})
	require.NoError(t, err)

	require.ErrorIs(t, e.records.DeleteEntry(ctx, "bob", j.ID), common.ErrorNotFound)
	require.NoError(t, e.records.DeleteEntry(ctx, "alice", j.ID))
}
