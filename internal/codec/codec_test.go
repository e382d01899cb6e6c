package codec

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/models"
	"github.com/dmitrijs2005/gophjournal/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, digest string) *session.Session {
	t.Helper()
	s := session.New(cryptox.NewFieldCipher(cryptox.NonceRandom), nil, logging.Discard())
	require.NoError(t, s.Init(context.Background(), session.Identity{UserID: "u", SecretDigest: digest}))
	return s
}

var (
	digestA = strings.Repeat("0a", 32)
	digestB = strings.Repeat("0b", 32)
)

// failingSealer fails for any value listed in bad.
type failingSealer struct {
	bad map[string]bool
}

var errBoom = errors.New("boom")

func (f *failingSealer) Seal(s string) (string, error) {
	if f.bad[s] {
		return "", errBoom
	}
	return "enc:" + s, nil
}

func (f *failingSealer) Decrypt(s string) (string, error) {
	if f.bad[s] {
		return "", errBoom
	}
	return strings.TrimPrefix(s, "enc:"), nil
}

func (f *failingSealer) Open(s string) (string, error) { return f.Decrypt(s) }

func sampleEntry() *models.Entry {
	return &models.Entry{
		ID: "1", UserID: "u", Kind: models.KindJournal,
		Title: "Day 1", Content: "Hello", Mood: "calm",
		Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func sampleBucket() *models.Bucket {
	return &models.Bucket{
		ID: "b", UserID: "u", Name: "Movies", Description: "to watch", Icon: "🎬", Color: "#fff", Pinned: true,
		Items: []*models.BucketItem{{ID: "i1", Content: "Dune"}, {ID: "i2", Content: "Arrival", Pinned: true}},
	}
}

func TestEntry_RoundTrip(t *testing.T) {
	c := New(newSession(t, digestA))
	orig := sampleEntry()

	enc, err := c.EncodeEntry(orig)
	require.NoError(t, err)
	assert.True(t, enc.Sealed)
	assert.NotEqual(t, orig.Title, enc.Title)
	assert.NotEqual(t, orig.Content, enc.Content)
	assert.Equal(t, orig.Mood, enc.Mood, "non-sensitive fields stay plain")
	assert.Equal(t, orig.Date, enc.Date)
	assert.Equal(t, "Day 1", orig.Title, "input must not be mutated")

	dec, err := c.DecodeEntry(enc)
	require.NoError(t, err)
	assert.Equal(t, orig, dec)
}

func TestEntry_EmptyFieldsUntouched(t *testing.T) {
	c := New(newSession(t, digestA))
	e := sampleEntry()
	e.Content = ""

	enc, err := c.EncodeEntry(e)
	require.NoError(t, err)
	assert.Equal(t, "", enc.Content)
	assert.True(t, enc.Sealed)
}

func TestEntry_EncodeIsIdempotent(t *testing.T) {
	c := New(newSession(t, digestA))

	once, err := c.EncodeEntry(sampleEntry())
	require.NoError(t, err)
	twice, err := c.EncodeEntry(once)
	require.NoError(t, err)

	assert.Equal(t, once.Title, twice.Title)
	assert.Equal(t, once.Content, twice.Content)
}

func TestEntry_DecodeWrongKeyUsesPlaceholder(t *testing.T) {
	enc, err := New(newSession(t, digestA)).EncodeEntry(sampleEntry())
	require.NoError(t, err)

	dec, err := New(newSession(t, digestB)).DecodeEntry(enc)
	require.Error(t, err)
	assert.ErrorIs(t, err, cryptox.ErrDecryption)

	assert.Equal(t, DecryptionFailedPlaceholder, dec.Title)
	assert.Equal(t, DecryptionFailedPlaceholder, dec.Content)
	assert.Equal(t, "calm", dec.Mood)
}

func TestEntry_LegacyPlaintextPassesThrough(t *testing.T) {
	c := New(newSession(t, digestA))
	legacy := sampleEntry()

	dec, err := c.DecodeEntry(legacy)
	require.NoError(t, err)
	assert.Equal(t, "Day 1", dec.Title)
}

func TestEntry_FieldIsolation(t *testing.T) {
	c := New(&failingSealer{bad: map[string]bool{"Hello": true}})

	enc, err := c.EncodeEntry(sampleEntry())
	var fe *FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"content"}, fe.Fields)
	assert.True(t, fe.Has("content"))
	assert.False(t, fe.Has("title"))
	assert.ErrorIs(t, err, errBoom)

	assert.Equal(t, "enc:Day 1", enc.Title)
	assert.Equal(t, "Hello", enc.Content, "failed field keeps its value")
	assert.False(t, enc.Sealed)
}

func TestEntry_DecodeFieldIsolation(t *testing.T) {
	c := New(&failingSealer{bad: map[string]bool{"enc:bad": true}})
	e := &models.Entry{Title: "enc:good", Content: "enc:bad", Sealed: true}

	dec, err := c.DecodeEntry(e)
	require.Error(t, err)
	assert.Equal(t, "good", dec.Title)
	assert.Equal(t, DecryptionFailedPlaceholder, dec.Content)
}

func TestEntry_NoKey(t *testing.T) {
	s := session.New(cryptox.NewFieldCipher(cryptox.NonceRandom), nil, logging.Discard())
	c := New(s)

	enc, err := c.EncodeEntry(sampleEntry())
	require.ErrorIs(t, err, session.ErrNoKey)
	assert.Equal(t, "Day 1", enc.Title)
	assert.False(t, enc.Sealed)
}

func TestBucket_RoundTrip(t *testing.T) {
	c := New(newSession(t, digestA))
	orig := sampleBucket()

	enc, err := c.EncodeBucket(orig)
	require.NoError(t, err)
	assert.True(t, enc.Sealed)
	for i, it := range enc.Items {
		assert.True(t, it.Sealed)
		assert.NotEqual(t, orig.Items[i].Content, it.Content)
	}
	assert.Equal(t, "🎬", enc.Icon)
	assert.Equal(t, "Dune", orig.Items[0].Content, "input items must not be mutated")

	dec, err := c.DecodeBucket(enc)
	require.NoError(t, err)
	assert.Equal(t, orig, dec)
}

func TestBucket_ItemFailuresAreNamed(t *testing.T) {
	c := New(&failingSealer{bad: map[string]bool{"Arrival": true}})

	enc, err := c.EncodeBucket(sampleBucket())
	var fe *FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"items[1].content"}, fe.Fields)
	assert.True(t, enc.Sealed, "bucket fields themselves succeeded")
	assert.False(t, enc.Items[1].Sealed)
	assert.Equal(t, "enc:Dune", enc.Items[0].Content)
}

func TestItem_RoundTrip(t *testing.T) {
	c := New(newSession(t, digestA))

	enc, err := c.EncodeItem(&models.BucketItem{Content: "Dune"})
	require.NoError(t, err)
	dec, err := c.DecodeItem(enc)
	require.NoError(t, err)
	assert.Equal(t, "Dune", dec.Content)
}

func TestEntry_SealsPlaintextThatLooksEncrypted(t *testing.T) {
	c := New(newSession(t, digestA))
	e := sampleEntry()
	e.Title = "SomeLongTitleWithoutSpaces123"
	e.Content = "Supercalifragilisticexpialidocious"

	enc, err := c.EncodeEntry(e)
	require.NoError(t, err)
	assert.True(t, enc.Sealed)
	assert.NotEqual(t, e.Title, enc.Title)
	assert.NotEqual(t, e.Content, enc.Content)

	dec, err := c.DecodeEntry(enc)
	require.NoError(t, err)
	assert.Equal(t, "SomeLongTitleWithoutSpaces123", dec.Title)
	assert.Equal(t, "Supercalifragilisticexpialidocious", dec.Content)
}

func TestBucket_SealsPlaintextThatLooksEncrypted(t *testing.T) {
	c := New(newSession(t, digestA))
	b := sampleBucket()
	b.Name = "ThingsToDoBeforeTurningForty"
	b.Items[0].Content = "Supercalifragilisticexpialidocious"

	enc, err := c.EncodeBucket(b)
	require.NoError(t, err)
	assert.NotEqual(t, b.Name, enc.Name)
	assert.NotEqual(t, b.Items[0].Content, enc.Items[0].Content)

	dec, err := c.DecodeBucket(enc)
	require.NoError(t, err)
	assert.Equal(t, b, dec)
}
