// Package codec applies field encryption to the sensitive fields of each
// record kind:
//
//	journal, diary: Title, Content
//	bucket:         Name, Description (and every item)
//	bucket item:    Content
//
// Records reaching an Encode function are plaintext unless already marked
// Sealed, so fields are sealed unconditionally instead of guessing from their
// shape. Every field is handled on its own. A field that fails to encrypt keeps its
// value, and a field that fails to decrypt becomes DecryptionFailedPlaceholder.
// In both cases the rest of the record is still processed.
package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/models"
)

// DecryptionFailedPlaceholder replaces fields that cannot be decrypted.
const DecryptionFailedPlaceholder = "[decryption failed]"

// Sealer is the key-bound side of a session. Seal and Open never consult the
// ciphertext classifier; Decrypt does, for legacy rows without the Sealed tag.
type Sealer interface {
	Seal(text string) (string, error)
	Decrypt(text string) (string, error)
	Open(text string) (string, error)
}

// FieldErrors collects per-field failures from one encode or decode call.
// It is informational: the record was still produced.
type FieldErrors struct {
	Fields []string
	errs   []error
}

func (f *FieldErrors) add(field string, err error) {
	f.Fields = append(f.Fields, field)
	f.errs = append(f.errs, err)
}

func (f *FieldErrors) Error() string {
	return fmt.Sprintf("%d field(s) failed [%s]: %v", len(f.Fields), strings.Join(f.Fields, ", "), f.errs[0])
}

func (f *FieldErrors) Unwrap() []error { return f.errs }

// Has reports whether field is among the failures.
func (f *FieldErrors) Has(field string) bool {
	if f == nil {
		return false
	}
	for _, name := range f.Fields {
		if name == field {
			return true
		}
	}
	return false
}

func (f *FieldErrors) orNil() error {
	if len(f.Fields) == 0 {
		return nil
	}
	return f
}

type Codec struct {
	s Sealer
}

func New(s Sealer) *Codec {
	return &Codec{s: s}
}

func (c *Codec) encField(fe *FieldErrors, name string, v *string) bool {
	if *v == "" {
		return true
	}
	enc, err := c.s.Seal(*v)
	if err != nil {
		fe.add(name, err)
		return false
	}
	*v = enc
	return true
}

func (c *Codec) decField(fe *FieldErrors, name string, sealed bool, v *string) {
	if *v == "" {
		return
	}
	var (
		dec string
		err error
	)
	if sealed {
		dec, err = c.s.Open(*v)
	} else {
		dec, err = c.s.Decrypt(*v)
	}
	if err != nil {
		fe.add(name, err)
		*v = DecryptionFailedPlaceholder
		return
	}
	*v = dec
}

// EncodeEntry returns a stored-form copy of e. The copy is marked Sealed only
// when every non-empty sensitive field was encrypted. An already sealed entry
// is returned unchanged.
func (c *Codec) EncodeEntry(e *models.Entry) (*models.Entry, error) {
	out := *e
	if e.Sealed {
		return &out, nil
	}
	fe := &FieldErrors{}
	ok := c.encField(fe, "title", &out.Title)
	ok = c.encField(fe, "content", &out.Content) && ok
	out.Sealed = ok
	return &out, fe.orNil()
}

// DecodeEntry returns a display-form copy of e.
func (c *Codec) DecodeEntry(e *models.Entry) (*models.Entry, error) {
	out := *e
	fe := &FieldErrors{}
	c.decField(fe, "title", e.Sealed, &out.Title)
	c.decField(fe, "content", e.Sealed, &out.Content)
	out.Sealed = false
	return &out, fe.orNil()
}

func (c *Codec) EncodeItem(it *models.BucketItem) (*models.BucketItem, error) {
	out := *it
	if it.Sealed {
		return &out, nil
	}
	fe := &FieldErrors{}
	out.Sealed = c.encField(fe, "content", &out.Content)
	return &out, fe.orNil()
}

func (c *Codec) DecodeItem(it *models.BucketItem) (*models.BucketItem, error) {
	out := *it
	fe := &FieldErrors{}
	c.decField(fe, "content", it.Sealed, &out.Content)
	out.Sealed = false
	return &out, fe.orNil()
}

// EncodeBucket encodes the bucket and each of its items. Item failures are
// reported as "items[i].content".
func (c *Codec) EncodeBucket(b *models.Bucket) (*models.Bucket, error) {
	out := b.Clone()
	fe := &FieldErrors{}
	if !b.Sealed {
		ok := c.encField(fe, "name", &out.Name)
		ok = c.encField(fe, "description", &out.Description) && ok
		out.Sealed = ok
	}

	for i, it := range b.Items {
		enc, err := c.EncodeItem(it)
		c.mergeItemErr(fe, i, err)
		out.Items[i] = enc
	}
	return out, fe.orNil()
}

func (c *Codec) DecodeBucket(b *models.Bucket) (*models.Bucket, error) {
	out := b.Clone()
	fe := &FieldErrors{}
	c.decField(fe, "name", b.Sealed, &out.Name)
	c.decField(fe, "description", b.Sealed, &out.Description)
	out.Sealed = false

	for i, it := range b.Items {
		dec, err := c.DecodeItem(it)
		c.mergeItemErr(fe, i, err)
		out.Items[i] = dec
	}
	return out, fe.orNil()
}

func (c *Codec) mergeItemErr(fe *FieldErrors, i int, err error) {
	var itemErrs *FieldErrors
	if !errors.As(err, &itemErrs) {
		return
	}
	for j, name := range itemErrs.Fields {
		fe.add(fmt.Sprintf("items[%d].%s", i, name), itemErrs.errs[j])
	}
}
