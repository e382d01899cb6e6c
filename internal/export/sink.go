package export

import (
	"context"

	"github.com/dmitrijs2005/gophjournal/internal/filex"
)

// Sink stores a finished export and reports where it went.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) (location string, err error)
}

// FileSink writes exports into a local directory, owner-readable only.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (s *FileSink) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return filex.WritePrivate(s.dir, name, data)
}
