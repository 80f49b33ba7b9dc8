package storage

import (
	"context"
	"io"
)

// BlobStore is the external file store documents are streamed into.
// Put returns the stored reference recorded against the document.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}
