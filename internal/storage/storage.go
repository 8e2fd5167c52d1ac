// Package storage holds the document store used for uploaded credential
// files. The verification core only ever records the returned URL; document
// contents are opaque to it.
package storage

import (
	"context"
	"io"
)

type DocumentStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
