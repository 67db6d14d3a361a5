package juxta

import (
	"context"
	"io"
)

// Source is an immutable raw markup document.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// SourceService provides read-only access to source documents.
type SourceService interface {
	// FindSourceByID retrieves source metadata.
	// Returns ENOTFOUND if the source does not exist.
	FindSourceByID(ctx context.Context, id string) (*Source, error)

	// OpenSource returns a reader over the source content.
	// The caller must close it.
	OpenSource(ctx context.Context, id string) (io.ReadCloser, error)
}
