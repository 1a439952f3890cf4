package storage

import (
	"context"
	"io"
)

// File is an upload read from a multipart request.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Uploader stores media files and returns a public URL for each. prefix
// namespaces the object key (avatars/, covers/, projects/).
type Uploader interface {
	Upload(ctx context.Context, prefix string, file File) (string, error)
}
