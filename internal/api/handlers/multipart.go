package handlers

import (
	"net/http"
	"strings"

	"github.com/anish/devshowcase/internal/storage"
)

const maxUploadMemory = 32 << 20 // 32 MiB before spilling to disk

// formFile opens a single optional file from a multipart form. Returns nil
// when the field is absent. The caller must invoke the returned closer.
func formFile(r *http.Request, field string) (*storage.File, func(), error) {
	if r.MultipartForm == nil {
		return nil, func() {}, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, func() {}, nil
	}

	header := headers[0]
	f, err := header.Open()
	if err != nil {
		return nil, func() {}, err
	}

	file := &storage.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      f,
	}
	return file, func() { f.Close() }, nil
}

// formFiles opens every file submitted under a repeated multipart field.
func formFiles(r *http.Request, field string) ([]storage.File, func(), error) {
	if r.MultipartForm == nil {
		return nil, func() {}, nil
	}

	var (
		files   []storage.File
		closers []func() error
	)
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	for _, header := range r.MultipartForm.File[field] {
		f, err := header.Open()
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, f.Close)
		files = append(files, storage.File{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      f,
		})
	}
	return files, cleanup, nil
}

// splitList parses the comma-separated list inputs the API accepts
// (techStacks, domains, owners).
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
