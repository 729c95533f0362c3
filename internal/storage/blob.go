package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

var ErrEmptyKey = errors.New("empty key")

// BlobStore archives generated files.
type BlobStore interface {
	// Put stores r under key and returns the canonical key. size may be -1
	// when unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// ArchiveKey files name under kind and the UTC date, e.g.
// "exports/2024/05/01/Export_Soal_1714521600000.xlsx".
func ArchiveKey(kind, name string, now time.Time) string {
	return path.Join(kind, now.UTC().Format("2006/01/02"), path.Base(strings.ReplaceAll(name, "\\", "/")))
}

func cleanKey(key string) (string, error) {
	key = strings.TrimLeft(path.Clean("/"+strings.ReplaceAll(key, "\\", "/")), "/")
	if key == "" || key == "." {
		return "", ErrEmptyKey
	}
	return key, nil
}
