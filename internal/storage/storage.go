package storage

import (
	"context"
	"io"
)

type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}

type Downloader interface {
	Download(ctx context.Context, objectName string) ([]byte, error)
}

// Store is what the pipeline needs end to end: put the original in on
// upload, pull it back out when a provider wants raw bytes.
type Store interface {
	Uploader
	Downloader
}
