package storage

import (
	"context"
	"io"

	gcs "cloud.google.com/go/storage"
	"github.com/talentbase/resumeflow/internal/utils"
)

type GCSStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSStore{client: c, bucket: bucket}, nil
}

func (s *GCSStore) Close() error { return s.client.Close() }

func (s *GCSStore) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	const op = "GCSStore.Upload"

	obj := s.client.Bucket(s.bucket).Object(objectName)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", utils.E(utils.CodeUnavailable, op, "failed to write object", err)
	}
	if err := w.Close(); err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "failed to finalize object", err)
	}

	return objectName, nil
}

func (s *GCSStore) Download(ctx context.Context, objectName string) ([]byte, error) {
	const op = "GCSStore.Download"

	r, err := s.client.Bucket(s.bucket).Object(objectName).NewReader(ctx)
	if err != nil {
		if err == gcs.ErrObjectNotExist {
			return nil, utils.E(utils.CodeNotFound, op, "stored file not found", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "failed to open object", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to read object", err)
	}
	return data, nil
}
