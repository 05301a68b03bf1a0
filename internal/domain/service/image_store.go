package service

import (
	"context"
	"io"
)

// ImageStore uploads listing images to the blob store and returns durable URLs.
type ImageStore interface {
	UploadImage(ctx context.Context, key string, contentType string, size int64, file io.Reader) (string, error)
	Close() error
}
