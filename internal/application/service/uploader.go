package service

import (
	"context"
	"io"
)

// Uploader pushes stored media to an offsite mirror.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
}
