package service

import (
	"context"
	"time"

	"github.com/pjackim/webbuddy/internal/domain/media"
)

// FileStorage keeps uploaded bytes under flat, already validated names.
// Read returns an error matching fs.ErrNotExist for unknown names.
type FileStorage interface {
	Save(ctx context.Context, name string, data []byte) error
	Read(ctx context.Context, name string) ([]byte, error)
	Path(name string) string
}

type MetadataCache interface {
	Get(ctx context.Context, key string) (*media.Metadata, bool, error)
	Set(ctx context.Context, key string, m *media.Metadata, ttl time.Duration) error
}
