package media_storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pjackim/webbuddy/internal/application/service"
	"github.com/pjackim/webbuddy/pkg/logger"
)

// LocalStorage keeps uploads as flat files under one directory.
type LocalStorage struct {
	basePath string
	logger   logger.Logger
}

var _ service.FileStorage = (*LocalStorage)(nil)

func NewLocalStorage(basePath string, log logger.Logger) (*LocalStorage, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, fmt.Errorf("upload directory is not configured")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	l := log.With(zap.String("component", "local-storage"))
	l.Info("local storage initialized", zap.String("path", basePath))
	return &LocalStorage{basePath: basePath, logger: l}, nil
}

func (s *LocalStorage) Dir() string {
	return s.basePath
}

func (s *LocalStorage) Path(name string) string {
	return filepath.Join(s.basePath, filepath.Base(name))
}

// Save writes to a temp file first so readers never observe a partial upload.
func (s *LocalStorage) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.basePath, ".incoming-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path(name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	s.logger.Debug("file saved to local storage", zap.String("name", name), zap.Int("bytes", len(data)))
	return nil
}

func (s *LocalStorage) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}
	return data, nil
}
