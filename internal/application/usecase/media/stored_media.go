package media

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/pjackim/webbuddy/internal/application/service"
	"github.com/pjackim/webbuddy/internal/domain/media"
	"github.com/pjackim/webbuddy/pkg/apperror"
	"github.com/pjackim/webbuddy/pkg/logger"
)

func readStored(ctx context.Context, s service.FileStorage, filename string) ([]byte, error) {
	if err := media.SafeFilename(filename); err != nil {
		return nil, apperror.NewInvalidInput("invalid filename", err)
	}
	data, err := s.Read(ctx, filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperror.NewNotFound("file", filename)
		}
		return nil, apperror.NewInternal("failed to read stored file", err)
	}
	return data, nil
}

// Raw

type GetRawMediaUseCase struct {
	storage service.FileStorage
}

func NewGetRawMediaUseCase(s service.FileStorage) *GetRawMediaUseCase {
	return &GetRawMediaUseCase{storage: s}
}

type GetRawMediaOutput struct {
	Data        []byte
	ContentType string
}

func (uc *GetRawMediaUseCase) Execute(ctx context.Context, filename string) (*GetRawMediaOutput, error) {
	data, err := readStored(ctx, uc.storage, filename)
	if err != nil {
		return nil, err
	}
	contentType, ok := media.MIMEForExtension(media.Ext(filename))
	if !ok {
		contentType = "application/octet-stream"
	}
	return &GetRawMediaOutput{Data: data, ContentType: contentType}, nil
}

// Info

type GetMediaInfoUseCase struct {
	pipeline *Pipeline
	storage  service.FileStorage
	cache    service.MetadataCache
	ttl      time.Duration
	logger   logger.Logger
}

// NewGetMediaInfoUseCase accepts a nil cache.
func NewGetMediaInfoUseCase(p *Pipeline, s service.FileStorage, c service.MetadataCache, ttl time.Duration, log logger.Logger) *GetMediaInfoUseCase {
	return &GetMediaInfoUseCase{pipeline: p, storage: s, cache: c, ttl: ttl, logger: log}
}

func infoCacheKey(filename string) string {
	return "media:info:" + filename
}

func (uc *GetMediaInfoUseCase) Execute(ctx context.Context, filename string) (*media.Metadata, error) {
	data, err := readStored(ctx, uc.storage, filename)
	if err != nil {
		return nil, err
	}

	key := infoCacheKey(filename)
	if uc.cache != nil {
		cached, found, err := uc.cache.Get(ctx, key)
		if err != nil {
			uc.logger.Warn("media info cache read failed", zap.String("key", key), zap.Error(err))
		} else if found {
			return cached, nil
		}
	}

	meta, err := uc.pipeline.Extract(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, meta, uc.ttl); err != nil {
			uc.logger.Warn("media info cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return meta, nil
}
