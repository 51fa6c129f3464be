package media

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/pjackim/webbuddy/internal/application/service"
	"github.com/pjackim/webbuddy/internal/domain/media"
	"github.com/pjackim/webbuddy/pkg/apperror"
	"github.com/pjackim/webbuddy/pkg/logger"
)

const MirrorFolder = "webbuddy/uploads"

// MirrorMediaUseCase copies a stored upload to the offsite mirror.
type MirrorMediaUseCase struct {
	storage  service.FileStorage
	uploader service.Uploader
	logger   logger.Logger
}

func NewMirrorMediaUseCase(s service.FileStorage, u service.Uploader, log logger.Logger) *MirrorMediaUseCase {
	return &MirrorMediaUseCase{storage: s, uploader: u, logger: log}
}

func (uc *MirrorMediaUseCase) Execute(ctx context.Context, payload media.StoredEvent) error {
	l := uc.logger.With(zap.String("stored_filename", payload.StoredFilename), zap.String("event_type", string(payload.EventType)))

	if payload.EventType != media.EventTypeStored {
		l.Debug("Ignoring media event")
		return nil
	}
	if err := media.SafeFilename(payload.StoredFilename); err != nil {
		l.Warn("Skipping media event with unsafe filename")
		return nil
	}

	data, err := uc.storage.Read(ctx, payload.StoredFilename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.Warn("Stored file not found, skipping event")
			return nil
		}
		return apperror.NewInternal("failed to read stored file", err)
	}

	publicID := strings.TrimSuffix(payload.StoredFilename, media.Ext(payload.StoredFilename))
	url, err := uc.uploader.Upload(ctx, bytes.NewReader(data), MirrorFolder, publicID)
	if err != nil {
		return apperror.NewInternal("failed to mirror media", err)
	}

	l.Info("Mirrored media offsite", zap.String("mirror_url", url))
	return nil
}
