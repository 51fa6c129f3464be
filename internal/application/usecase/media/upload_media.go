package media

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pjackim/webbuddy/adapters/metrics"
	"github.com/pjackim/webbuddy/internal/application/service"
	"github.com/pjackim/webbuddy/internal/domain/media"
	"github.com/pjackim/webbuddy/pkg/apperror"
	"github.com/pjackim/webbuddy/pkg/logger"
)

type UploadMediaUseCase struct {
	pipeline      *Pipeline
	storage       service.FileStorage
	publisher     service.EventPublisher
	maxBytes      int64
	publicBaseURL string
	logger        logger.Logger
}

func NewUploadMediaUseCase(
	p *Pipeline,
	s service.FileStorage,
	pub service.EventPublisher,
	maxBytes int64,
	publicBaseURL string,
	log logger.Logger,
) *UploadMediaUseCase {
	return &UploadMediaUseCase{
		pipeline:      p,
		storage:       s,
		publisher:     pub,
		maxBytes:      maxBytes,
		publicBaseURL: strings.TrimSuffix(strings.TrimSpace(publicBaseURL), "/"),
		logger:        log,
	}
}

type UploadMediaInput struct {
	Filename string
	Data     []byte
}

type UploadMediaOutput struct {
	URL            string
	StoredFilename string
	Metadata       *media.Metadata
}

func (uc *UploadMediaUseCase) Execute(ctx context.Context, input UploadMediaInput) (*UploadMediaOutput, error) {
	if len(input.Data) == 0 {
		metrics.RecordUpload("unknown", "rejected", 0)
		return nil, apperror.NewInvalidInput("file is empty", nil)
	}
	if uc.maxBytes > 0 && int64(len(input.Data)) > uc.maxBytes {
		metrics.RecordUpload("unknown", "too_large", 0)
		return nil, apperror.NewPayloadTooLarge(uc.maxBytes)
	}

	meta, err := uc.pipeline.Extract(ctx, input.Filename, input.Data)
	if err != nil {
		metrics.RecordUpload("unknown", "rejected", 0)
		return nil, err
	}

	stored := uuid.NewString() + media.Ext(input.Filename)
	if err := uc.storage.Save(ctx, stored, input.Data); err != nil {
		metrics.RecordUpload(string(meta.MediaType), "error", 0)
		return nil, apperror.NewInternal("failed to save uploaded file", err)
	}

	url := uc.publicBaseURL + "/uploads/" + stored
	metrics.RecordUpload(string(meta.MediaType), "success", meta.Size)
	uc.logger.Info("media stored",
		zap.String("stored_filename", stored),
		zap.String("mime_type", meta.MimeType),
		zap.Int64("size", meta.Size),
	)

	go func() {
		payload := media.StoredEvent{
			EventType:      media.EventTypeStored,
			StoredFilename: stored,
			MimeType:       meta.MimeType,
			MediaType:      meta.MediaType,
			Size:           meta.Size,
			URL:            url,
		}
		if err := uc.publisher.PublishMediaEvent(context.Background(), payload); err != nil {
			uc.logger.Error("Failed to publish Kafka 'media.stored' event", err, zap.String("stored_filename", stored))
		}
	}()

	return &UploadMediaOutput{URL: url, StoredFilename: stored, Metadata: meta}, nil
}
