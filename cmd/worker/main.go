package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pjackim/webbuddy/adapters/event"
	"github.com/pjackim/webbuddy/adapters/media_storage"
	mediaUC "github.com/pjackim/webbuddy/internal/application/usecase/media"
	"github.com/pjackim/webbuddy/internal/config"
	"github.com/pjackim/webbuddy/pkg/logger"
)

const consumerGroup = "media-mirror-group"

var errNoBrokers = errors.New("kafka brokers not configured")

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting WebBuddy media worker...")

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("cannot start worker", errNoBrokers)
	}

	// Cloudinary Uploader
	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}

	// Uploaded files are shared with the API server through the upload dir
	storage, err := media_storage.NewLocalStorage(cfg.Storage.UploadDir, appLogger)
	if err != nil {
		appLogger.Fatal("cannot open upload directory", err)
	}

	mirrorUseCase := mediaUC.NewMirrorMediaUseCase(storage, uploader, appLogger)

	// Kafka Consumer
	reader := event.NewMediaEventsReader(cfg.Kafka.Brokers, consumerGroup)
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicMediaEvents), zap.String("group", consumerGroup))
	if err := event.ConsumeMediaEvents(ctx, reader, mirrorUseCase.Execute, appLogger); err != nil {
		appLogger.Error("media consumer stopped", err)
	}
	appLogger.Info("Worker stopped")
}
