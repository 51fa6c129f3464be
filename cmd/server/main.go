package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pjackim/webbuddy/adapters/event"
	httpAdapter "github.com/pjackim/webbuddy/adapters/http"
	"github.com/pjackim/webbuddy/adapters/media_storage"
	"github.com/pjackim/webbuddy/adapters/persistence"
	"github.com/pjackim/webbuddy/adapters/probe"
	"github.com/pjackim/webbuddy/adapters/realtime"
	"github.com/pjackim/webbuddy/adapters/relay"
	"github.com/pjackim/webbuddy/internal/application/service"
	assetUC "github.com/pjackim/webbuddy/internal/application/usecase/asset"
	mediaUC "github.com/pjackim/webbuddy/internal/application/usecase/media"
	"github.com/pjackim/webbuddy/internal/application/usecase/notify"
	screenUC "github.com/pjackim/webbuddy/internal/application/usecase/screen"
	"github.com/pjackim/webbuddy/internal/config"
	"github.com/pjackim/webbuddy/pkg/logger"
	"github.com/pjackim/webbuddy/pkg/tracing"
)

const serviceName = "webbuddy-api"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Start WebBuddy API Server...", zap.String("env", cfg.App.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	tracingEnabled := cfg.TracingActive()
	if tracingEnabled {
		tp, err := tracing.NewTracerProvider(ctx, cfg, serviceName, appLogger)
		if err != nil {
			appLogger.Fatal("cannot init tracer", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				appLogger.Error("tracer shutdown failed", err)
			}
		}()
	}

	// Event stream
	var publisher service.EventPublisher = event.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		publisher = kafkaClient
	} else {
		appLogger.Warn("Kafka brokers not configured, canvas and media events stay in-process")
	}

	// Media info cache
	var infoCache service.MetadataCache
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot connect Redis", err)
		}
		defer redisClient.Close()
		infoCache = persistence.NewRedisMediaInfoCache(redisClient)
	}

	// Storage and media
	storage, err := media_storage.NewLocalStorage(cfg.Storage.UploadDir, appLogger)
	if err != nil {
		appLogger.Fatal("cannot prepare upload directory", err)
	}
	prober := probe.NewFFprobe(cfg.Media.FFprobeBinary, appLogger)
	pipeline := mediaUC.NewPipeline(prober, cfg.Media.ProbeWorkers, cfg.Media.ProbeTimeout, appLogger)

	// Canvas
	store := persistence.NewMemoryStore(appLogger)
	hub := realtime.NewHub(appLogger)
	relayClient := relay.NewClient(cfg, appLogger)
	notifier := notify.NewNotifier(hub, publisher, appLogger)

	// Use Cases
	screenUseCase := screenUC.NewScreenUseCase(store, relayClient, notifier, appLogger)
	listAssetsUseCase := assetUC.NewListAssetsUseCase(store)
	createAssetUseCase := assetUC.NewCreateAssetUseCase(store, relayClient, notifier, appLogger)
	updateAssetUseCase := assetUC.NewUpdateAssetUseCase(store, relayClient, notifier, appLogger)
	deleteAssetUseCase := assetUC.NewDeleteAssetUseCase(store, relayClient, notifier, appLogger)
	uploadMediaUseCase := mediaUC.NewUploadMediaUseCase(pipeline, storage, publisher, cfg.Media.MaxUploadBytes, cfg.App.PublicBaseURL, appLogger)
	getRawMediaUseCase := mediaUC.NewGetRawMediaUseCase(storage)
	getMediaInfoUseCase := mediaUC.NewGetMediaInfoUseCase(pipeline, storage, infoCache, cfg.Redis.InfoTTL, appLogger)

	// HTTP Handlers
	handlers := httpAdapter.Handlers{
		Screens: httpAdapter.NewScreenHandler(screenUseCase),
		Assets:  httpAdapter.NewAssetHandler(listAssetsUseCase, createAssetUseCase, updateAssetUseCase, deleteAssetUseCase),
		Media: httpAdapter.NewMediaHandler(
			uploadMediaUseCase,
			getRawMediaUseCase,
			getMediaInfoUseCase,
			cfg.Media.MaxUploadBytes,
			appLogger,
		),
		WebSocket: hub.ServeWS,
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(handlers, httpAdapter.RouterOptions{
		ServiceName: serviceName,
		CORSOrigins: cfg.App.CORSOrigins,
		UploadDir:   storage.Dir(),
		Tracing:     tracingEnabled,
	}, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// websocket connections are hijacked and not tracked by Shutdown
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", err)
	}
}
