package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"lokasi/internal/pkg/config"
	"lokasi/internal/pkg/logger"
	"lokasi/internal/pkg/server"
	"lokasi/services/capture"
	"lokasi/services/capture/gateway"
	"lokasi/services/capture/handler"
	"lokasi/services/capture/repository"
	"lokasi/services/capture/usecase"
)

func main() {
	configs := config.InitConfig(".env")

	// Startup errors are fatal and reported before any listener opens
	if err := config.Validate(configs); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger, err := logger.NewAppLogger(logger.Config{
		Level:      configs.Logger.Level,
		FilePath:   configs.Logger.FilePath,
		MaxSize:    configs.Logger.MaxSize,
		MaxAge:     configs.Logger.MaxAge,
		MaxBackups: configs.Logger.MaxBackups,
		Compress:   configs.Logger.Compress,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.SetGlobalLogger(appLogger)

	// Initialize the history log sink
	sink, err := repository.NewFileSink(configs.Storage.DataFilePath)
	if err != nil {
		logger.Fatal("Failed to open history log", logger.Err(err))
	}

	// Initialize the location store
	store := repository.NewLocationStore(sink)

	// Initialize the IP geolocation resolver when enabled
	var resolver capture.GeoResolver
	if configs.GeoIP.Enabled {
		resolver = gateway.NewIPAPIResolver(&configs.GeoIP)
		logger.Info("IP geolocation lookup enabled",
			logger.String("endpoint", configs.GeoIP.Endpoint))
	}

	// Initialize usecase
	captureUC := usecase.NewCaptureUC(store, resolver, configs)

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true
	handler.RegisterRoutes(e, captureUC, appLogger, configs.App.Name)

	// Register component cleanup
	shutdownManager := server.NewShutdownManager(appLogger)
	shutdownManager.Register(func(ctx context.Context) error {
		return sink.Close()
	})
	shutdownManager.Register(func(ctx context.Context) error {
		return appLogger.Close()
	})

	logger.Info("Starting service",
		logger.String("name", configs.App.Name),
		logger.Int("port", configs.Server.Port),
		logger.String("data_file", configs.Storage.DataFilePath))

	srv := server.NewGracefulServer(e, appLogger, configs.Server.Port,
		time.Duration(configs.Server.ShutdownTimeout)*time.Second)
	if err := srv.Start(); err != nil {
		logger.Error("Server exited with error", logger.Err(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdownManager.Shutdown(ctx); err != nil {
		logger.Error("Component shutdown failed", logger.Err(err))
	}
}
