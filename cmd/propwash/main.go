package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skyfpv/propwash/internal/api"
	"github.com/skyfpv/propwash/internal/config"
	"github.com/skyfpv/propwash/internal/crawler"
	"github.com/skyfpv/propwash/internal/pipeline"
	"github.com/skyfpv/propwash/internal/storage/sqlite"
	"github.com/skyfpv/propwash/internal/vision"
	"github.com/skyfpv/propwash/pkg/logger"
)

func main() {
	configPath := flag.String("c", "config.toml", "Path to the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting propwash",
		logger.String("version", config.Version),
		logger.String("config", *configPath))

	db, err := sqlite.Open(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatal("Failed to open history database", logger.Error(err))
	}
	defer db.Close()
	history := sqlite.NewAnalysisStorage(db, log)

	visionClient := vision.NewClient(vision.Config{
		BaseURL:        cfg.Vision.BaseURL,
		APIKey:         cfg.Vision.APIKey,
		Model:          cfg.Vision.Model,
		TimeoutSeconds: cfg.Vision.TimeoutSeconds,
		Temperature:    cfg.Vision.Temperature,
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !visionClient.Healthy(ctx) {
		log.Warn("Vision endpoint is not reachable, analyses will fail until it is",
			logger.String("base_url", cfg.Vision.BaseURL),
			logger.String("model", cfg.Vision.Model))
	}

	analysisPipeline := pipeline.New(cfg, visionClient, history, log)

	libraryCrawler := crawler.New(ctx, cfg.Crawler, analysisPipeline, log)
	if cfg.Crawler.Enabled {
		libraryCrawler.Start()
	}

	router := api.NewRouter(analysisPipeline, libraryCrawler, history, cfg, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", logger.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	cancel()
	libraryCrawler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", logger.Error(err))
		os.Exit(1)
	}

	log.Info("Shutdown complete")
}
