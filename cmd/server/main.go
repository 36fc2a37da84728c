package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docforge/ingest/api/handlers"
	"github.com/docforge/ingest/api/routes"
	"github.com/docforge/ingest/config"
	"github.com/docforge/ingest/internal/importer"
	"github.com/docforge/ingest/internal/output"
	"github.com/docforge/ingest/internal/parse"
	"github.com/docforge/ingest/pkg/logger"
	"github.com/docforge/ingest/pkg/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(
		logger.WithLevel(cfg.Logging.Level),
		logger.WithEncoding(cfg.Logging.Encoding),
		logger.WithOutputPaths(cfg.Logging.Outputs),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	store, err := storage.New(cfg.Storage, log)
	if err != nil {
		log.Fatal("failed to init storage", logger.Error(err))
	}

	im := importer.New(importer.Config{
		Parsers: parse.NewFactory(parse.Config{
			TempDir:      cfg.Importer.TempDir,
			MaxMemory:    cfg.Importer.MaxMemory,
			OCREnabled:   cfg.Importer.OCR.Enabled,
			OCRLanguages: cfg.Importer.OCR.Languages,
		}, log),
		TempDir:        cfg.Importer.TempDir,
		MaxMemory:      cfg.Importer.MaxMemory,
		ErrorDir:       cfg.Importer.ErrorDir,
		MaxNestedDepth: cfg.Importer.MaxNestedDepth,
	}, log)

	h := handlers.NewHandlers(im, output.NewWriter(store, log), log)
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Server.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = cfg.Server.MaxUploadBytes
	}
	routes.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	go func() {
		log.Info("server starting", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", logger.Error(err))
	}
}
