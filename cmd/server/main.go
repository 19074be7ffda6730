package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/scrapeflow/config"
	"github.com/spacesedan/scrapeflow/internal/analysis"
	"github.com/spacesedan/scrapeflow/internal/api"
	"github.com/spacesedan/scrapeflow/internal/clients"
	"github.com/spacesedan/scrapeflow/internal/clients/kafka_client"
	"github.com/spacesedan/scrapeflow/internal/db"
	"github.com/spacesedan/scrapeflow/internal/enrichment"
	"github.com/spacesedan/scrapeflow/internal/logging"
	"github.com/spacesedan/scrapeflow/internal/scraper"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	cfg := config.Server()

	analyzer, err := analysis.New(analysis.Config{
		NERModelPath: cfg.NERModelPath,
		NERModelDir:  cfg.NERModelDir,
	})
	if err != nil {
		slog.Error("[Main] Failed to initialize analyzer",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	if closer, ok := analyzer.(io.Closer); ok {
		defer closer.Close()
	}

	engine := enrichment.NewEngine(analyzer)
	runner := scraper.NewRunner(cfg.SkraperPath, cfg.ScrapeTimeout)

	var cache api.RawCache
	if cfg.ValkeyAddress != "" {
		valkeyClient, err := clients.NewValkeyClient(cfg.ValkeyAddress, cfg.RawCacheTTL)
		if err != nil {
			slog.Error("[Main] Failed to connect to Valkey",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer valkeyClient.Close()
		cache = valkeyClient
	}

	var recorders []api.RunRecorder
	if cfg.KafkaBroker != "" {
		producer, err := kafka_client.NewProducer(cfg.KafkaBroker)
		if err != nil {
			slog.Error("[Main] Failed to initialize Kafka producer",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer producer.Close()
		recorders = append(recorders, producer)
	}
	if cfg.RunsTable != "" {
		dynamoClient, err := clients.NewDynamoDBClient(context.Background())
		if err != nil {
			slog.Error("[Main] Failed to initialize DynamoDB client",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		recorders = append(recorders, db.NewRunStore(dynamoClient, cfg.RunsTable))
	}

	handler := api.NewScrapeHandler(runner, engine, cache, recorders...)
	router := api.SetupRouter(handler)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("[Main] API server listening", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Handle graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	<-stopChan

	slog.Info("Shutting down server gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Forced shutdown", slog.String("error", err.Error()))
	}
}
