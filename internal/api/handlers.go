package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/spacesedan/scrapeflow/internal/enrichment"
	"github.com/spacesedan/scrapeflow/internal/models"
	"github.com/spacesedan/scrapeflow/internal/monitoring"
	"github.com/spacesedan/scrapeflow/internal/scraper"
)

// ScrapeRunner abstracts the skraper subprocess.
type ScrapeRunner interface {
	Run(ctx context.Context, network, query string) (scraper.RunResult, error)
}

// RawCache holds raw scraper output between requests so repeated queries
// skip the subprocess.
type RawCache interface {
	GetRawOutput(ctx context.Context, network, query string) ([]byte, bool)
	CacheRawOutput(ctx context.Context, network, query string, payload []byte) error
}

// RunRecorder receives a summary of each completed request. The Kafka
// publisher and the DynamoDB run store both implement it.
type RunRecorder interface {
	RecordRun(ctx context.Context, event models.ScrapeRunEvent) error
}

// ScrapeHandler wires the scrape-and-enrich flow behind the HTTP surface.
type ScrapeHandler struct {
	runner    ScrapeRunner
	engine    *enrichment.Engine
	cache     RawCache
	recorders []RunRecorder
}

func NewScrapeHandler(runner ScrapeRunner, engine *enrichment.Engine, cache RawCache, recorders ...RunRecorder) *ScrapeHandler {
	return &ScrapeHandler{
		runner:    runner,
		engine:    engine,
		cache:     cache,
		recorders: recorders,
	}
}

// HandleRunScrapper executes the scraper CLI for the requested network and
// returns the enriched results along with the execution log.
func (h *ScrapeHandler) HandleRunScrapper(c *gin.Context) {
	var req models.ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "network and query are required"})
		return
	}

	network := strings.ToLower(req.Network)
	if !scraper.NetworkAllowed(network) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("network %q is not supported", req.Network)})
		return
	}

	start := time.Now()
	status := "error"
	var batch models.EnrichedBatch
	defer func() {
		monitoring.ScrapeRequests.WithLabelValues(network, status).Inc()
		monitoring.ScrapeDuration.WithLabelValues(network).Observe(time.Since(start).Seconds())
		h.recordRun(c.Request.Context(), models.ScrapeRunEvent{
			RunID:            uuid.NewString(),
			Network:          network,
			Query:            req.Query,
			Status:           status,
			TotalItems:       batch.TotalItems,
			AverageSentiment: batch.AverageSentiment,
			DurationMs:       time.Since(start).Milliseconds(),
			Timestamp:        time.Now().UTC(),
		})
	}()

	payload, executionLog, ok := h.scrape(c, network, req.Query)
	if !ok {
		return
	}

	var err error
	batch, err = h.engine.Enrich(payload)
	if err != nil {
		slog.Error("[ScrapeHandler] Enrichment failed",
			slog.String("network", network),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status = "success"
	c.JSON(http.StatusOK, models.ScrapeResponse{
		ExecutionLog: executionLog,
		ScrapedData:  batch,
	})
}

// scrape produces the decoded raw payload, from cache when possible. On
// failure it writes the error response and returns ok=false.
func (h *ScrapeHandler) scrape(c *gin.Context, network, query string) (any, string, bool) {
	ctx := c.Request.Context()

	if h.cache != nil {
		if cached, hit := h.cache.GetRawOutput(ctx, network, query); hit {
			var payload any
			if err := json.Unmarshal(cached, &payload); err == nil {
				slog.Info("[ScrapeHandler] Serving raw output from cache",
					slog.String("network", network),
					slog.String("query", query))
				return payload, fmt.Sprintf("raw output for %s:%s served from cache", network, query), true
			}
		}
	}

	result, err := h.runner.Run(ctx, network, query)
	if err != nil {
		switch {
		case errors.Is(err, scraper.ErrNetworkNotAllowed):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, scraper.ErrCommandTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "scrapper command timed out"})
		case errors.Is(err, scraper.ErrCommandFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, "", false
	}

	payload, err := scraper.ReadScrapedFile(result.OutputPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, "", false
	}
	scraper.RemoveScrapedFile(result.OutputPath)

	if h.cache != nil {
		if data, err := json.Marshal(payload); err == nil {
			if err := h.cache.CacheRawOutput(ctx, network, query, data); err != nil {
				slog.Warn("[ScrapeHandler] Failed to cache raw output",
					slog.String("error", err.Error()))
			}
		}
	}

	return payload, result.Log, true
}

func (h *ScrapeHandler) recordRun(ctx context.Context, event models.ScrapeRunEvent) {
	for _, recorder := range h.recorders {
		if err := recorder.RecordRun(ctx, event); err != nil {
			slog.Warn("[ScrapeHandler] Failed to record run",
				slog.String("run_id", event.RunID),
				slog.String("error", err.Error()))
		}
	}
}

func HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": "You can try the latest API endpoint here -> /api/v1/run/scrapper"})
}

func HandleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
