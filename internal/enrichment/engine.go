package enrichment

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spacesedan/scrapeflow/internal/analysis"
	"github.com/spacesedan/scrapeflow/internal/models"
	"github.com/spacesedan/scrapeflow/internal/monitoring"
)

// ErrInvalidInputKind is returned when the decoded scrape payload is not a
// list of records. It is the only error Enrich propagates; everything else
// degrades per record.
var ErrInvalidInputKind = errors.New("scraped data must be a list of items")

// Engine turns a raw scraped payload into an EnrichedBatch. It holds no
// mutable state between calls; the analyzer is loaded once and shared.
type Engine struct {
	analyzer analysis.Analyzer
}

func NewEngine(analyzer analysis.Analyzer) *Engine {
	return &Engine{analyzer: analyzer}
}

// recordOutcome is the per-record result consumed internally: the item that
// goes on the wire plus whether its sentiment counts toward the batch average.
type recordOutcome struct {
	item     models.EnrichedItem
	analyzed bool
}

// Enrich processes one decoded scrape payload. Records that are not JSON
// objects are skipped; records with no text or a failing analysis produce a
// zero-value item and are excluded from the sentiment average.
func (e *Engine) Enrich(raw any) (models.EnrichedBatch, error) {
	records, ok := raw.([]any)
	if !ok {
		slog.Error("[EnrichmentEngine] Unexpected payload shape",
			slog.String("type", fmt.Sprintf("%T", raw)))
		return models.EnrichedBatch{}, ErrInvalidInputKind
	}

	batch := models.EnrichedBatch{
		Items: make([]models.EnrichedItem, 0, len(records)),
	}
	var sentiments []float64

	for _, element := range records {
		record, ok := element.(map[string]any)
		if !ok {
			slog.Warn("[EnrichmentEngine] Skipping non-object record",
				slog.String("type", fmt.Sprintf("%T", element)))
			monitoring.RecordsSkipped.Inc()
			continue
		}

		outcome := e.enrichRecord(record)
		batch.Items = append(batch.Items, outcome.item)
		monitoring.EnrichedItems.Inc()
		if outcome.analyzed {
			sentiments = append(sentiments, outcome.item.Sentiment)
		}
	}

	batch.TotalItems = len(batch.Items)
	batch.AverageSentiment = analysis.Round3(mean(sentiments))

	return batch, nil
}

func (e *Engine) enrichRecord(record map[string]any) recordOutcome {
	text := CanonicalText(record)
	if text == "" {
		slog.Warn("[EnrichmentEngine] No text content found in record")
		return recordOutcome{item: zeroItem(record)}
	}

	entities, err := e.analyzer.Entities(text)
	if err != nil {
		return e.failRecord(record, "entity extraction", err)
	}

	keywords, err := e.analyzer.Keywords(text)
	if err != nil {
		return e.failRecord(record, "keyword extraction", err)
	}

	// Empty sequences serialize as [] rather than null.
	if entities == nil {
		entities = []models.Entity{}
	}
	if keywords == nil {
		keywords = []string{}
	}

	return recordOutcome{
		item: models.EnrichedItem{
			OriginalItem: record,
			Sentiment:    e.analyzer.Sentiment(text),
			Entities:     entities,
			Keywords:     keywords,
		},
		analyzed: true,
	}
}

func (e *Engine) failRecord(record map[string]any, step string, err error) recordOutcome {
	slog.Error("[EnrichmentEngine] Analysis failed, emitting zero-value item",
		slog.String("step", step),
		slog.String("error", err.Error()))
	monitoring.AnalysisFailures.Inc()

	return recordOutcome{item: zeroItem(record)}
}

func zeroItem(record map[string]any) models.EnrichedItem {
	return models.EnrichedItem{
		OriginalItem: record,
		Sentiment:    0.0,
		Entities:     []models.Entity{},
		Keywords:     []string{},
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
