package analysis

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/jonreiter/govader"

	"github.com/spacesedan/scrapeflow/internal/models"
)

// Analyzer is the immutable text-analysis context handed to the enrichment
// engine. Implementations must be safe for reuse across requests.
type Analyzer interface {
	Sentiment(text string) float64
	Entities(text string) ([]models.Entity, error)
	Keywords(text string) ([]string, error)
}

// Config selects the backends used by New.
type Config struct {
	// NERModelPath points at a local ONNX token-classification model, or
	// names a hub model to download. When set, entity extraction runs
	// through hugot; otherwise the prose statistical tagger handles it.
	NERModelPath string
	// NERModelDir receives downloaded models when NERModelPath is not a
	// local file.
	NERModelDir string
}

type textAnalyzer struct {
	vader *govader.SentimentIntensityAnalyzer
	ner   entityBackend
}

type entityBackend interface {
	entities(text string) ([]models.Entity, error)
}

// New builds the production analyzer. All model loading happens here, once
// per process; a broken model configuration fails the whole startup.
func New(cfg Config) (Analyzer, error) {
	ner, err := newEntityBackend(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize NER backend: %w", err)
	}

	return &textAnalyzer{
		vader: govader.NewSentimentIntensityAnalyzer(),
		ner:   ner,
	}, nil
}

func newEntityBackend(cfg Config) (entityBackend, error) {
	if cfg.NERModelPath != "" {
		slog.Info("[Analyzer] Using transformer NER model",
			slog.String("model_path", cfg.NERModelPath))
		return newHugotNER(cfg.NERModelPath, cfg.NERModelDir)
	}

	slog.Info("[Analyzer] No NER model configured, using statistical tagger")
	return proseNER{}, nil
}

func (a *textAnalyzer) Sentiment(text string) float64 {
	scores := a.vader.PolarityScores(PlainText(text))
	return Round3(scores.Compound)
}

func (a *textAnalyzer) Entities(text string) ([]models.Entity, error) {
	return a.ner.entities(text)
}

func (a *textAnalyzer) Keywords(text string) ([]string, error) {
	return nounPhraseKeywords(text)
}

// Close releases native resources held by the NER backend, if any.
func (a *textAnalyzer) Close() error {
	if closer, ok := a.ner.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// Round3 rounds to three decimal places, the precision used on the wire.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
