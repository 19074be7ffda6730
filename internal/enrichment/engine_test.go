package enrichment

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/scrapeflow/internal/models"
)

// stubAnalyzer gives deterministic scores keyed on trigger words and fails
// entity extraction on demand.
type stubAnalyzer struct {
	failOn string
}

func (s stubAnalyzer) Sentiment(text string) float64 {
	switch {
	case strings.Contains(text, "love"):
		return 0.625
	case strings.Contains(text, "hate"):
		return -0.571
	default:
		return 0.1
	}
}

func (s stubAnalyzer) Entities(text string) ([]models.Entity, error) {
	if s.failOn != "" && strings.Contains(text, s.failOn) {
		return nil, errors.New("model exploded")
	}
	return []models.Entity{}, nil
}

func (s stubAnalyzer) Keywords(text string) ([]string, error) {
	return []string{"stub keyword"}, nil
}

func TestEnrich_EmptyInput(t *testing.T) {
	engine := NewEngine(stubAnalyzer{})

	batch, err := engine.Enrich([]any{})
	require.NoError(t, err)

	assert.Empty(t, batch.Items)
	assert.Equal(t, 0, batch.TotalItems)
	assert.Equal(t, 0.0, batch.AverageSentiment)
}

func TestEnrich_PositiveAndNegative(t *testing.T) {
	engine := NewEngine(stubAnalyzer{})

	batch, err := engine.Enrich([]any{
		map[string]any{"text": "I love this!"},
		map[string]any{"text": "I hate this!"},
	})
	require.NoError(t, err)

	require.Len(t, batch.Items, 2)
	assert.Equal(t, 2, batch.TotalItems)
	assert.Positive(t, batch.Items[0].Sentiment)
	assert.Negative(t, batch.Items[1].Sentiment)
	// Mean of 0.625 and -0.571, rounded to 3 decimals.
	assert.Equal(t, 0.027, batch.AverageSentiment)
}

func TestEnrich_EmptyTextRecords(t *testing.T) {
	engine := NewEngine(stubAnalyzer{})

	batch, err := engine.Enrich([]any{
		map[string]any{"text": ""},
		map[string]any{"foo": "bar"},
	})
	require.NoError(t, err)

	require.Len(t, batch.Items, 2)
	assert.Equal(t, 2, batch.TotalItems)
	assert.Equal(t, 0.0, batch.AverageSentiment)
	for _, item := range batch.Items {
		assert.Equal(t, 0.0, item.Sentiment)
		assert.Empty(t, item.Entities)
		assert.Empty(t, item.Keywords)
	}
}

func TestEnrich_InvalidInputKind(t *testing.T) {
	engine := NewEngine(stubAnalyzer{})

	for _, input := range []any{
		"not a list",
		map[string]any{"text": "a single object"},
		42.0,
		nil,
	} {
		_, err := engine.Enrich(input)
		assert.ErrorIs(t, err, ErrInvalidInputKind)
	}
}

func TestEnrich_SkipsNonObjectRecords(t *testing.T) {
	engine := NewEngine(stubAnalyzer{})

	batch, err := engine.Enrich([]any{
		map[string]any{"text": "I love this!"},
		"junk",
		42.0,
		map[string]any{"text": "I hate this!"},
	})
	require.NoError(t, err)

	require.Len(t, batch.Items, 2)
	assert.Equal(t, 2, batch.TotalItems)
	assert.Equal(t, "I love this!", batch.Items[0].OriginalItem["text"])
	assert.Equal(t, "I hate this!", batch.Items[1].OriginalItem["text"])
}

func TestEnrich_AnalysisFailureExcludedFromAverage(t *testing.T) {
	engine := NewEngine(stubAnalyzer{failOn: "broken"})

	batch, err := engine.Enrich([]any{
		map[string]any{"text": "I love this!"},
		map[string]any{"text": "broken record I hate"},
	})
	require.NoError(t, err)

	require.Len(t, batch.Items, 2)
	assert.Equal(t, 2, batch.TotalItems)

	// The failed record still ships as a zero-value item.
	failed := batch.Items[1]
	assert.Equal(t, 0.0, failed.Sentiment)
	assert.Empty(t, failed.Entities)
	assert.Empty(t, failed.Keywords)

	// But it must not drag the average down.
	assert.Equal(t, 0.625, batch.AverageSentiment)
}

func TestEnrich_OriginalItemPreserved(t *testing.T) {
	engine := NewEngine(stubAnalyzer{})

	record := map[string]any{"text": "I love this!", "author": "someone", "score": 42.0}
	batch, err := engine.Enrich([]any{record})
	require.NoError(t, err)

	require.Len(t, batch.Items, 1)
	assert.Equal(t, record, batch.Items[0].OriginalItem)
}

func TestEnrich_Idempotent(t *testing.T) {
	engine := NewEngine(stubAnalyzer{})
	input := []any{
		map[string]any{"text": "I love this!"},
		map[string]any{"content": "I hate this!"},
		map[string]any{"foo": "bar"},
	}

	first, err := engine.Enrich(input)
	require.NoError(t, err)
	second, err := engine.Enrich(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
