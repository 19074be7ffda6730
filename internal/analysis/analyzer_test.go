package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(t *testing.T) Analyzer {
	t.Helper()

	analyzer, err := New(Config{})
	require.NoError(t, err)
	return analyzer
}

func TestSentimentPolarity(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	positive := analyzer.Sentiment("I love this!")
	negative := analyzer.Sentiment("I hate this!")

	assert.Positive(t, positive)
	assert.Negative(t, negative)
	assert.LessOrEqual(t, positive, 1.0)
	assert.GreaterOrEqual(t, negative, -1.0)

	// Scores ship rounded to three decimals.
	assert.Equal(t, Round3(positive), positive)
	assert.Equal(t, Round3(negative), negative)
}

func TestSentimentEmptyishText(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	assert.Equal(t, 0.0, analyzer.Sentiment("the the the"))
}

func TestRound3(t *testing.T) {
	assert.Equal(t, 0.027, Round3(0.0270000004))
	assert.Equal(t, -0.571, Round3(-0.5714285))
	assert.Equal(t, 0.0, Round3(0.0))
	assert.Equal(t, 1.0, Round3(0.9996))
}

func TestKeywordsConstraints(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	keywords, err := analyzer.Keywords(
		"The quick brown fox jumps over the lazy dog. The lazy dog sleeps near the old barn.")
	require.NoError(t, err)
	require.NotEmpty(t, keywords)

	seen := map[string]int{}
	for _, kw := range keywords {
		assert.Greater(t, len(kw), 2)
		assert.Equal(t, kw, strings.ToLower(kw))
		seen[kw]++
	}
	for kw, count := range seen {
		assert.Equal(t, 1, count, "keyword %q appears more than once", kw)
	}
	assert.Contains(t, keywords, "the lazy dog")
}

func TestKeywordsCappedAtTen(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	keywords, err := analyzer.Keywords(
		"I saw a cat and a dog and a bird and a horse and a snake and a fish and " +
			"a mouse and a rabbit and a turtle and a lizard and a ferret and a hamster today.")
	require.NoError(t, err)

	assert.LessOrEqual(t, len(keywords), MAX_KEYWORDS)
}

func TestFilterKeywordsRuneLength(t *testing.T) {
	// Length is measured in runes, so a two-rune CJK phrase is dropped even
	// though it spans six bytes.
	keywords := filterKeywords([]string{"héé", "ab", "北京", "東京タワー", "Dog", "dog"})

	assert.Equal(t, []string{"héé", "東京タワー", "dog"}, keywords)
}

func TestResolveModelPathLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.onnx")
	require.NoError(t, os.WriteFile(path, []byte("onnx"), 0o644))

	// An existing local model is used as-is, no download attempted.
	resolved, err := resolveModelPath(path, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
}

func TestKeywordsDeterministic(t *testing.T) {
	analyzer := newTestAnalyzer(t)
	text := "The quick brown fox jumps over the lazy dog near the old barn."

	first, err := analyzer.Keywords(text)
	require.NoError(t, err)
	second, err := analyzer.Keywords(text)
	require.NoError(t, err)

	assert.ElementsMatch(t, first, second)
}

func TestEntitiesOffsets(t *testing.T) {
	analyzer := newTestAnalyzer(t)
	text := "Barack Obama visited Paris."

	entities, err := analyzer.Entities(text)
	require.NoError(t, err)
	require.NotEmpty(t, entities)

	runes := []rune(text)
	var sawPerson, sawPlace bool
	for _, ent := range entities {
		require.GreaterOrEqual(t, ent.Start, 0)
		require.LessOrEqual(t, ent.End, len(runes))
		assert.Equal(t, ent.Text, string(runes[ent.Start:ent.End]))

		switch ent.Label {
		case "PERSON":
			sawPerson = true
		case "GPE":
			sawPlace = true
		}
	}

	assert.True(t, sawPerson, "expected a PERSON entity in %v", entities)
	assert.True(t, sawPlace, "expected a GPE entity in %v", entities)
}
