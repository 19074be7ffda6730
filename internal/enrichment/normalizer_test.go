package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalText(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]any
		want   string
	}{
		{
			name:   "text wins over everything",
			record: map[string]any{"text": "from text", "content": "from content", "title": "from title"},
			want:   "from text",
		},
		{
			name:   "content when text empty",
			record: map[string]any{"text": "", "content": "from content"},
			want:   "from content",
		},
		{
			name:   "description before title",
			record: map[string]any{"description": "from description", "title": "from title"},
			want:   "from description",
		},
		{
			name:   "title as last resort",
			record: map[string]any{"title": "from title"},
			want:   "from title",
		},
		{
			name:   "no candidate fields",
			record: map[string]any{"author": "someone", "score": 10.0},
			want:   "",
		},
		{
			name:   "non-string values count as missing",
			record: map[string]any{"text": 42.0, "content": nil, "description": []any{"x"}, "title": "fallback"},
			want:   "fallback",
		},
		{
			name:   "empty record",
			record: map[string]any{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalText(tt.record))
		})
	}
}
