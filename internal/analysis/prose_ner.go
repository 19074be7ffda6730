package analysis

import (
	"strings"
	"unicode/utf8"

	prose "github.com/jdkato/prose/v2"

	"github.com/spacesedan/scrapeflow/internal/models"
)

// proseNER extracts entities with the prose statistical model. prose reports
// only surface text and label, so character offsets are recovered by scanning
// the source text left to right.
type proseNER struct{}

func (proseNER) entities(text string) ([]models.Entity, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, err
	}

	docEnts := doc.Entities()
	ents := make([]models.Entity, 0, len(docEnts))
	cursor := 0
	for _, ent := range docEnts {
		start := strings.Index(text[cursor:], ent.Text)
		if start >= 0 {
			start += cursor
		} else if start = strings.Index(text, ent.Text); start < 0 {
			// Surface form not present verbatim, nothing to anchor to.
			continue
		}

		end := start + len(ent.Text)
		cursor = end
		ents = append(ents, models.Entity{
			Text:  ent.Text,
			Label: ent.Label,
			Start: runeOffset(text, start),
			End:   runeOffset(text, end),
		})
	}

	return ents, nil
}

// runeOffset converts a byte offset into a character offset.
func runeOffset(text string, byteOffset int) int {
	return utf8.RuneCountInString(text[:byteOffset])
}
