package analysis

import (
	"strings"
	"unicode/utf8"

	prose "github.com/jdkato/prose/v2"
)

const (
	// MAX_KEYWORDS caps the keyword list per record.
	MAX_KEYWORDS = 10
	// MIN_KEYWORD_LEN drops phrases of two characters or fewer.
	MIN_KEYWORD_LEN = 3
)

var nounTags = map[string]bool{
	"NN":   true,
	"NNS":  true,
	"NNP":  true,
	"NNPS": true,
}

var modifierTags = map[string]bool{
	"DT":   true,
	"JJ":   true,
	"JJR":  true,
	"JJS":  true,
	"PRP$": true,
}

// nounPhraseKeywords extracts noun phrases from the text: contiguous runs of
// determiners/adjectives/nouns ending in a noun, per the Penn Treebank tags
// prose assigns. Phrases are lowercased, deduplicated preserving first
// appearance, and capped at MAX_KEYWORDS.
func nounPhraseKeywords(text string) ([]string, error) {
	doc, err := prose.NewDocument(text, prose.WithExtraction(false))
	if err != nil {
		return nil, err
	}

	return filterKeywords(chunkNounPhrases(doc.Tokens())), nil
}

// filterKeywords lowercases phrases, drops the short ones (measured in
// runes, not bytes), deduplicates preserving first appearance, and caps the
// list at MAX_KEYWORDS.
func filterKeywords(phrases []string) []string {
	seen := make(map[string]struct{}, len(phrases))
	keywords := make([]string, 0, MAX_KEYWORDS)
	for _, phrase := range phrases {
		keyword := strings.ToLower(phrase)
		if utf8.RuneCountInString(keyword) < MIN_KEYWORD_LEN {
			continue
		}
		if _, dup := seen[keyword]; dup {
			continue
		}
		seen[keyword] = struct{}{}

		keywords = append(keywords, keyword)
		if len(keywords) == MAX_KEYWORDS {
			break
		}
	}

	return keywords
}

func chunkNounPhrases(tokens []prose.Token) []string {
	var phrases []string
	var current []string
	hasNoun := false

	flush := func() {
		if hasNoun && len(current) > 0 {
			phrases = append(phrases, strings.Join(current, " "))
		}
		current = current[:0]
		hasNoun = false
	}

	for _, tok := range tokens {
		switch {
		case nounTags[tok.Tag]:
			current = append(current, tok.Text)
			hasNoun = true
		case tok.Tag == "PRP":
			flush()
			phrases = append(phrases, tok.Text)
		case modifierTags[tok.Tag]:
			if hasNoun {
				flush()
			}
			current = append(current, tok.Text)
		default:
			flush()
		}
	}
	flush()

	return phrases
}
