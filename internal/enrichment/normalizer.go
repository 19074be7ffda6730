package enrichment

// canonicalFields is the priority order used to pick the text to analyze out
// of a raw scraped record.
var canonicalFields = []string{"text", "content", "description", "title"}

// CanonicalText selects the text content of a raw scraped record. Fields are
// tried in priority order and the first non-empty string wins; absent, null,
// empty and non-string values all count as missing.
func CanonicalText(record map[string]any) string {
	for _, field := range canonicalFields {
		if value, ok := record[field].(string); ok && value != "" {
			return value
		}
	}
	return ""
}
