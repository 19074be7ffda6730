package models

// Entity is a single named-entity span detected in a record's canonical text.
// Start and End are character offsets into that text.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// EnrichedItem pairs the untouched scraped record with the analysis derived
// from it. A record whose text was empty or whose analysis failed still gets
// an item, with a zero sentiment and empty entities/keywords.
type EnrichedItem struct {
	OriginalItem map[string]any `json:"original_item"`
	Sentiment    float64        `json:"sentiment"`
	Entities     []Entity       `json:"entities"`
	Keywords     []string       `json:"keywords"`
}

// EnrichedBatch is the result of enriching one scraped payload.
type EnrichedBatch struct {
	Items            []EnrichedItem `json:"items"`
	TotalItems       int            `json:"total_items"`
	AverageSentiment float64        `json:"average_sentiment"`
}
