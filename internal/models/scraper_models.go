package models

import "time"

type ScrapeRequest struct {
	Network string `json:"network" binding:"required"`
	Query   string `json:"query" binding:"required"`
}

type ScrapeResponse struct {
	ExecutionLog string        `json:"execution_log"`
	ScrapedData  EnrichedBatch `json:"scraped_data"`
}

// ScrapeRunEvent is the per-request summary published to Kafka and stored in
// the run-history table. It carries counts and timing only, never the
// enriched items themselves.
type ScrapeRunEvent struct {
	RunID            string    `json:"run_id" dynamodbav:"run_id"`
	Network          string    `json:"network" dynamodbav:"network"`
	Query            string    `json:"query" dynamodbav:"query"`
	Status           string    `json:"status" dynamodbav:"status"`
	TotalItems       int       `json:"total_items" dynamodbav:"total_items"`
	AverageSentiment float64   `json:"average_sentiment" dynamodbav:"average_sentiment"`
	DurationMs       int64     `json:"duration_ms" dynamodbav:"duration_ms"`
	Timestamp        time.Time `json:"timestamp" dynamodbav:"timestamp"`
}
