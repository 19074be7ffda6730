package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScrapeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scrapeflow_scrape_requests_total",
		Help: "Scrape requests handled, by network and outcome.",
	}, []string{"network", "status"})

	ScrapeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scrapeflow_scrape_duration_seconds",
		Help:    "End-to-end duration of a scrape-and-enrich request.",
		Buckets: prometheus.DefBuckets,
	}, []string{"network"})

	EnrichedItems = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scrapeflow_enriched_items_total",
		Help: "Records that produced an enriched item.",
	})

	RecordsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scrapeflow_records_skipped_total",
		Help: "Input records dropped for not being JSON objects.",
	})

	AnalysisFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scrapeflow_analysis_failures_total",
		Help: "Records whose text analysis failed and degraded to a zero item.",
	})
)
