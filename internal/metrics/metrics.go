package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	UploadResultSuccess     = "success"
	UploadResultClientError = "client_error"
	UploadResultServerError = "server_error"

	CacheResultHit  = "hit"
	CacheResultMiss = "miss"
)

var (
	MenuUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mess_menu_uploads_total",
			Help: "Total number of menu spreadsheet uploads by result",
		},
		[]string{"result"}, // "success", "client_error", "server_error"
	)

	MenuUploadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mess_menu_upload_duration_seconds",
			Help:    "Time spent parsing and persisting an uploaded menu",
			Buckets: prometheus.DefBuckets,
		},
	)

	MenuRecordsUpserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mess_menu_records_upserted_total",
			Help: "Total number of menu records written to storage",
		},
	)

	MenuRowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mess_menu_rows_skipped_total",
			Help: "Total number of spreadsheet rows skipped during parsing",
		},
		[]string{"reason"},
	)

	MenuUpsertFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mess_menu_upsert_fallbacks_total",
			Help: "Bulk writes that hit a duplicate key and fell back to per-record upserts",
		},
	)

	MenuCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mess_menu_cache_requests_total",
			Help: "Menu cache lookups by result",
		},
		[]string{"result"},
	)

	MenuEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mess_menu_events_published_total",
			Help: "Menu events published to the broker by result",
		},
		[]string{"result"}, // "success", "error"
	)
)
