package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	CommandsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "message_commands_published_total",
			Help: "Command envelopes published to the bus",
		},
		[]string{"command", "result"},
	)

	CommandsAppliedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "message_commands_applied_total",
			Help: "Command envelopes applied to the message store",
		},
		[]string{"command", "result"},
	)

	CommandsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "message_commands_dropped_total",
			Help: "Bus records dropped because they were not valid command envelopes",
		},
	)

	StoredRecordsSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "message_store_records_skipped_total",
			Help: "Stored records skipped on read because they could not be decoded",
		},
	)

	BatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "message_processor_batch_size",
			Help:    "Number of bus records handled per polled batch",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)
