package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoansCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loans_created_total",
			Help: "Total number of loan applications created",
		},
	)

	LoanValidationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loan_validation_failures_total",
			Help: "Total number of loan applications rejected by validation",
		},
	)

	LoanStoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_store_errors_total",
			Help: "Total number of loan store failures",
		},
		[]string{"operation"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
