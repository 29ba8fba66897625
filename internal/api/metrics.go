package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_http_requests_total",
		Help: "HTTP requests served, by method, route and status code",
	}, []string{"method", "route", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "triage_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "route"})

	tasksScored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_tasks_scored_total",
		Help: "Tasks scored, by strategy",
	}, []string{"strategy"})

	analyzeRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_analyze_rejections_total",
		Help: "Analyze requests rejected, by reason",
	}, []string{"reason"})

	priorityScores = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "triage_priority_score",
		Help:    "Distribution of computed priority scores",
		Buckets: prometheus.LinearBuckets(10, 10, 10),
	}, []string{"strategy"})
)
