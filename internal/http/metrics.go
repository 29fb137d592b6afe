package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coown_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	bookingConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coown_booking_conflicts_total",
		Help: "Booking requests rejected because of a date overlap.",
	})

	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coown_rate_limited_requests_total",
		Help: "Requests rejected by the per-client rate limiter.",
	})

	cacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coown_cache_hits_total",
		Help: "Cache hits by cache name.",
	}, []string{"cache"})
)
