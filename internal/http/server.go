// Package http serves the JSON API for items, ownership, bookings, bills and
// the dashboard.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coown/internal/cache"
	"coown/internal/core"
	applog "coown/internal/log"
	"coown/internal/report"
	"coown/internal/services"
)

const writeRateLimit = 60 // requests per client per minute

type Server struct {
	http.Server

	items    *services.ItemService
	bookings *services.BookingService
	reports  report.SummaryWriter

	rateLimiter *rateLimiter

	financeCache  *cache.LRU[core.FinanceSummary]
	calendarCache *cache.LRU[[]int]
	janitor       *cache.Janitor
	log           *applog.Logger

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. The report writer may be nil when export is not configured.
func NewServer(addr string, items *services.ItemService, bookings *services.BookingService, reports report.SummaryWriter) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		items:         items,
		bookings:      bookings,
		reports:       reports,
		rateLimiter:   newRateLimiter(writeRateLimit),
		financeCache:  cache.NewLRU[core.FinanceSummary](200, 5*time.Minute),
		calendarCache: cache.NewLRU[[]int](500, time.Minute),
		janitor:       cache.NewJanitor(),
		log:           applog.ForComponent(applog.ComponentHTTP),
	}

	s.janitor.Register(s.financeCache)
	s.janitor.Register(s.calendarCache)
	s.janitor.Start(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	route := func(pattern, name string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, s.withMiddleware(name, h))
	}

	route("POST /api/users", "users", s.handleCreateUser)
	route("GET /api/users", "users", s.handleListUsers)

	route("POST /api/items", "items", s.handleCreateItem)
	route("GET /api/items", "items", s.handleListItems)
	route("GET /api/items/{id}", "item", s.handleGetItem)

	route("POST /api/items/{id}/owners", "owners", s.handleAddOwner)
	route("PUT /api/items/{id}/owners", "owners", s.handleRebalanceOwners)
	route("DELETE /api/items/{id}/owners/{userID}", "owners", s.handleRemoveOwner)
	route("GET /api/items/{id}/owners/candidates", "owner_candidates", s.handleOwnerCandidates)

	route("POST /api/items/{id}/bills", "bills", s.handleCreateBill)
	route("GET /api/items/{id}/bills", "bills", s.handleListBills)
	route("GET /api/items/{id}/finance", "finance", s.handleFinance)
	route("POST /api/items/{id}/reports", "reports", s.handleExportReport)

	route("POST /api/items/{id}/bookings", "bookings", s.handleCreateBooking)
	route("GET /api/items/{id}/bookings", "bookings", s.handleListBookings)
	route("GET /api/items/{id}/calendar", "calendar", s.handleCalendar)
	route("GET /api/items/{id}/availability", "availability", s.handleAvailability)

	route("POST /api/items/{id}/documents", "documents", s.handleCreateDocument)
	route("GET /api/items/{id}/documents", "documents", s.handleListDocuments)

	route("GET /api/items/{id}/activity", "activity", s.handleActivity)
	route("GET /api/dashboard", "dashboard", s.handleDashboard)

	return s
}

// invalidateItemCaches drops all cached views of an item after a write.
func (s *Server) invalidateItemCaches(itemID string) {
	s.financeCache.InvalidatePrefix(itemID + ":")
	s.calendarCache.InvalidatePrefix(itemID + ":")
}

// Shutdown stops the background goroutines, then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.janitor.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
