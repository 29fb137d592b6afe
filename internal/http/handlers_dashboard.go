package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"coown/internal/core"
)

type dashboardReply struct {
	TotalItems           int   `json:"total_items"`
	TotalValueCents      int64 `json:"total_value_cents"`
	MonthlyExpensesCents int64 `json:"monthly_expenses_cents"`
	UpcomingBookings     int   `json:"upcoming_bookings"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user_id")
		return
	}

	stats, err := s.items.Dashboard(r.Context(), userID, time.Now())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardReply{
		TotalItems:           stats.TotalItems,
		TotalValueCents:      stats.TotalValue.Cents,
		MonthlyExpensesCents: stats.MonthlyExpenses.Cents,
		UpcomingBookings:     stats.UpcomingBookings,
	})
}

type activityReply struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	ItemID     string `json:"item_id"`
	UserID     string `json:"user_id,omitempty"`
	Detail     string `json:"detail,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	entries, err := s.items.Activity(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]activityReply, 0, len(entries))
	for _, e := range entries {
		out = append(out, activityReply{
			ID:         e.ID,
			EventType:  e.EventType,
			ItemID:     e.ItemID,
			UserID:     e.UserID,
			Detail:     e.Detail,
			OccurredAt: e.OccurredAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	item, err := s.items.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentReplies(item.Documents))
}

type createDocumentRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Type       string `json:"type" validate:"max=100"`
	URL        string `json:"url" validate:"required,max=2048"`
	UploadedBy string `json:"uploaded_by" validate:"required"`
	SizeBytes  int64  `json:"size_bytes" validate:"gte=0"`
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")
	req, ok := decodeAndValidate[createDocumentRequest](w, r)
	if !ok {
		return
	}

	doc, err := s.items.AddDocument(r.Context(), itemID, core.Document{
		Name:       strings.TrimSpace(req.Name),
		Type:       req.Type,
		URL:        req.URL,
		UploadedBy: req.UploadedBy,
		Size:       req.SizeBytes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, documentReplies([]core.Document{doc})[0])
}
