package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"coown/internal/core"
	applog "coown/internal/log"
	"coown/internal/services"
	"coown/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		applog.ForComponent(applog.ComponentHTTP).Error("Failed to encode response", applog.FieldError, err)
	}
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeDomainError maps service and core errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var conflictErr *services.ConflictError
	switch {
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, struct {
			Error     string         `json:"error"`
			Conflicts []bookingReply `json:"conflicts"`
		}{
			Error:     services.ErrBookingConflict.Error(),
			Conflicts: bookingReplies(conflictErr.Conflicts),
		})
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrInvalidRange),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidValue),
		errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrInvalidPeriod),
		errors.Is(err, core.ErrInvalidStatus),
		errors.Is(err, core.ErrInvalidDocumentSize),
		errors.Is(err, core.ErrInvalidPercentage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrOwnerLimitExceeded),
		errors.Is(err, core.ErrCannotRemoveLastOwner),
		errors.Is(err, core.ErrOwnershipTotalMismatch),
		errors.Is(err, core.ErrDuplicateOwnerUser),
		errors.Is(err, core.ErrOwnerNotFound):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		applog.ForComponent(applog.ComponentHTTP).Error("Request failed", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseDate parses a date string in YYYY-MM-DD format.
func parseDate(dateStr string) (core.Date, error) {
	parsedTime, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: %q", core.ErrInvalidRange, dateStr)
	}
	return core.Date{Time: parsedTime}, nil
}

// parseYearMonth extracts year and month from query parameters, defaulting to
// the current month.
func parseYearMonth(r *http.Request) (year, month int) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			month = m
		}
	}
	return year, month
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
