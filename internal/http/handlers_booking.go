package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"coown/internal/core"
	"coown/internal/services"
)

type createBookingRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	Title     string `json:"title" validate:"required,max=200"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"omitempty,oneof=confirmed pending"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")
	req, ok := decodeAndValidate[createBookingRequest](w, r)
	if !ok {
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date")
		return
	}

	booking, err := s.bookings.CreateBooking(r.Context(), core.Booking{
		ItemID:    itemID,
		UserID:    req.UserID,
		Title:     strings.TrimSpace(req.Title),
		StartDate: start,
		EndDate:   end,
		Status:    core.BookingStatus(req.Status),
	})
	if err != nil {
		if errors.Is(err, services.ErrBookingConflict) {
			bookingConflictsTotal.Inc()
		}
		writeDomainError(w, err)
		return
	}
	s.invalidateItemCaches(itemID)
	writeJSON(w, http.StatusCreated, bookingReplies([]core.Booking{booking})[0])
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.bookings.ListBookings(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingReplies(bookings))
}

type calendarReply struct {
	Year        int   `json:"year"`
	Month       int   `json:"month"`
	BlockedDays []int `json:"blocked_days"`
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")
	year, month := parseYearMonth(r)
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month out of range")
		return
	}

	cacheKey := fmt.Sprintf("%s:calendar:%04d-%02d", itemID, year, month)
	if days, ok := s.calendarCache.Get(cacheKey); ok {
		cacheHitsTotal.WithLabelValues("calendar").Inc()
		writeJSON(w, http.StatusOK, calendarReply{Year: year, Month: month, BlockedDays: days})
		return
	}

	days, err := s.bookings.Calendar(r.Context(), itemID, year, month)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if days == nil {
		days = []int{}
	}
	s.calendarCache.Set(cacheKey, days)
	writeJSON(w, http.StatusOK, calendarReply{Year: year, Month: month, BlockedDays: days})
}

type availabilityReply struct {
	Available bool           `json:"available"`
	Conflicts []bookingReply `json:"conflicts"`
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")

	// A single-day lookup reports the booking holding that date.
	if day := r.URL.Query().Get("date"); day != "" {
		d, err := parseDate(day)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		booking, taken, err := s.bookings.BookingOn(r.Context(), itemID, d)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		reply := availabilityReply{Available: !taken}
		if taken {
			reply.Conflicts = bookingReplies([]core.Booking{booking})
		}
		writeJSON(w, http.StatusOK, reply)
		return
	}

	start, err := parseDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start")
		return
	}
	end, err := parseDate(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end")
		return
	}

	result, err := s.bookings.CheckAvailability(r.Context(), itemID, start, end)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityReply{
		Available: !result.HasConflict,
		Conflicts: bookingReplies(result.Conflicting),
	})
}
