package http

import (
	"net/http"
	"strings"
	"time"

	"coown/internal/core"
)

// Reply DTOs. Money travels as integer cents and dates as YYYY-MM-DD.
type (
	userReply struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		Email       string `json:"email"`
	}

	ownerReply struct {
		UserID     string `json:"user_id"`
		Percentage int    `json:"percentage"`
	}

	billReply struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		AmountCents int64  `json:"amount_cents"`
		IsRecurring bool   `json:"is_recurring"`
		Period      string `json:"period,omitempty"`
		Date        string `json:"date"`
		PaidBy      string `json:"paid_by,omitempty"`
	}

	bookingReply struct {
		ID        string `json:"id"`
		ItemID    string `json:"item_id"`
		UserID    string `json:"user_id"`
		Title     string `json:"title,omitempty"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		Status    string `json:"status"`
	}

	documentReply struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Type       string `json:"type,omitempty"`
		URL        string `json:"url"`
		UploadedBy string `json:"uploaded_by"`
		UploadedAt string `json:"uploaded_at"`
		SizeBytes  int64  `json:"size_bytes"`
	}

	itemReply struct {
		ID             string          `json:"id"`
		Title          string          `json:"title"`
		Description    string          `json:"description,omitempty"`
		ValueCents     int64           `json:"value_cents"`
		Owners         []ownerReply    `json:"owners"`
		RecurringBills []billReply     `json:"recurring_bills"`
		OneTimeBills   []billReply     `json:"one_time_bills"`
		Bookings       []bookingReply  `json:"bookings"`
		Documents      []documentReply `json:"documents"`
		CreatedBy      string          `json:"created_by"`
	}
)

func ownerReplies(owners []core.Owner) []ownerReply {
	out := make([]ownerReply, 0, len(owners))
	for _, o := range owners {
		out = append(out, ownerReply{UserID: o.UserID, Percentage: o.Percentage})
	}
	return out
}

func billReplies(bills []core.Bill) []billReply {
	out := make([]billReply, 0, len(bills))
	for _, b := range bills {
		out = append(out, billReply{
			ID:          b.ID,
			Title:       b.Title,
			AmountCents: b.Amount.Cents,
			IsRecurring: b.IsRecurring,
			Period:      string(b.Period),
			Date:        b.Date.Format("2006-01-02"),
			PaidBy:      b.PaidBy,
		})
	}
	return out
}

func bookingReplies(bookings []core.Booking) []bookingReply {
	out := make([]bookingReply, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingReply{
			ID:        b.ID,
			ItemID:    b.ItemID,
			UserID:    b.UserID,
			Title:     b.Title,
			StartDate: b.StartDate.Format("2006-01-02"),
			EndDate:   b.EndDate.Format("2006-01-02"),
			Status:    string(b.Status),
		})
	}
	return out
}

func documentReplies(docs []core.Document) []documentReply {
	out := make([]documentReply, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentReply{
			ID:         d.ID,
			Name:       d.Name,
			Type:       d.Type,
			URL:        d.URL,
			UploadedBy: d.UploadedBy,
			UploadedAt: d.UploadedAt.UTC().Format(time.RFC3339),
			SizeBytes:  d.Size,
		})
	}
	return out
}

func itemToReply(item core.Item) itemReply {
	return itemReply{
		ID:             item.ID,
		Title:          item.Title,
		Description:    item.Description,
		ValueCents:     item.Value.Cents,
		Owners:         ownerReplies(item.Owners),
		RecurringBills: billReplies(item.RecurringBills),
		OneTimeBills:   billReplies(item.OneTimeBills),
		Bookings:       bookingReplies(item.Bookings),
		Documents:      documentReplies(item.Documents),
		CreatedBy:      item.CreatedBy,
	}
}

type createUserRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[createUserRequest](w, r)
	if !ok {
		return
	}

	user, err := s.items.CreateUser(r.Context(), core.User{
		DisplayName: strings.TrimSpace(req.DisplayName),
		Email:       strings.TrimSpace(req.Email),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userReply{ID: user.ID, DisplayName: user.DisplayName, Email: user.Email})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.items.ListUsers(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]userReply, 0, len(users))
	for _, u := range users {
		out = append(out, userReply{ID: u.ID, DisplayName: u.DisplayName, Email: u.Email})
	}
	writeJSON(w, http.StatusOK, out)
}

type createItemRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Value       string `json:"value" validate:"omitempty"`
	CreatedBy   string `json:"created_by" validate:"required"`
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[createItemRequest](w, r)
	if !ok {
		return
	}

	var value core.Money
	if req.Value != "" {
		cents, err := core.ParseDecimalToCents(req.Value)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid value: "+err.Error())
			return
		}
		value = core.Money{Cents: cents}
	}

	item, err := s.items.CreateItem(r.Context(), core.Item{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Value:       value,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, itemToReply(item))
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.items.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemToReply(item))
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user_id")
		return
	}

	items, err := s.items.ListItems(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]itemReply, 0, len(items))
	for _, item := range items {
		out = append(out, itemToReply(item))
	}
	writeJSON(w, http.StatusOK, out)
}
