package http

import (
	"net/http"
	"strings"

	"coown/internal/core"
)

type createBillRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Amount      string `json:"amount" validate:"required"`
	IsRecurring bool   `json:"is_recurring"`
	Period      string `json:"period" validate:"omitempty,oneof=monthly yearly"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	PaidBy      string `json:"paid_by"`
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")
	req, ok := decodeAndValidate[createBillRequest](w, r)
	if !ok {
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount: "+err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	bill, err := s.items.AddBill(r.Context(), itemID, core.Bill{
		Title:       strings.TrimSpace(req.Title),
		Amount:      core.Money{Cents: cents},
		IsRecurring: req.IsRecurring,
		Period:      core.RecurringPeriod(req.Period),
		Date:        date,
		PaidBy:      req.PaidBy,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateItemCaches(itemID)
	writeJSON(w, http.StatusCreated, billReplies([]core.Bill{bill})[0])
}

type billListReply struct {
	Recurring []billReply `json:"recurring"`
	OneTime   []billReply `json:"one_time"`
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	item, err := s.items.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, billListReply{
		Recurring: billReplies(item.RecurringBills),
		OneTime:   billReplies(item.OneTimeBills),
	})
}

type ownerShareReply struct {
	UserID          string `json:"user_id"`
	Percentage      int    `json:"percentage"`
	AnnualCostCents int64  `json:"annual_cost_cents"`
}

type financeReply struct {
	MonthlyTotalCents    int64             `json:"monthly_total_cents"`
	YearlyTotalCents     int64             `json:"yearly_total_cents"`
	OneTimeTotalCents    int64             `json:"one_time_total_cents"`
	AnnualizedTotalCents int64             `json:"annualized_total_cents"`
	PerOwner             []ownerShareReply `json:"per_owner"`
}

func financeToReply(summary core.FinanceSummary) financeReply {
	reply := financeReply{
		MonthlyTotalCents:    summary.MonthlyTotal.Cents,
		YearlyTotalCents:     summary.YearlyTotal.Cents,
		OneTimeTotalCents:    summary.OneTimeTotal.Cents,
		AnnualizedTotalCents: summary.AnnualizedTotal.Cents,
	}
	for _, share := range summary.PerOwner {
		reply.PerOwner = append(reply.PerOwner, ownerShareReply{
			UserID:          share.UserID,
			Percentage:      share.Percentage,
			AnnualCostCents: share.AnnualCost.Cents,
		})
	}
	return reply
}

func (s *Server) handleFinance(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")

	cacheKey := itemID + ":finance"
	if summary, ok := s.financeCache.Get(cacheKey); ok {
		cacheHitsTotal.WithLabelValues("finance").Inc()
		writeJSON(w, http.StatusOK, financeToReply(summary))
		return
	}

	summary, err := s.items.Finance(r.Context(), itemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.financeCache.Set(cacheKey, summary)
	writeJSON(w, http.StatusOK, financeToReply(summary))
}

// handleExportReport pushes the item's finance summary to the configured
// report destination.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		writeError(w, http.StatusServiceUnavailable, "report export not configured")
		return
	}
	itemID := r.PathValue("id")

	item, err := s.items.GetItem(r.Context(), itemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	summary, err := s.items.Finance(r.Context(), itemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	ref, err := s.reports.WriteSummary(r.Context(), item.Title, summary)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"ref": ref})
}
