package http

import (
	"net/http"
	"strings"

	"coown/internal/core"
)

type addOwnerRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

func (s *Server) handleAddOwner(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")
	req, ok := decodeAndValidate[addOwnerRequest](w, r)
	if !ok {
		return
	}

	owners, err := s.items.AddOwner(r.Context(), itemID, req.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateItemCaches(itemID)
	writeJSON(w, http.StatusOK, ownerReplies(owners))
}

func (s *Server) handleRemoveOwner(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")

	owners, err := s.items.RemoveOwner(r.Context(), itemID, r.PathValue("userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateItemCaches(itemID)
	writeJSON(w, http.StatusOK, ownerReplies(owners))
}

type ownerEditRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	Mode       string `json:"mode" validate:"required,oneof=even manual"`
	Percentage int    `json:"percentage" validate:"gte=0,lte=100"`
}

type rebalanceRequest struct {
	// The owner cap is enforced by the allocator, which knows the
	// configured limit.
	Owners []ownerEditRequest `json:"owners" validate:"required,min=1,dive"`
}

func (s *Server) handleRebalanceOwners(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")
	req, ok := decodeAndValidate[rebalanceRequest](w, r)
	if !ok {
		return
	}

	edits := make([]core.OwnerEdit, 0, len(req.Owners))
	for _, o := range req.Owners {
		mode := core.EditEven
		if o.Mode == "manual" {
			mode = core.EditManual
		}
		edits = append(edits, core.OwnerEdit{
			UserID:     o.UserID,
			Mode:       mode,
			Percentage: o.Percentage,
		})
	}

	owners, err := s.items.RebalanceOwners(r.Context(), itemID, edits)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateItemCaches(itemID)
	writeJSON(w, http.StatusOK, ownerReplies(owners))
}

// handleOwnerCandidates lists users eligible for an ownership slot: everyone
// not already an owner, plus the slot's current holder.
func (s *Server) handleOwnerCandidates(w http.ResponseWriter, r *http.Request) {
	item, err := s.items.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	users, err := s.items.ListUsers(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slotUserID := strings.TrimSpace(r.URL.Query().Get("slot"))
	candidates := core.CandidateUsers(users, item.Owners, slotUserID)

	out := make([]userReply, 0, len(candidates))
	for _, u := range candidates {
		out = append(out, userReply{ID: u.ID, DisplayName: u.DisplayName, Email: u.Email})
	}
	writeJSON(w, http.StatusOK, out)
}
