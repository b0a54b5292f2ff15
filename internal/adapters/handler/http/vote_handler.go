package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/clubvote/internal/core/ports"
)

type VoteHandler struct {
	service ports.BallotService
}

func NewVoteHandler(service ports.BallotService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type castVoteRequest struct {
	CandidateID uuid.UUID `json:"candidate_id"`
}

// CastVote godoc
// @Summary      Casts a ballot
// @Description  Records an anonymous vote for a candidate in an active election.
// @Tags         votes
// @Accept       json
// @Success      201
// @Failure      403
// @Failure      409
// @Router       /elections/{id}/votes [post]
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	electionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid election id", http.StatusBadRequest)
		return
	}

	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.CastVote(r.Context(), identity, electionID, req.CandidateID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *VoteHandler) MyBallotStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	electionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid election id", http.StatusBadRequest)
		return
	}

	voted, err := h.service.HasVoted(r.Context(), identity, electionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"has_voted": voted})
}
