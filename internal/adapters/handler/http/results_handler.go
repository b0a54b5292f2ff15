package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/clubvote/internal/core/ports"
	"github.com/vncsmyrnk/clubvote/internal/core/services"
)

type ResultsHandler struct {
	service ports.ResultsService
}

func NewResultsHandler(service ports.ResultsService) *ResultsHandler {
	return &ResultsHandler{
		service: service,
	}
}

type resultsResponse struct {
	Results map[uuid.UUID]int64 `json:"results"`
	Total   int64               `json:"total"`
	Winner  *uuid.UUID          `json:"winner,omitempty"`
}

func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r)

	electionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid election id", http.StatusBadRequest)
		return
	}

	results, err := h.service.GetResults(r.Context(), identity, electionID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := resultsResponse{Results: results}
	for _, count := range results {
		resp.Total += count
	}
	if winner, ok := services.Winner(results); ok {
		resp.Winner = &winner
	}

	writeJSON(w, http.StatusOK, resp)
}
