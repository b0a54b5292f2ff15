package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
	"github.com/vncsmyrnk/clubvote/internal/core/ports"
)

type RegistrationHandler struct {
	service ports.EligibilityService
}

func NewRegistrationHandler(service ports.EligibilityService) *RegistrationHandler {
	return &RegistrationHandler{
		service: service,
	}
}

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
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

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	registration, err := h.service.Register(r.Context(), identity, ports.RegisterInput{
		ElectionID: electionID,
		Name:       req.Name,
		Email:      req.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registration)
}

func (h *RegistrationHandler) CanRegister(w http.ResponseWriter, r *http.Request) {
	electionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid election id", http.StatusBadRequest)
		return
	}

	open, err := h.service.CanRegister(r.Context(), electionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"can_register": open})
}

func (h *RegistrationHandler) ListByElection(w http.ResponseWriter, r *http.Request) {
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

	registrations, err := h.service.ListRegistrationsByElection(r.Context(), identity, electionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, registrations)
}

type reviewRequest struct {
	Decision string `json:"decision"`
}

func (h *RegistrationHandler) Review(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	registrationID, err := uuid.Parse(chi.URLParam(r, "registrationID"))
	if err != nil {
		http.Error(w, "invalid registration id", http.StatusBadRequest)
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	registration, err := h.service.ReviewRegistration(r.Context(), identity, registrationID, domain.ReviewStatus(req.Decision))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, registration)
}
