package http

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/clubvote/internal/core/ports"
)

type CodeHandler struct {
	service ports.EligibilityService
}

func NewCodeHandler(service ports.EligibilityService) *CodeHandler {
	return &CodeHandler{
		service: service,
	}
}

type generateCodesRequest struct {
	Count int `json:"count"`
}

// GenerateCodes returns the literal code strings once; this response is the
// only place unbound codes ever appear in clear for distribution.
func (h *CodeHandler) GenerateCodes(w http.ResponseWriter, r *http.Request) {
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

	var req generateCodesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	codes, err := h.service.GenerateCodes(r.Context(), identity, electionID, req.Count)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"codes": codes})
}

func (h *CodeHandler) ListByElection(w http.ResponseWriter, r *http.Request) {
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

	codes, err := h.service.ListCodesByElection(r.Context(), identity, electionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, codes)
}

type validateCodeRequest struct {
	Code string `json:"code"`
}

func (h *CodeHandler) ValidateCode(w http.ResponseWriter, r *http.Request) {
	electionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid election id", http.StatusBadRequest)
		return
	}

	var req validateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	valid, err := h.service.ValidateCode(r.Context(), req.Code, electionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

func (h *CodeHandler) RedeemCode(w http.ResponseWriter, r *http.Request) {
	var req validateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.RedeemCode(r.Context(), req.Code); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "redeemed"})
}

// ExportCSV streams the voter codes of an election as
// (code, createdAt, status, usedAt) rows for out-of-band distribution.
func (h *CodeHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
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

	codes, err := h.service.ListCodesByElection(r.Context(), identity, electionID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=voter-codes-%s.csv", electionID))

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"code", "createdAt", "status", "usedAt"})
	for _, code := range codes {
		status := "Available"
		usedAt := ""
		if code.IsUsed {
			status = "Used"
			if code.UsedAt != nil {
				usedAt = code.UsedAt.Format(time.RFC3339)
			}
		}
		_ = cw.Write([]string{code.Code, code.CreatedAt.Format(time.RFC3339), status, usedAt})
	}
	cw.Flush()
}
