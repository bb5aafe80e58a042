package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"hostelhub-backend/internal/domain"
	"hostelhub-backend/internal/service"
)

type AgreementHandler struct {
	agreements service.AgreementService
}

func NewAgreementHandler(agreements service.AgreementService) *AgreementHandler {
	return &AgreementHandler{agreements: agreements}
}

func (h *AgreementHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeBadRequest(w, "invalid agreement id")
		return
	}

	agr, err := h.agreements.GetAgreement(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agr)
}

func (h *AgreementHandler) GetForBooking(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	bookingID, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}

	agr, err := h.agreements.GetBookingAgreement(r.Context(), actor, bookingID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agr)
}

// Sign records the caller's signature. A repeated sign returns the
// unchanged agreement with 200 rather than an error, to keep the endpoint
// safe to retry.
func (h *AgreementHandler) Sign(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeBadRequest(w, "invalid agreement id")
		return
	}

	agr, err := h.agreements.SignAgreement(r.Context(), actor, id)
	if err != nil && !errors.Is(err, domain.ErrAlreadySigned) {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agr)
}

func (h *AgreementHandler) Terminate(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeBadRequest(w, "invalid agreement id")
		return
	}

	var req reasonRequest
	if !decodeBody(w, r, &req) {
		return
	}

	agr, err := h.agreements.TerminateAgreement(r.Context(), actor, id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agr)
}

func (h *AgreementHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")

	agreements, total, err := h.agreements.ListMyAgreements(r.Context(), actor, status, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"agreements": agreements,
		"meta":       listMeta{Page: page, PageSize: pageSize, Total: total},
	})
}
