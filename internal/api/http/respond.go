package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"hostelhub-backend/internal/domain"
	"hostelhub-backend/internal/ledger"
	"hostelhub-backend/internal/logger"
	"hostelhub-backend/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

type listMeta struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
	Total    int32 `json:"total"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain sentinels onto HTTP status codes. Anything
// unrecognized becomes a 500 with a generic message so internals do not
// leak to clients.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrWrongParty):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, domain.ErrOutOfCapacity):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "no rooms available"})
	case errors.Is(err, domain.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "conflicting update, please retry"})
	case errors.Is(err, ledger.ErrLockTimeout):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "busy, please retry"})
	case errors.Is(err, service.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: service.ErrEmailTaken.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: service.ErrInvalidCredentials.Error()})
	default:
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeBadRequest(w, "invalid request body")
		return false
	}
	return true
}

func pathID(r *http.Request, vars map[string]string, name string) (int32, bool) {
	id, err := strconv.ParseInt(vars[name], 10, 32)
	if err != nil || id < 1 {
		return 0, false
	}
	return int32(id), true
}

// pagination reads page/page_size query parameters with defaults.
func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}
