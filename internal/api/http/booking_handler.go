package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"hostelhub-backend/internal/service"
)

type BookingHandler struct {
	bookings service.BookingService
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type createBookingRequest struct {
	PropertyID int32  `json:"property_id"`
	RoomTypeID int32  `json:"room_type_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())

	var req createBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PropertyID < 1 || req.RoomTypeID < 1 {
		writeBadRequest(w, "property_id and room_type_id are required")
		return
	}

	b, err := h.bookings.CreateBooking(r.Context(), actor, req.PropertyID, req.RoomTypeID, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}

	b, err := h.bookings.GetBooking(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}

	b, err := h.bookings.ConfirmBooking(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}

	var req reasonRequest
	if !decodeBody(w, r, &req) {
		return
	}

	b, err := h.bookings.RejectBooking(r.Context(), actor, id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}

	var req reasonRequest
	if !decodeBody(w, r, &req) {
		return
	}

	b, err := h.bookings.CancelBooking(r.Context(), actor, id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) Leave(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}

	var req reasonRequest
	if !decodeBody(w, r, &req) {
		return
	}

	b, err := h.bookings.LeaveRoom(r.Context(), actor, id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")

	bookings, total, err := h.bookings.ListMyBookings(r.Context(), actor, status, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bookings": bookings,
		"meta":     listMeta{Page: page, PageSize: pageSize, Total: total},
	})
}

func (h *BookingHandler) ListForProperty(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	propertyID, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeBadRequest(w, "invalid property id")
		return
	}
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")

	bookings, total, err := h.bookings.ListPropertyBookings(r.Context(), actor, propertyID, status, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bookings": bookings,
		"meta":     listMeta{Page: page, PageSize: pageSize, Total: total},
	})
}
