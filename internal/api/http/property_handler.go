package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"hostelhub-backend/internal/domain"
	"hostelhub-backend/internal/service"
)

type PropertyHandler struct {
	properties service.PropertyService
}

func NewPropertyHandler(properties service.PropertyService) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

type propertyRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Description string `json:"description"`
	MessOffered bool   `json:"mess_offered"`
	SignOrder   string `json:"sign_order"`
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())

	var req propertyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	prop := &domain.Property{
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		Description: req.Description,
		MessOffered: req.MessOffered,
		SignOrder:   domain.SignOrder(req.SignOrder),
	}
	if err := h.properties.CreateProperty(r.Context(), actor, prop); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, prop)
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeBadRequest(w, "invalid property id")
		return
	}

	prop, roomTypes, err := h.properties.GetProperty(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"property":   prop,
		"room_types": roomTypes,
	})
}

func (h *PropertyHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	page, pageSize := pagination(r)

	props, total, err := h.properties.ListMyProperties(r.Context(), actor, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"properties": props,
		"meta":       listMeta{Page: page, PageSize: pageSize, Total: total},
	})
}

func (h *PropertyHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	city := r.URL.Query().Get("city")
	query := r.URL.Query().Get("q")

	props, total, err := h.properties.SearchProperties(r.Context(), city, query, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"properties": props,
		"meta":       listMeta{Page: page, PageSize: pageSize, Total: total},
	})
}

type roomTypeRequest struct {
	Name                 string `json:"name"`
	TotalRooms           int32  `json:"total_rooms"`
	MaxOccupancy         int32  `json:"max_occupancy"`
	PricePerBedCents     int32  `json:"price_per_bed_cents"`
	SecurityDepositCents int32  `json:"security_deposit_cents"`
}

func (h *PropertyHandler) AddRoomType(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	propertyID, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeBadRequest(w, "invalid property id")
		return
	}

	var req roomTypeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rt := &domain.RoomType{
		PropertyID:           propertyID,
		Name:                 req.Name,
		TotalRooms:           req.TotalRooms,
		MaxOccupancy:         req.MaxOccupancy,
		PricePerBedCents:     req.PricePerBedCents,
		SecurityDepositCents: req.SecurityDepositCents,
	}
	if err := h.properties.AddRoomType(r.Context(), actor, rt); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rt)
}

func (h *PropertyHandler) UpdateRoomType(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	roomTypeID, ok := pathID(r, mux.Vars(r), "roomTypeId")
	if !ok {
		writeBadRequest(w, "invalid room type id")
		return
	}

	var req roomTypeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rt := &domain.RoomType{
		ID:                   roomTypeID,
		Name:                 req.Name,
		TotalRooms:           req.TotalRooms,
		MaxOccupancy:         req.MaxOccupancy,
		PricePerBedCents:     req.PricePerBedCents,
		SecurityDepositCents: req.SecurityDepositCents,
	}
	if err := h.properties.UpdateRoomType(r.Context(), actor, rt); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (h *PropertyHandler) RemoveRoomType(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	roomTypeID, ok := pathID(r, mux.Vars(r), "roomTypeId")
	if !ok {
		writeBadRequest(w, "invalid room type id")
		return
	}

	if err := h.properties.RemoveRoomType(r.Context(), actor, roomTypeID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *PropertyHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	roomTypeID, ok := pathID(r, mux.Vars(r), "roomTypeId")
	if !ok {
		writeBadRequest(w, "invalid room type id")
		return
	}

	avail, err := h.properties.GetAvailability(r.Context(), roomTypeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, avail)
}
