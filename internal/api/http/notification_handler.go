package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"hostelhub-backend/internal/service"
)

type NotificationHandler struct {
	notifications service.NotificationService
}

func NewNotificationHandler(notifications service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	page, pageSize := pagination(r)

	notes, total, err := h.notifications.GetNotifications(r.Context(), actor.ID, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notes,
		"meta":          listMeta{Page: page, PageSize: pageSize, Total: total},
	})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeBadRequest(w, "invalid notification id")
		return
	}

	if err := h.notifications.MarkAsRead(r.Context(), actor.ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
