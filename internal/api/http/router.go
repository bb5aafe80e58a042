package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hostelhub-backend/internal/security"
	"hostelhub-backend/internal/service"
)

// Services bundles everything the router needs.
type Services struct {
	Auth          service.AuthService
	Properties    service.PropertyService
	Bookings      service.BookingService
	Agreements    service.AgreementService
	Notifications service.NotificationService
	Tokens        security.TokenManager
}

// NewRouter wires all API routes. Everything under /api/v1 except signup,
// login and property search requires a valid access token.
func NewRouter(svcs Services) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	authH := NewAuthHandler(svcs.Auth)
	propH := NewPropertyHandler(svcs.Properties)
	bookH := NewBookingHandler(svcs.Bookings)
	agrH := NewAgreementHandler(svcs.Agreements)
	noteH := NewNotificationHandler(svcs.Notifications)

	// Public endpoints.
	api.HandleFunc("/auth/signup", authH.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authH.Login).Methods(http.MethodPost)
	api.HandleFunc("/properties/search", propH.Search).Methods(http.MethodGet)
	api.HandleFunc("/properties/{id:[0-9]+}", propH.Get).Methods(http.MethodGet)
	api.HandleFunc("/room-types/{roomTypeId:[0-9]+}/availability", propH.GetAvailability).Methods(http.MethodGet)

	// Authenticated endpoints.
	auth := api.NewRoute().Subrouter()
	auth.Use(AuthMiddleware(svcs.Tokens))

	auth.HandleFunc("/auth/me", authH.GetProfile).Methods(http.MethodGet)

	auth.HandleFunc("/properties", propH.Create).Methods(http.MethodPost)
	auth.HandleFunc("/properties/mine", propH.ListMine).Methods(http.MethodGet)
	auth.HandleFunc("/properties/{id:[0-9]+}/room-types", propH.AddRoomType).Methods(http.MethodPost)
	auth.HandleFunc("/room-types/{roomTypeId:[0-9]+}", propH.UpdateRoomType).Methods(http.MethodPut)
	auth.HandleFunc("/room-types/{roomTypeId:[0-9]+}", propH.RemoveRoomType).Methods(http.MethodDelete)

	auth.HandleFunc("/bookings", bookH.Create).Methods(http.MethodPost)
	auth.HandleFunc("/bookings/mine", bookH.ListMine).Methods(http.MethodGet)
	auth.HandleFunc("/bookings/{id:[0-9]+}", bookH.Get).Methods(http.MethodGet)
	auth.HandleFunc("/bookings/{id:[0-9]+}/confirm", bookH.Confirm).Methods(http.MethodPost)
	auth.HandleFunc("/bookings/{id:[0-9]+}/reject", bookH.Reject).Methods(http.MethodPost)
	auth.HandleFunc("/bookings/{id:[0-9]+}/cancel", bookH.Cancel).Methods(http.MethodPost)
	auth.HandleFunc("/bookings/{id:[0-9]+}/leave", bookH.Leave).Methods(http.MethodPost)
	auth.HandleFunc("/bookings/{id:[0-9]+}/agreement", agrH.GetForBooking).Methods(http.MethodGet)
	auth.HandleFunc("/properties/{id:[0-9]+}/bookings", bookH.ListForProperty).Methods(http.MethodGet)

	auth.HandleFunc("/agreements/mine", agrH.ListMine).Methods(http.MethodGet)
	auth.HandleFunc("/agreements/{id:[0-9]+}", agrH.Get).Methods(http.MethodGet)
	auth.HandleFunc("/agreements/{id:[0-9]+}/sign", agrH.Sign).Methods(http.MethodPost)
	auth.HandleFunc("/agreements/{id:[0-9]+}/terminate", agrH.Terminate).Methods(http.MethodPost)

	auth.HandleFunc("/notifications", noteH.List).Methods(http.MethodGet)
	auth.HandleFunc("/notifications/{id:[0-9]+}/read", noteH.MarkAsRead).Methods(http.MethodPost)

	return r
}
