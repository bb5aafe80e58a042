package domain

// Lifecycle event names carried in a notification's attributes.
const (
	EventBookingConfirmed    = "booking.confirmed"
	EventBookingRejected     = "booking.rejected"
	EventAgreementOpened     = "agreement.opened"
	EventAgreementSigned     = "agreement.signed"
	EventAgreementActive     = "agreement.active"
	EventAgreementTerminated = "agreement.terminated"
	EventAgreementCancelled  = "agreement.cancelled"
	EventAgreementExpired    = "agreement.expired"
)

type Notification struct {
	ID         int32             `json:"id"`
	UserID     int32             `json:"user_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedOn  string            `json:"created_on"`
}
