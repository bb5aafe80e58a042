package domain

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// bookingTransitions is the full transition table. Cancelling a confirmed
// booking is the "leave room" path, which must release capacity.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

// Terminal reports whether no further transitions are allowed.
func (s BookingStatus) Terminal() bool {
	return len(bookingTransitions[s]) == 0
}

// CanTransitionTo reports whether the transition s -> next is legal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is a student's request against one room type. It holds a capacity
// reservation in the ledger if and only if Status == CONFIRMED.
type Booking struct {
	ID              int32         `json:"id"`
	StudentID       int32         `json:"student_id"`
	PropertyID      int32         `json:"property_id"`
	RoomTypeID      int32         `json:"room_type_id"`
	StartDate       string        `json:"start_date"`
	EndDate         string        `json:"end_date"`
	Status          BookingStatus `json:"status"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	LeaveReason     string        `json:"leave_reason,omitempty"`
	Version         int32         `json:"version"`
	CreatedOn       string        `json:"created_on"`
	UpdatedOn       string        `json:"updated_on"`
}
