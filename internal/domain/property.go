package domain

// SignOrder controls which party must sign an agreement first. It is a
// per-property policy; ANY imposes no order.
type SignOrder string

const (
	SignOrderAny          SignOrder = "ANY"
	SignOrderOwnerFirst   SignOrder = "OWNER_FIRST"
	SignOrderStudentFirst SignOrder = "STUDENT_FIRST"
)

type Property struct {
	ID          int32     `json:"id"`
	OwnerID     int32     `json:"owner_id"`
	Owner       *User     `json:"owner,omitempty"` // Populated when fetching property details
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Description string    `json:"description"`
	MessOffered bool      `json:"mess_offered"`
	SignOrder   SignOrder `json:"sign_order"`
	CreatedOn   string    `json:"created_on"`
	UpdatedOn   string    `json:"updated_on"`
}

// RoomType is a bookable category within a property with its own capacity
// counters. AvailableRooms is mutated only by the inventory ledger's
// reserve/release operations; 0 <= AvailableRooms <= TotalRooms holds at
// all times.
type RoomType struct {
	ID                   int32  `json:"id"`
	PropertyID           int32  `json:"property_id"`
	Name                 string `json:"name"`
	TotalRooms           int32  `json:"total_rooms"`
	AvailableRooms       int32  `json:"available_rooms"`
	MaxOccupancy         int32  `json:"max_occupancy"`
	PricePerBedCents     int32  `json:"price_per_bed_cents"`
	SecurityDepositCents int32  `json:"security_deposit_cents"`
	CreatedOn            string `json:"created_on"`
	UpdatedOn            string `json:"updated_on"`
}
