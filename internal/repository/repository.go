package repository

import (
	"context"

	"hostelhub-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type PropertyRepository interface {
	Create(ctx context.Context, prop *domain.Property) error
	GetByID(ctx context.Context, id int32) (*domain.Property, error)
	Update(ctx context.Context, prop *domain.Property) error
	ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Property, int32, error)
	Search(ctx context.Context, city, query string, page, pageSize int32) ([]domain.Property, int32, error)
}

type RoomTypeRepository interface {
	Create(ctx context.Context, rt *domain.RoomType) error
	GetByID(ctx context.Context, id int32) (*domain.RoomType, error)
	// Update changes name, occupancy and pricing. The capacity counters are
	// written only through Reserve/Release.
	Update(ctx context.Context, rt *domain.RoomType) error
	Delete(ctx context.Context, id int32) error
	ListByProperty(ctx context.Context, propertyID int32) ([]domain.RoomType, error)

	// Reserve atomically decrements available_rooms by count. The check and
	// the decrement happen in one statement; when fewer than count rooms
	// remain it returns domain.ErrOutOfCapacity and changes nothing.
	Reserve(ctx context.Context, id, count int32) error
	// Release atomically increments available_rooms by count. When the
	// increment would exceed total_rooms it returns domain.ErrInvalidRelease
	// and changes nothing.
	Release(ctx context.Context, id, count int32) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	// Update is version-guarded: it matches on booking.Version, increments
	// it, and returns domain.ErrConflict if a concurrent writer got there
	// first.
	Update(ctx context.Context, booking *domain.Booking) error
	ListByStudent(ctx context.Context, studentID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByProperty(ctx context.Context, propertyID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	// CountNonTerminalByRoomType counts bookings in PENDING or CONFIRMED
	// status against a room type. Guards room type deletion.
	CountNonTerminalByRoomType(ctx context.Context, roomTypeID int32) (int32, error)
	// ListStalePending returns pending bookings whose start date has passed.
	ListStalePending(ctx context.Context, before string) ([]domain.Booking, error)
}

type AgreementRepository interface {
	Create(ctx context.Context, agr *domain.Agreement) error
	GetByID(ctx context.Context, id int32) (*domain.Agreement, error)
	// GetCurrentByBookingID returns the non-cancelled agreement for a
	// booking, or domain.ErrNotFound. At most one such row exists.
	GetCurrentByBookingID(ctx context.Context, bookingID int32) (*domain.Agreement, error)
	// Update is version-guarded like BookingRepository.Update.
	Update(ctx context.Context, agr *domain.Agreement) error
	ListByParty(ctx context.Context, userID int32, party domain.Party, status string, page, pageSize int32) ([]domain.Agreement, int32, error)
	// ListActiveEndingBefore returns active agreements whose end date has
	// passed, for the expiry job.
	ListActiveEndingBefore(ctx context.Context, date string) ([]domain.Agreement, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
