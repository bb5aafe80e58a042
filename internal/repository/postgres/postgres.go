package postgres

import (
	"database/sql"

	"hostelhub-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.PropertyRepository
	repository.RoomTypeRepository
	repository.BookingRepository
	repository.AgreementRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		PropertyRepository:     NewPropertyRepository(db),
		RoomTypeRepository:     NewRoomTypeRepository(db),
		BookingRepository:      NewBookingRepository(db),
		AgreementRepository:    NewAgreementRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
