package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"hostelhub-backend/internal/domain"
	"hostelhub-backend/internal/repository/postgres"
)

func TestBookingRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		b := &domain.Booking{
			StudentID:  3,
			PropertyID: 1,
			RoomTypeID: 2,
			StartDate:  "2026-09-01",
			EndDate:    "2027-05-31",
			Status:     domain.BookingStatusPending,
		}

		mock.ExpectQuery("INSERT INTO bookings").
			WithArgs(b.StudentID, b.PropertyID, b.RoomTypeID, b.StartDate, b.EndDate, b.Status, "", "", int32(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		err := repo.Create(ctx, b)
		assert.NoError(t, err)
		assert.Equal(t, int32(7), b.ID)
		assert.Equal(t, int32(1), b.Version)
	})
}

func TestBookingRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now().Format(time.RFC3339)
		rows := sqlmock.NewRows([]string{"id", "student_id", "property_id", "room_type_id", "start_date", "end_date", "status", "rejection_reason", "leave_reason", "version", "created_on", "updated_on"}).
			AddRow(7, 3, 1, 2, "2026-09-01", "2027-05-31", "PENDING", "", "", 1, now, now)

		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
			WithArgs(int32(7)).
			WillReturnRows(rows)

		b, err := repo.GetByID(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusPending, b.Status)
		assert.Equal(t, int32(3), b.StudentID)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBookingRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Version match bumps version", func(t *testing.T) {
		b := &domain.Booking{ID: 7, Status: domain.BookingStatusConfirmed, Version: 1}

		mock.ExpectExec("UPDATE bookings").
			WithArgs(b.Status, "", "", sqlmock.AnyArg(), b.ID, int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(ctx, b)
		assert.NoError(t, err)
		assert.Equal(t, int32(2), b.Version)
	})

	t.Run("Stale version conflicts", func(t *testing.T) {
		b := &domain.Booking{ID: 7, Status: domain.BookingStatusConfirmed, Version: 1}

		mock.ExpectExec("UPDATE bookings").
			WithArgs(b.Status, "", "", sqlmock.AnyArg(), b.ID, int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, b)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, int32(1), b.Version, "version unchanged on conflict")
	})
}
