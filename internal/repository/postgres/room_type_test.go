package postgres_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"hostelhub-backend/internal/domain"
	"hostelhub-backend/internal/repository/postgres"
)

func TestRoomTypeRepository_Reserve(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRoomTypeRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE room_types").
			WithArgs(int32(1), int32(1), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Reserve(ctx, 1, 1)
		assert.NoError(t, err)
	})

	t.Run("No rows means out of capacity", func(t *testing.T) {
		mock.ExpectExec("UPDATE room_types").
			WithArgs(int32(1), int32(1), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Reserve(ctx, 1, 1)
		assert.ErrorIs(t, err, domain.ErrOutOfCapacity)
	})
}

func TestRoomTypeRepository_Release(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRoomTypeRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE room_types").
			WithArgs(int32(1), int32(1), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Release(ctx, 1, 1)
		assert.NoError(t, err)
	})

	t.Run("No rows means invalid release", func(t *testing.T) {
		mock.ExpectExec("UPDATE room_types").
			WithArgs(int32(1), int32(1), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Release(ctx, 1, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidRelease)
	})
}

func TestRoomTypeRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRoomTypeRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rt := &domain.RoomType{
			PropertyID:       1,
			Name:             "Twin Sharing",
			TotalRooms:       10,
			AvailableRooms:   10,
			MaxOccupancy:     2,
			PricePerBedCents: 500000,
		}

		mock.ExpectQuery("INSERT INTO room_types").
			WithArgs(rt.PropertyID, rt.Name, rt.TotalRooms, rt.AvailableRooms, rt.MaxOccupancy, rt.PricePerBedCents, rt.SecurityDepositCents, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		err := repo.Create(ctx, rt)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), rt.ID)
	})
}
