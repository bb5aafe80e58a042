package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hostelhub-backend/internal/domain"
	"hostelhub-backend/internal/repository"
)

type roomTypeRepository struct {
	db *sql.DB
}

func NewRoomTypeRepository(db *sql.DB) repository.RoomTypeRepository {
	return &roomTypeRepository{db: db}
}

const roomTypeColumns = `id, property_id, name, total_rooms, available_rooms, max_occupancy, price_per_bed_cents, security_deposit_cents, created_on, updated_on`

func (r *roomTypeRepository) Create(ctx context.Context, rt *domain.RoomType) error {
	now := time.Now().Format(time.RFC3339)
	query := `INSERT INTO room_types (property_id, name, total_rooms, available_rooms, max_occupancy, price_per_bed_cents, security_deposit_cents, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return r.db.QueryRowContext(ctx, query, rt.PropertyID, rt.Name, rt.TotalRooms, rt.AvailableRooms, rt.MaxOccupancy, rt.PricePerBedCents, rt.SecurityDepositCents, now, now).Scan(&rt.ID)
}

func (r *roomTypeRepository) GetByID(ctx context.Context, id int32) (*domain.RoomType, error) {
	rt := &domain.RoomType{}
	query := `SELECT ` + roomTypeColumns + ` FROM room_types WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rt.ID, &rt.PropertyID, &rt.Name, &rt.TotalRooms, &rt.AvailableRooms, &rt.MaxOccupancy, &rt.PricePerBedCents, &rt.SecurityDepositCents, &rt.CreatedOn, &rt.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *roomTypeRepository) Update(ctx context.Context, rt *domain.RoomType) error {
	// Capacity counters are deliberately excluded; they move only through
	// Reserve and Release.
	query := `UPDATE room_types SET name=$1, max_occupancy=$2, price_per_bed_cents=$3, security_deposit_cents=$4, updated_on=$5 WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query, rt.Name, rt.MaxOccupancy, rt.PricePerBedCents, rt.SecurityDepositCents, time.Now().Format(time.RFC3339), rt.ID)
	return err
}

func (r *roomTypeRepository) Delete(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM room_types WHERE id = $1`, id)
	return err
}

func (r *roomTypeRepository) ListByProperty(ctx context.Context, propertyID int32) ([]domain.RoomType, error) {
	query := `SELECT ` + roomTypeColumns + ` FROM room_types WHERE property_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []domain.RoomType
	for rows.Next() {
		var rt domain.RoomType
		if err := rows.Scan(&rt.ID, &rt.PropertyID, &rt.Name, &rt.TotalRooms, &rt.AvailableRooms, &rt.MaxOccupancy, &rt.PricePerBedCents, &rt.SecurityDepositCents, &rt.CreatedOn, &rt.UpdatedOn); err != nil {
			return nil, err
		}
		types = append(types, rt)
	}
	return types, rows.Err()
}

// Reserve performs the check and the decrement in a single statement, so
// two callers racing for the last room serialize on the row: exactly one
// statement matches, the other sees zero rows and gets ErrOutOfCapacity.
func (r *roomTypeRepository) Reserve(ctx context.Context, id, count int32) error {
	query := `UPDATE room_types
	          SET available_rooms = available_rooms - $2, updated_on = $3
	          WHERE id = $1 AND available_rooms >= $2`
	res, err := r.db.ExecContext(ctx, query, id, count, time.Now().Format(time.RFC3339))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrOutOfCapacity
	}
	return nil
}

// Release is the exact inverse of Reserve. An increment that would exceed
// total_rooms matches no rows and surfaces ErrInvalidRelease; the counters
// are never silently clamped.
func (r *roomTypeRepository) Release(ctx context.Context, id, count int32) error {
	query := `UPDATE room_types
	          SET available_rooms = available_rooms + $2, updated_on = $3
	          WHERE id = $1 AND available_rooms + $2 <= total_rooms`
	res, err := r.db.ExecContext(ctx, query, id, count, time.Now().Format(time.RFC3339))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrInvalidRelease
	}
	return nil
}
