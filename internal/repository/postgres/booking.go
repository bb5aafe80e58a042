package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hostelhub-backend/internal/domain"
	"hostelhub-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, student_id, property_id, room_type_id, start_date, end_date, status, rejection_reason, leave_reason, version, created_on, updated_on`

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	now := time.Now().Format(time.RFC3339)
	query := `INSERT INTO bookings (student_id, property_id, room_type_id, start_date, end_date, status, rejection_reason, leave_reason, version, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	b.Version = 1
	return r.db.QueryRowContext(ctx, query, b.StudentID, b.PropertyID, b.RoomTypeID, b.StartDate, b.EndDate, b.Status, b.RejectionReason, b.LeaveReason, b.Version, now, now).Scan(&b.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.StudentID, &b.PropertyID, &b.RoomTypeID, &b.StartDate, &b.EndDate, &b.Status, &b.RejectionReason, &b.LeaveReason, &b.Version, &b.CreatedOn, &b.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Update matches on the version the caller read, so a concurrent writer
// surfaces as ErrConflict instead of a silent lost update.
func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET status=$1, rejection_reason=$2, leave_reason=$3, version=version+1, updated_on=$4
	          WHERE id=$5 AND version=$6`
	res, err := r.db.ExecContext(ctx, query, b.Status, b.RejectionReason, b.LeaveReason, time.Now().Format(time.RFC3339), b.ID, b.Version)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrConflict
	}
	b.Version++
	return nil
}

func (r *bookingRepository) ListByStudent(ctx context.Context, studentID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "student_id", studentID, status, page, pageSize)
}

func (r *bookingRepository) ListByProperty(ctx context.Context, propertyID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "property_id", propertyID, status, page, pageSize)
}

func (r *bookingRepository) list(ctx context.Context, column string, id int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize
	sqlStr := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + column + ` = $1`

	args := []interface{}{id}
	argIdx := 2
	if status != "" {
		sqlStr += " AND status = $2"
		args = append(args, status)
		argIdx++
	}

	var count int32
	countSql := "SELECT count(*) FROM (" + sqlStr + ") as sub"
	if err := r.db.QueryRowContext(ctx, countSql, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	sqlStr += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.StudentID, &b.PropertyID, &b.RoomTypeID, &b.StartDate, &b.EndDate, &b.Status, &b.RejectionReason, &b.LeaveReason, &b.Version, &b.CreatedOn, &b.UpdatedOn); err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, count, rows.Err()
}

func (r *bookingRepository) CountNonTerminalByRoomType(ctx context.Context, roomTypeID int32) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM bookings WHERE room_type_id = $1 AND status IN ($2, $3)`
	err := r.db.QueryRowContext(ctx, query, roomTypeID, domain.BookingStatusPending, domain.BookingStatusConfirmed).Scan(&count)
	return count, err
}

func (r *bookingRepository) ListStalePending(ctx context.Context, before string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 AND start_date < $2`
	rows, err := r.db.QueryContext(ctx, query, domain.BookingStatusPending, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.StudentID, &b.PropertyID, &b.RoomTypeID, &b.StartDate, &b.EndDate, &b.Status, &b.RejectionReason, &b.LeaveReason, &b.Version, &b.CreatedOn, &b.UpdatedOn); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
