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

type agreementRepository struct {
	db *sql.DB
}

func NewAgreementRepository(db *sql.DB) repository.AgreementRepository {
	return &agreementRepository{db: db}
}

const agreementColumns = `id, agreement_number, booking_id, property_id, owner_id, student_id, status,
	owner_signed, owner_signed_at, student_signed, student_signed_at,
	monthly_rent_cents, security_deposit_cents, start_date, end_date, termination_reason, version, created_on, updated_on`

func (r *agreementRepository) Create(ctx context.Context, a *domain.Agreement) error {
	now := time.Now().Format(time.RFC3339)
	query := `INSERT INTO agreements (agreement_number, booking_id, property_id, owner_id, student_id, status,
	            owner_signed, owner_signed_at, student_signed, student_signed_at,
	            monthly_rent_cents, security_deposit_cents, start_date, end_date, termination_reason, version, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18) RETURNING id`
	a.Version = 1
	return r.db.QueryRowContext(ctx, query,
		a.AgreementNumber, a.BookingID, a.PropertyID, a.OwnerID, a.StudentID, a.Status,
		a.OwnerSignature.Signed, a.OwnerSignature.SignedAt, a.StudentSignature.Signed, a.StudentSignature.SignedAt,
		a.MonthlyRentCents, a.SecurityDepositCents, a.StartDate, a.EndDate, a.TerminationReason, a.Version, now, now,
	).Scan(&a.ID)
}

func (r *agreementRepository) GetByID(ctx context.Context, id int32) (*domain.Agreement, error) {
	query := `SELECT ` + agreementColumns + ` FROM agreements WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *agreementRepository) GetCurrentByBookingID(ctx context.Context, bookingID int32) (*domain.Agreement, error) {
	query := `SELECT ` + agreementColumns + ` FROM agreements WHERE booking_id = $1 AND status != $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, bookingID, domain.AgreementStatusCancelled))
}

func (r *agreementRepository) scanOne(row *sql.Row) (*domain.Agreement, error) {
	a := &domain.Agreement{}
	err := row.Scan(
		&a.ID, &a.AgreementNumber, &a.BookingID, &a.PropertyID, &a.OwnerID, &a.StudentID, &a.Status,
		&a.OwnerSignature.Signed, &a.OwnerSignature.SignedAt, &a.StudentSignature.Signed, &a.StudentSignature.SignedAt,
		&a.MonthlyRentCents, &a.SecurityDepositCents, &a.StartDate, &a.EndDate, &a.TerminationReason, &a.Version, &a.CreatedOn, &a.UpdatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Update matches on the version the caller read; a lost race surfaces as
// ErrConflict. Rows are never deleted, so status plus signatures is the
// whole mutable surface.
func (r *agreementRepository) Update(ctx context.Context, a *domain.Agreement) error {
	query := `UPDATE agreements SET status=$1, owner_signed=$2, owner_signed_at=$3, student_signed=$4, student_signed_at=$5,
	            termination_reason=$6, version=version+1, updated_on=$7
	          WHERE id=$8 AND version=$9`
	res, err := r.db.ExecContext(ctx, query,
		a.Status, a.OwnerSignature.Signed, a.OwnerSignature.SignedAt, a.StudentSignature.Signed, a.StudentSignature.SignedAt,
		a.TerminationReason, time.Now().Format(time.RFC3339), a.ID, a.Version,
	)
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
	a.Version++
	return nil
}

func (r *agreementRepository) ListByParty(ctx context.Context, userID int32, party domain.Party, status string, page, pageSize int32) ([]domain.Agreement, int32, error) {
	column := "student_id"
	if party == domain.PartyOwner {
		column = "owner_id"
	}

	offset := (page - 1) * pageSize
	sqlStr := `SELECT ` + agreementColumns + ` FROM agreements WHERE ` + column + ` = $1`

	args := []interface{}{userID}
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

	agreements, err := scanAgreements(rows)
	if err != nil {
		return nil, 0, err
	}
	return agreements, count, nil
}

func (r *agreementRepository) ListActiveEndingBefore(ctx context.Context, date string) ([]domain.Agreement, error) {
	query := `SELECT ` + agreementColumns + ` FROM agreements WHERE status = $1 AND end_date < $2`
	rows, err := r.db.QueryContext(ctx, query, domain.AgreementStatusActive, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAgreements(rows)
}

func scanAgreements(rows *sql.Rows) ([]domain.Agreement, error) {
	var agreements []domain.Agreement
	for rows.Next() {
		var a domain.Agreement
		if err := rows.Scan(
			&a.ID, &a.AgreementNumber, &a.BookingID, &a.PropertyID, &a.OwnerID, &a.StudentID, &a.Status,
			&a.OwnerSignature.Signed, &a.OwnerSignature.SignedAt, &a.StudentSignature.Signed, &a.StudentSignature.SignedAt,
			&a.MonthlyRentCents, &a.SecurityDepositCents, &a.StartDate, &a.EndDate, &a.TerminationReason, &a.Version, &a.CreatedOn, &a.UpdatedOn,
		); err != nil {
			return nil, err
		}
		agreements = append(agreements, a)
	}
	return agreements, rows.Err()
}
