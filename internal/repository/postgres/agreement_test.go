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

func agreementRows(status string, signedAt *time.Time) *sqlmock.Rows {
	now := time.Now().Format(time.RFC3339)
	return sqlmock.NewRows([]string{
		"id", "agreement_number", "booking_id", "property_id", "owner_id", "student_id", "status",
		"owner_signed", "owner_signed_at", "student_signed", "student_signed_at",
		"monthly_rent_cents", "security_deposit_cents", "start_date", "end_date", "termination_reason", "version", "created_on", "updated_on",
	}).AddRow(4, "AGR-2026-5f3a8c12", 7, 1, 10, 20, status,
		signedAt != nil, signedAt, false, nil,
		500000, 1000000, "2026-09-01", "2027-05-31", "", 1, now, now)
}

func TestAgreementRepository_GetCurrentByBookingID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAgreementRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM agreements WHERE booking_id = \\$1 AND status != \\$2").
			WithArgs(int32(7), domain.AgreementStatusCancelled).
			WillReturnRows(agreementRows("draft", nil))

		agr, err := repo.GetCurrentByBookingID(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, domain.AgreementStatusDraft, agr.Status)
		assert.Equal(t, int32(7), agr.BookingID)
		assert.False(t, agr.OwnerSignature.Signed)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM agreements WHERE booking_id = \\$1 AND status != \\$2").
			WithArgs(int32(8), domain.AgreementStatusCancelled).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetCurrentByBookingID(ctx, 8)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAgreementRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAgreementRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		agr := &domain.Agreement{
			AgreementNumber:      "AGR-2026-5f3a8c12",
			BookingID:            7,
			PropertyID:           1,
			OwnerID:              10,
			StudentID:            20,
			Status:               domain.AgreementStatusDraft,
			MonthlyRentCents:     500000,
			SecurityDepositCents: 1000000,
			StartDate:            "2026-09-01",
			EndDate:              "2027-05-31",
		}

		mock.ExpectQuery("INSERT INTO agreements").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

		err := repo.Create(ctx, agr)
		assert.NoError(t, err)
		assert.Equal(t, int32(4), agr.ID)
		assert.Equal(t, int32(1), agr.Version)
	})
}

func TestAgreementRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAgreementRepository(db)
	ctx := context.Background()

	t.Run("Version match bumps version", func(t *testing.T) {
		now := time.Now()
		agr := &domain.Agreement{
			ID:             4,
			Status:         domain.AgreementStatusPendingStudent,
			OwnerSignature: domain.Signature{Signed: true, SignedAt: &now},
			Version:        1,
		}

		mock.ExpectExec("UPDATE agreements").
			WithArgs(agr.Status, true, &now, false, nil, "", sqlmock.AnyArg(), agr.ID, int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(ctx, agr)
		assert.NoError(t, err)
		assert.Equal(t, int32(2), agr.Version)
	})

	t.Run("Stale version conflicts", func(t *testing.T) {
		agr := &domain.Agreement{ID: 4, Status: domain.AgreementStatusActive, Version: 1}

		mock.ExpectExec("UPDATE agreements").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, agr)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}
