package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostelhub-backend/internal/domain"
)

func confirmedAgreement(t *testing.T, e *env, signOrder domain.SignOrder) (*domain.User, *domain.User, *domain.Agreement) {
	t.Helper()
	ctx := context.Background()
	owner := e.seedUser(t, domain.UserRoleOwner, "owner@test.com")
	student := e.seedUser(t, domain.UserRoleStudent, "student@test.com")
	prop := e.seedProperty(t, owner.ID, signOrder)
	rt := e.seedRoomType(t, prop.ID, 1)
	booking := e.seedPendingBooking(t, student.ID, prop.ID, rt.ID)

	_, err := e.coordinator.ConfirmBooking(ctx, actorFor(owner), booking.ID)
	require.NoError(t, err)
	agr, err := e.agreements.GetCurrentByBookingID(ctx, booking.ID)
	require.NoError(t, err)
	return owner, student, agr
}

func TestSignAgreement(t *testing.T) {
	ctx := context.Background()

	t.Run("First signature moves draft to pending", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		owner, _, agr := confirmedAgreement(t, e, domain.SignOrderAny)

		signed, err := e.agreementSvc.SignAgreement(ctx, actorFor(owner), agr.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.AgreementStatusPendingStudent, signed.Status)
		assert.True(t, signed.OwnerSignature.Signed)
		assert.NotNil(t, signed.OwnerSignature.SignedAt)
		assert.False(t, signed.StudentSignature.Signed)
		assert.Equal(t, 1, e.email.count("agreement_signed_awaiting"),
			"the unsigned counterparty is told their signature is still needed")
	})

	t.Run("Second signature activates the agreement", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		owner, student, agr := confirmedAgreement(t, e, domain.SignOrderAny)

		_, err := e.agreementSvc.SignAgreement(ctx, actorFor(student), agr.ID)
		require.NoError(t, err)
		signed, err := e.agreementSvc.SignAgreement(ctx, actorFor(owner), agr.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.AgreementStatusActive, signed.Status)
		assert.True(t, signed.FullySigned())
		assert.Equal(t, 1, e.email.count("agreement_active"))
		assert.Equal(t, 1, e.email.count("agreement_signed_awaiting"), "only the first signature leaves one outstanding")
		assert.Equal(t, 1, e.email.count("agreement_signed"), "the activating signature does not ask for another")
	})

	t.Run("Re-sign is a no-op reporting already signed", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		owner, _, agr := confirmedAgreement(t, e, domain.SignOrderAny)

		first, err := e.agreementSvc.SignAgreement(ctx, actorFor(owner), agr.ID)
		require.NoError(t, err)
		firstSignedAt := *first.OwnerSignature.SignedAt

		again, err := e.agreementSvc.SignAgreement(ctx, actorFor(owner), agr.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadySigned)
		require.NotNil(t, again)
		assert.Equal(t, first.Status, again.Status)
		assert.Equal(t, firstSignedAt, *again.OwnerSignature.SignedAt, "signing timestamp must not move")
	})

	t.Run("Stranger cannot sign", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		_, _, agr := confirmedAgreement(t, e, domain.SignOrderAny)
		stranger := e.seedUser(t, domain.UserRoleStudent, "stranger@test.com")

		_, err := e.agreementSvc.SignAgreement(ctx, actorFor(stranger), agr.ID)
		assert.ErrorIs(t, err, domain.ErrWrongParty)
	})

	t.Run("Owner-first order blocks the student", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		owner, student, agr := confirmedAgreement(t, e, domain.SignOrderOwnerFirst)

		_, err := e.agreementSvc.SignAgreement(ctx, actorFor(student), agr.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		_, err = e.agreementSvc.SignAgreement(ctx, actorFor(owner), agr.ID)
		require.NoError(t, err)
		signed, err := e.agreementSvc.SignAgreement(ctx, actorFor(student), agr.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.AgreementStatusActive, signed.Status)
	})

	t.Run("Student-first order blocks the owner", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		owner, student, agr := confirmedAgreement(t, e, domain.SignOrderStudentFirst)

		_, err := e.agreementSvc.SignAgreement(ctx, actorFor(owner), agr.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		_, err = e.agreementSvc.SignAgreement(ctx, actorFor(student), agr.ID)
		require.NoError(t, err)
	})

	t.Run("Terminal agreement cannot be signed", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		owner, student, agr := confirmedAgreement(t, e, domain.SignOrderAny)

		// Owner cancels the confirmed booking, cancelling the draft.
		b, err := e.agreements.GetByID(ctx, agr.ID)
		require.NoError(t, err)
		_, err = e.coordinator.CancelBooking(ctx, actorFor(owner), b.BookingID, "room gone")
		require.NoError(t, err)

		_, err = e.agreementSvc.SignAgreement(ctx, actorFor(student), agr.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestAgreementReads(t *testing.T) {
	ctx := context.Background()

	t.Run("Parties and admin may read, strangers may not", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		owner, student, agr := confirmedAgreement(t, e, domain.SignOrderAny)
		stranger := e.seedUser(t, domain.UserRoleStudent, "stranger@test.com")
		admin := domain.Actor{ID: 999, Role: domain.UserRoleAdmin}

		_, err := e.agreementSvc.GetAgreement(ctx, actorFor(owner), agr.ID)
		assert.NoError(t, err)
		_, err = e.agreementSvc.GetAgreement(ctx, actorFor(student), agr.ID)
		assert.NoError(t, err)
		_, err = e.agreementSvc.GetAgreement(ctx, admin, agr.ID)
		assert.NoError(t, err)
		_, err = e.agreementSvc.GetAgreement(ctx, actorFor(stranger), agr.ID)
		assert.ErrorIs(t, err, domain.ErrWrongParty)
	})

	t.Run("ListMyAgreements filters by party", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		owner, student, _ := confirmedAgreement(t, e, domain.SignOrderAny)

		mine, total, err := e.agreementSvc.ListMyAgreements(ctx, actorFor(student), "", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int32(1), total)
		require.Len(t, mine, 1)
		assert.Equal(t, student.ID, mine[0].StudentID)

		theirs, total, err := e.agreementSvc.ListMyAgreements(ctx, actorFor(owner), "", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int32(1), total)
		assert.Equal(t, owner.ID, theirs[0].OwnerID)
	})
}
