package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostelhub-backend/internal/domain"
)

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("Student creates a pending booking", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		owner := e.seedUser(t, domain.UserRoleOwner, "owner@test.com")
		student := e.seedUser(t, domain.UserRoleStudent, "student@test.com")
		prop := e.seedProperty(t, owner.ID, domain.SignOrderAny)
		rt := e.seedRoomType(t, prop.ID, 2)

		b, err := e.bookingSvc.CreateBooking(ctx, actorFor(student), prop.ID, rt.ID, "2026-09-01", "2027-05-31")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusPending, b.Status)
		assert.Equal(t, student.ID, b.StudentID)
		assert.Equal(t, int32(2), e.available(t, rt.ID), "creation holds no capacity")
	})

	t.Run("Owner cannot create bookings", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		owner := e.seedUser(t, domain.UserRoleOwner, "owner@test.com")
		prop := e.seedProperty(t, owner.ID, domain.SignOrderAny)
		rt := e.seedRoomType(t, prop.ID, 2)

		_, err := e.bookingSvc.CreateBooking(ctx, actorFor(owner), prop.ID, rt.ID, "2026-09-01", "2027-05-31")
		assert.ErrorIs(t, err, domain.ErrWrongParty)
	})

	t.Run("End date must be after start date", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		owner := e.seedUser(t, domain.UserRoleOwner, "owner@test.com")
		student := e.seedUser(t, domain.UserRoleStudent, "student@test.com")
		prop := e.seedProperty(t, owner.ID, domain.SignOrderAny)
		rt := e.seedRoomType(t, prop.ID, 2)

		_, err := e.bookingSvc.CreateBooking(ctx, actorFor(student), prop.ID, rt.ID, "2027-05-31", "2026-09-01")
		assert.Error(t, err)

		_, err = e.bookingSvc.CreateBooking(ctx, actorFor(student), prop.ID, rt.ID, "bogus", "2026-09-01")
		assert.Error(t, err)
	})

	t.Run("Room type must belong to the property", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		owner := e.seedUser(t, domain.UserRoleOwner, "owner@test.com")
		student := e.seedUser(t, domain.UserRoleStudent, "student@test.com")
		propA := e.seedProperty(t, owner.ID, domain.SignOrderAny)
		propB := e.seedProperty(t, owner.ID, domain.SignOrderAny)
		rtB := e.seedRoomType(t, propB.ID, 2)

		_, err := e.bookingSvc.CreateBooking(ctx, actorFor(student), propA.ID, rtB.ID, "2026-09-01", "2027-05-31")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRejectBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner rejects with a reason", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		owner := e.seedUser(t, domain.UserRoleOwner, "owner@test.com")
		student := e.seedUser(t, domain.UserRoleStudent, "student@test.com")
		prop := e.seedProperty(t, owner.ID, domain.SignOrderAny)
		rt := e.seedRoomType(t, prop.ID, 1)
		booking := e.seedPendingBooking(t, student.ID, prop.ID, rt.ID)

		rejected, err := e.bookingSvc.RejectBooking(ctx, actorFor(owner), booking.ID, "references missing")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusRejected, rejected.Status)
		assert.Equal(t, "references missing", rejected.RejectionReason)
		assert.Equal(t, int32(1), e.available(t, rt.ID))
		assert.Equal(t, 1, e.email.count("booking_rejected"))
	})

	t.Run("Only the owner may reject", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		owner := e.seedUser(t, domain.UserRoleOwner, "owner@test.com")
		student := e.seedUser(t, domain.UserRoleStudent, "student@test.com")
		prop := e.seedProperty(t, owner.ID, domain.SignOrderAny)
		rt := e.seedRoomType(t, prop.ID, 1)
		booking := e.seedPendingBooking(t, student.ID, prop.ID, rt.ID)

		_, err := e.bookingSvc.RejectBooking(ctx, actorFor(student), booking.ID, "self-reject")
		assert.ErrorIs(t, err, domain.ErrWrongParty)
	})

	t.Run("Reject of confirmed booking rejected", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		owner := e.seedUser(t, domain.UserRoleOwner, "owner@test.com")
		student := e.seedUser(t, domain.UserRoleStudent, "student@test.com")
		prop := e.seedProperty(t, owner.ID, domain.SignOrderAny)
		rt := e.seedRoomType(t, prop.ID, 1)
		booking := e.seedPendingBooking(t, student.ID, prop.ID, rt.ID)

		_, err := e.coordinator.ConfirmBooking(ctx, actorFor(owner), booking.ID)
		require.NoError(t, err)

		_, err = e.bookingSvc.RejectBooking(ctx, actorFor(owner), booking.ID, "too late")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestBookingReads(t *testing.T) {
	ctx := context.Background()

	t.Run("Student, owner and admin may read", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		owner := e.seedUser(t, domain.UserRoleOwner, "owner@test.com")
		student := e.seedUser(t, domain.UserRoleStudent, "student@test.com")
		stranger := e.seedUser(t, domain.UserRoleStudent, "stranger@test.com")
		prop := e.seedProperty(t, owner.ID, domain.SignOrderAny)
		rt := e.seedRoomType(t, prop.ID, 1)
		booking := e.seedPendingBooking(t, student.ID, prop.ID, rt.ID)

		_, err := e.bookingSvc.GetBooking(ctx, actorFor(student), booking.ID)
		assert.NoError(t, err)
		_, err = e.bookingSvc.GetBooking(ctx, actorFor(owner), booking.ID)
		assert.NoError(t, err)
		_, err = e.bookingSvc.GetBooking(ctx, domain.Actor{ID: 999, Role: domain.UserRoleAdmin}, booking.ID)
		assert.NoError(t, err)
		_, err = e.bookingSvc.GetBooking(ctx, actorFor(stranger), booking.ID)
		assert.ErrorIs(t, err, domain.ErrWrongParty)
	})

	t.Run("Property bookings list is owner-only", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		owner := e.seedUser(t, domain.UserRoleOwner, "owner@test.com")
		student := e.seedUser(t, domain.UserRoleStudent, "student@test.com")
		prop := e.seedProperty(t, owner.ID, domain.SignOrderAny)
		rt := e.seedRoomType(t, prop.ID, 1)
		e.seedPendingBooking(t, student.ID, prop.ID, rt.ID)

		bookings, total, err := e.bookingSvc.ListPropertyBookings(ctx, actorFor(owner), prop.ID, "", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int32(1), total)
		assert.Len(t, bookings, 1)

		_, _, err = e.bookingSvc.ListPropertyBookings(ctx, actorFor(student), prop.ID, "", 1, 10)
		assert.ErrorIs(t, err, domain.ErrWrongParty)
	})

	t.Run("Status filter on my bookings", func(t *testing.T) {
		e := newEnv(t, envOpts{})
		owner := e.seedUser(t, domain.UserRoleOwner, "owner@test.com")
		student := e.seedUser(t, domain.UserRoleStudent, "student@test.com")
		prop := e.seedProperty(t, owner.ID, domain.SignOrderAny)
		rt := e.seedRoomType(t, prop.ID, 2)
		b1 := e.seedPendingBooking(t, student.ID, prop.ID, rt.ID)
		e.seedPendingBooking(t, student.ID, prop.ID, rt.ID)

		_, err := e.coordinator.ConfirmBooking(ctx, actorFor(owner), b1.ID)
		require.NoError(t, err)

		pending, total, err := e.bookingSvc.ListMyBookings(ctx, actorFor(student), string(domain.BookingStatusPending), 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int32(1), total)
		require.Len(t, pending, 1)
		assert.Equal(t, domain.BookingStatusPending, pending[0].Status)
	})
}
