package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hostelhub-backend/internal/domain"
	"hostelhub-backend/internal/ledger"
	"hostelhub-backend/internal/logger"
	"hostelhub-backend/internal/metrics"
	"hostelhub-backend/internal/repository"
	"hostelhub-backend/internal/utils"
)

// Coordinator orchestrates every transition that touches more than one of
// the booking machine, the agreement machine and the inventory ledger. It
// is the only writer allowed to cross those boundaries; single-entity
// operations stay in their own services.
type Coordinator struct {
	bookings   repository.BookingRepository
	agreements repository.AgreementRepository
	roomTypes  repository.RoomTypeRepository
	properties repository.PropertyRepository
	rooms      *ledger.Ledger
	notifier   *Notifier

	// autoRejectOnCapacity flips the confirm policy when no rooms are
	// left: false keeps the booking Pending for a later retry, true moves
	// it straight to Rejected.
	autoRejectOnCapacity bool
}

func NewCoordinator(
	bookings repository.BookingRepository,
	agreements repository.AgreementRepository,
	roomTypes repository.RoomTypeRepository,
	properties repository.PropertyRepository,
	rooms *ledger.Ledger,
	notifier *Notifier,
	autoRejectOnCapacity bool,
) *Coordinator {
	return &Coordinator{
		bookings:             bookings,
		agreements:           agreements,
		roomTypes:            roomTypes,
		properties:           properties,
		rooms:                rooms,
		notifier:             notifier,
		autoRejectOnCapacity: autoRejectOnCapacity,
	}
}

// ConfirmBooking drives Pending -> Confirmed: reserve one room, flip the
// booking, open the agreement. If any later step fails the earlier ones
// are compensated so no reservation leaks.
func (c *Coordinator) ConfirmBooking(ctx context.Context, actor domain.Actor, bookingID int32) (*domain.Booking, error) {
	b, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	prop, err := c.properties.GetByID(ctx, b.PropertyID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != prop.OwnerID {
		return nil, fmt.Errorf("confirm booking %d: %w", bookingID, domain.ErrWrongParty)
	}

	if b.Status != domain.BookingStatusPending {
		return nil, fmt.Errorf("confirm booking in status %s: %w", b.Status, domain.ErrInvalidTransition)
	}

	// A surviving agreement for this booking means a previous confirm
	// already went through.
	if _, err := c.agreements.GetCurrentByBookingID(ctx, bookingID); err == nil {
		return nil, fmt.Errorf("booking %d already has an agreement: %w", bookingID, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if err := c.rooms.Reserve(ctx, b.RoomTypeID, 1); err != nil {
		if errors.Is(err, domain.ErrOutOfCapacity) {
			metrics.CapacityRejections.Inc()
			return c.handleCapacityRejection(ctx, b, prop, err)
		}
		return nil, err
	}

	b.Status = domain.BookingStatusConfirmed
	if err := c.bookings.Update(ctx, b); err != nil {
		c.compensateRelease(ctx, b.RoomTypeID, "booking update failed after reserve", "booking_id", b.ID)
		return nil, fmt.Errorf("confirm booking %d: %w", bookingID, err)
	}

	agr, err := c.openAgreement(ctx, b, prop)
	if err != nil {
		// Compensating action: give the room back and put the booking
		// back to Pending so the confirm can be retried.
		c.compensateRelease(ctx, b.RoomTypeID, "agreement open failed after confirm", "booking_id", b.ID)
		b.Status = domain.BookingStatusPending
		if revertErr := c.bookings.Update(ctx, b); revertErr != nil {
			logger.ErrorContext(ctx, "Failed to revert booking after agreement open failure",
				"booking_id", b.ID, "error", revertErr)
		}
		return nil, fmt.Errorf("open agreement for booking %d: %w", bookingID, err)
	}

	metrics.BookingsConfirmed.Inc()
	c.notifier.BookingConfirmed(ctx, b, prop.Name)
	c.notifier.AgreementOpened(ctx, agr, prop.Name)

	logger.InfoContext(ctx, "Booking confirmed",
		"booking_id", b.ID, "room_type_id", b.RoomTypeID, "agreement_number", agr.AgreementNumber)
	return b, nil
}

func (c *Coordinator) handleCapacityRejection(ctx context.Context, b *domain.Booking, prop *domain.Property, cause error) (*domain.Booking, error) {
	if !c.autoRejectOnCapacity {
		// Policy: leave the booking Pending so the student can retry once
		// capacity frees up.
		return nil, fmt.Errorf("confirm booking %d: %w", b.ID, cause)
	}

	b.Status = domain.BookingStatusRejected
	b.RejectionReason = "no rooms available"
	if err := c.bookings.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("auto-reject booking %d: %w", b.ID, err)
	}
	c.notifier.BookingRejected(ctx, b, prop.Name, b.RejectionReason)
	return nil, fmt.Errorf("confirm booking %d: %w", b.ID, cause)
}

// openAgreement creates the draft agreement for a freshly confirmed
// booking. Terms come from the room type at confirmation time.
func (c *Coordinator) openAgreement(ctx context.Context, b *domain.Booking, prop *domain.Property) (*domain.Agreement, error) {
	rt, err := c.roomTypes.GetByID(ctx, b.RoomTypeID)
	if err != nil {
		return nil, err
	}

	terms, err := utils.CalculateRentTerms(b.StartDate, b.EndDate, rt.PricePerBedCents, rt.SecurityDepositCents)
	if err != nil {
		return nil, err
	}

	agr := &domain.Agreement{
		AgreementNumber:      newAgreementNumber(),
		BookingID:            b.ID,
		PropertyID:           b.PropertyID,
		OwnerID:              prop.OwnerID,
		StudentID:            b.StudentID,
		Status:               domain.AgreementStatusDraft,
		MonthlyRentCents:     terms.MonthlyRentCents,
		SecurityDepositCents: terms.SecurityDepositCents,
		StartDate:            b.StartDate,
		EndDate:              b.EndDate,
	}
	if err := c.agreements.Create(ctx, agr); err != nil {
		return nil, err
	}
	return agr, nil
}

// LeaveRoom ends a confirmed tenancy: release the room, complete the
// booking, terminate or cancel the attached agreement.
func (c *Coordinator) LeaveRoom(ctx context.Context, actor domain.Actor, bookingID int32, reason string) (*domain.Booking, error) {
	b, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != b.StudentID {
		return nil, fmt.Errorf("leave booking %d: %w", bookingID, domain.ErrWrongParty)
	}
	if b.Status != domain.BookingStatusConfirmed {
		return nil, fmt.Errorf("leave booking in status %s: %w", b.Status, domain.ErrInvalidTransition)
	}

	return c.terminateConfirmed(ctx, b, domain.BookingStatusCompleted, reason)
}

// CancelBooking withdraws a booking. Students may cancel while Pending;
// a confirmed booking can be cancelled by the owner or an admin, which
// releases the held room.
func (c *Coordinator) CancelBooking(ctx context.Context, actor domain.Actor, bookingID int32, reason string) (*domain.Booking, error) {
	b, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	prop, err := c.properties.GetByID(ctx, b.PropertyID)
	if err != nil {
		return nil, err
	}

	isStudent := actor.ID == b.StudentID
	isOwner := actor.ID == prop.OwnerID
	if !actor.IsAdmin() && !isStudent && !isOwner {
		return nil, fmt.Errorf("cancel booking %d: %w", bookingID, domain.ErrWrongParty)
	}

	switch b.Status {
	case domain.BookingStatusPending:
		b.Status = domain.BookingStatusCancelled
		b.LeaveReason = reason
		if err := c.bookings.Update(ctx, b); err != nil {
			return nil, err
		}
		if err := c.cancelAttachedAgreement(ctx, b, reason); err != nil {
			return nil, err
		}
		c.notifier.BookingCancelled(ctx, b, prop.OwnerID, prop.Name, reason)
		return b, nil

	case domain.BookingStatusConfirmed:
		// A student who moved in must go through leave; cancellation of a
		// confirmed booking is an owner/admin action.
		if isStudent && !actor.IsAdmin() && !isOwner {
			return nil, fmt.Errorf("confirmed booking must be ended via leave: %w", domain.ErrInvalidTransition)
		}
		b, err := c.terminateConfirmed(ctx, b, domain.BookingStatusCancelled, reason)
		if err != nil {
			return nil, err
		}
		c.notifier.BookingCancelled(ctx, b, prop.OwnerID, prop.Name, reason)
		return b, nil

	default:
		return nil, fmt.Errorf("cancel booking in status %s: %w", b.Status, domain.ErrInvalidTransition)
	}
}

// terminateConfirmed releases the held room exactly once and moves a
// confirmed booking to its terminal status, then forces the attached
// agreement out of any pending state.
func (c *Coordinator) terminateConfirmed(ctx context.Context, b *domain.Booking, to domain.BookingStatus, reason string) (*domain.Booking, error) {
	if err := c.rooms.Release(ctx, b.RoomTypeID, 1); err != nil {
		return nil, fmt.Errorf("release room for booking %d: %w", b.ID, err)
	}

	b.Status = to
	b.LeaveReason = reason
	if err := c.bookings.Update(ctx, b); err != nil {
		// The release already went through; take the room back so the
		// ledger stays in step with the still-confirmed booking.
		if reserveErr := c.rooms.Reserve(ctx, b.RoomTypeID, 1); reserveErr != nil {
			logger.ErrorContext(ctx, "Failed to re-reserve after booking update failure",
				"booking_id", b.ID, "error", reserveErr)
		} else {
			metrics.CompensationsApplied.Inc()
			logger.CompensationApplied(ctx, "re-reserve after failed booking terminate", "booking_id", b.ID)
		}
		return nil, err
	}

	if err := c.cancelAttachedAgreement(ctx, b, reason); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Booking terminated",
		"booking_id", b.ID, "status", b.Status, "room_type_id", b.RoomTypeID)
	return b, nil
}

// cancelAttachedAgreement forces the booking's agreement out of draft or
// pending into cancelled, or out of active into terminated. Terminal
// agreements and bookings without one are an idempotent no-op. A version
// conflict means a signature landed between our read and write; the loop
// re-reads and re-applies, so a cancelled booking can never leave its
// agreement stranded in a pending state. Signatures are finite (at most
// two) and a terminal status is never overwritten, so the loop converges.
func (c *Coordinator) cancelAttachedAgreement(ctx context.Context, b *domain.Booking, reason string) error {
	for {
		agr, err := c.agreements.GetCurrentByBookingID(ctx, b.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load agreement for terminated booking %d: %w", b.ID, err)
		}
		if agr.Status.Terminal() {
			return nil
		}

		wasActive := agr.Status == domain.AgreementStatusActive
		if wasActive {
			agr.Status = domain.AgreementStatusTerminated
			agr.TerminationReason = reason
		} else {
			agr.Status = domain.AgreementStatusCancelled
		}
		if err := c.agreements.Update(ctx, agr); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				logger.InfoContext(ctx, "Retrying agreement cancel after concurrent update",
					"booking_id", b.ID, "agreement_id", agr.ID)
				continue
			}
			return fmt.Errorf("cancel agreement %d for terminated booking %d: %w", agr.ID, b.ID, err)
		}

		if wasActive {
			c.notifier.AgreementTerminated(ctx, agr, reason)
		} else {
			c.notifier.AgreementCancelled(ctx, agr)
		}
		return nil
	}
}

// TerminateAgreement ends an active agreement and completes the booking
// behind it, releasing the held room.
func (c *Coordinator) TerminateAgreement(ctx context.Context, actor domain.Actor, agreementID int32, reason string) (*domain.Agreement, error) {
	agr, err := c.agreements.GetByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		if _, err := agr.PartyOf(actor.ID); err != nil {
			return nil, fmt.Errorf("terminate agreement %d: %w", agreementID, err)
		}
	}
	if agr.Status != domain.AgreementStatusActive {
		return nil, fmt.Errorf("terminate agreement in status %s: %w", agr.Status, domain.ErrInvalidTransition)
	}

	agr.Status = domain.AgreementStatusTerminated
	agr.TerminationReason = reason
	if err := c.agreements.Update(ctx, agr); err != nil {
		return nil, err
	}

	if err := c.completeBooking(ctx, agr.BookingID, reason); err != nil {
		return nil, err
	}

	c.notifier.AgreementTerminated(ctx, agr, reason)
	logger.InfoContext(ctx, "Agreement terminated", "agreement_id", agr.ID, "reason", reason)
	return agr, nil
}

// ExpireAgreement is the system-driven active -> expired transition once
// the end date has passed. Safe to call repeatedly.
func (c *Coordinator) ExpireAgreement(ctx context.Context, agreementID int32) (*domain.Agreement, error) {
	agr, err := c.agreements.GetByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}
	if agr.Status == domain.AgreementStatusExpired {
		return agr, nil
	}
	if agr.Status != domain.AgreementStatusActive {
		return nil, fmt.Errorf("expire agreement in status %s: %w", agr.Status, domain.ErrInvalidTransition)
	}

	agr.Status = domain.AgreementStatusExpired
	if err := c.agreements.Update(ctx, agr); err != nil {
		return nil, err
	}
	metrics.AgreementsExpired.Inc()

	if err := c.completeBooking(ctx, agr.BookingID, "agreement expired"); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Agreement expired", "agreement_id", agr.ID, "agreement_number", agr.AgreementNumber)
	return agr, nil
}

// completeBooking finishes a still-confirmed booking after its agreement
// reached a terminal state, returning the room to the pool. A booking
// that already left is a no-op.
func (c *Coordinator) completeBooking(ctx context.Context, bookingID int32, reason string) error {
	b, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.Status != domain.BookingStatusConfirmed {
		return nil
	}

	if err := c.rooms.Release(ctx, b.RoomTypeID, 1); err != nil {
		return fmt.Errorf("release room for booking %d: %w", b.ID, err)
	}
	b.Status = domain.BookingStatusCompleted
	b.LeaveReason = reason
	if err := c.bookings.Update(ctx, b); err != nil {
		if reserveErr := c.rooms.Reserve(ctx, b.RoomTypeID, 1); reserveErr != nil {
			logger.ErrorContext(ctx, "Failed to re-reserve after booking completion failure",
				"booking_id", b.ID, "error", reserveErr)
		} else {
			metrics.CompensationsApplied.Inc()
			logger.CompensationApplied(ctx, "re-reserve after failed booking completion", "booking_id", b.ID)
		}
		return err
	}
	return nil
}

func (c *Coordinator) compensateRelease(ctx context.Context, roomTypeID int32, action string, args ...any) {
	if err := c.rooms.Release(ctx, roomTypeID, 1); err != nil {
		logger.ErrorContext(ctx, "Compensating release failed", append([]any{"room_type_id", roomTypeID, "error", err}, args...)...)
		return
	}
	metrics.CompensationsApplied.Inc()
	logger.CompensationApplied(ctx, action, append([]any{"room_type_id", roomTypeID}, args...)...)
}

// newAgreementNumber builds a unique, human-readable agreement number like
// AGR-2026-5f3a8c12.
func newAgreementNumber() string {
	return fmt.Sprintf("AGR-%d-%s", time.Now().Year(), uuid.NewString()[:8])
}
