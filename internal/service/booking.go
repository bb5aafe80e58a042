package service

import (
	"context"
	"fmt"

	"hostelhub-backend/internal/domain"
	"hostelhub-backend/internal/logger"
	"hostelhub-backend/internal/metrics"
	"hostelhub-backend/internal/repository"
	"hostelhub-backend/internal/utils"
)

// bookingService handles the single-entity booking operations. Anything
// that also touches the ledger or the agreement goes through the
// Coordinator.
type bookingService struct {
	bookings    repository.BookingRepository
	properties  repository.PropertyRepository
	roomTypes   repository.RoomTypeRepository
	coordinator *Coordinator
	notifier    *Notifier
}

func NewBookingService(
	bookings repository.BookingRepository,
	properties repository.PropertyRepository,
	roomTypes repository.RoomTypeRepository,
	coordinator *Coordinator,
	notifier *Notifier,
) BookingService {
	return &bookingService{
		bookings:    bookings,
		properties:  properties,
		roomTypes:   roomTypes,
		coordinator: coordinator,
		notifier:    notifier,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, actor domain.Actor, propertyID, roomTypeID int32, startDate, endDate string) (*domain.Booking, error) {
	if actor.Role != domain.UserRoleStudent {
		return nil, fmt.Errorf("only students can request bookings: %w", domain.ErrWrongParty)
	}

	start, err := utils.ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, fmt.Errorf("end date %s must be after start date %s", endDate, startDate)
	}

	prop, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	rt, err := s.roomTypes.GetByID(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}
	if rt.PropertyID != propertyID {
		return nil, fmt.Errorf("room type %d does not belong to property %d: %w", roomTypeID, propertyID, domain.ErrNotFound)
	}

	b := &domain.Booking{
		StudentID:  actor.ID,
		PropertyID: propertyID,
		RoomTypeID: roomTypeID,
		StartDate:  startDate,
		EndDate:    endDate,
		Status:     domain.BookingStatusPending,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	s.notifier.BookingRequested(ctx, b, prop.OwnerID, prop.Name)
	logger.InfoContext(ctx, "Booking created",
		"booking_id", b.ID, "student_id", b.StudentID, "room_type_id", b.RoomTypeID)
	return b, nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, actor domain.Actor, bookingID int32) (*domain.Booking, error) {
	return s.coordinator.ConfirmBooking(ctx, actor, bookingID)
}

// RejectBooking declines a pending booking. No capacity is held at this
// point, so the transition stays inside the booking machine.
func (s *bookingService) RejectBooking(ctx context.Context, actor domain.Actor, bookingID int32, reason string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	prop, err := s.properties.GetByID(ctx, b.PropertyID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != prop.OwnerID {
		return nil, fmt.Errorf("reject booking %d: %w", bookingID, domain.ErrWrongParty)
	}
	if b.Status != domain.BookingStatusPending {
		return nil, fmt.Errorf("reject booking in status %s: %w", b.Status, domain.ErrInvalidTransition)
	}

	b.Status = domain.BookingStatusRejected
	b.RejectionReason = reason
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	s.notifier.BookingRejected(ctx, b, prop.Name, reason)
	logger.InfoContext(ctx, "Booking rejected", "booking_id", b.ID, "reason", reason)
	return b, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, actor domain.Actor, bookingID int32, reason string) (*domain.Booking, error) {
	return s.coordinator.CancelBooking(ctx, actor, bookingID, reason)
}

func (s *bookingService) LeaveRoom(ctx context.Context, actor domain.Actor, bookingID int32, reason string) (*domain.Booking, error) {
	return s.coordinator.LeaveRoom(ctx, actor, bookingID, reason)
}

func (s *bookingService) GetBooking(ctx context.Context, actor domain.Actor, bookingID int32) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, actor, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, actor domain.Actor, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookings.ListByStudent(ctx, actor.ID, status, page, pageSize)
}

func (s *bookingService) ListPropertyBookings(ctx context.Context, actor domain.Actor, propertyID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	prop, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, 0, err
	}
	if !actor.IsAdmin() && actor.ID != prop.OwnerID {
		return nil, 0, fmt.Errorf("list bookings for property %d: %w", propertyID, domain.ErrWrongParty)
	}
	return s.bookings.ListByProperty(ctx, propertyID, status, page, pageSize)
}

func (s *bookingService) authorizeRead(ctx context.Context, actor domain.Actor, b *domain.Booking) error {
	if actor.IsAdmin() || actor.ID == b.StudentID {
		return nil
	}
	prop, err := s.properties.GetByID(ctx, b.PropertyID)
	if err != nil {
		return err
	}
	if actor.ID != prop.OwnerID {
		return fmt.Errorf("booking %d: %w", b.ID, domain.ErrWrongParty)
	}
	return nil
}
