package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hostelhub-backend/internal/domain"
	"hostelhub-backend/internal/ledger"
	"hostelhub-backend/internal/repository"
	"hostelhub-backend/internal/repository/memory"
)

// stubEmail records sends instead of calling SendGrid.
type stubEmail struct {
	mu    sync.Mutex
	sends []string
}

func (s *stubEmail) record(kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sends = append(s.sends, kind)
	return nil
}

func (s *stubEmail) count(kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, k := range s.sends {
		if k == kind {
			n++
		}
	}
	return n
}

func (s *stubEmail) SendBookingConfirmed(ctx context.Context, email, name, propertyName string) error {
	return s.record("booking_confirmed")
}
func (s *stubEmail) SendBookingRejected(ctx context.Context, email, name, propertyName, reason string) error {
	return s.record("booking_rejected")
}
func (s *stubEmail) SendAgreementOpened(ctx context.Context, email, name, agreementNumber, propertyName string) error {
	return s.record("agreement_opened")
}
func (s *stubEmail) SendAgreementSigned(ctx context.Context, email, name, agreementNumber, party string, awaitingRecipient bool) error {
	if awaitingRecipient {
		return s.record("agreement_signed_awaiting")
	}
	return s.record("agreement_signed")
}
func (s *stubEmail) SendAgreementActive(ctx context.Context, email, name, agreementNumber string) error {
	return s.record("agreement_active")
}
func (s *stubEmail) SendAgreementTerminated(ctx context.Context, email, name, agreementNumber, reason string) error {
	return s.record("agreement_terminated")
}

// failingAgreements wraps an AgreementRepository and fails Create, for
// exercising the compensation path.
type failingAgreements struct {
	repository.AgreementRepository
	createErr error
}

func (f failingAgreements) Create(ctx context.Context, agr *domain.Agreement) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.AgreementRepository.Create(ctx, agr)
}

// signRacingAgreements slips a student signature through the underlying
// repository just before the first terminal-status write, so that write
// loses the version check exactly as a concurrent sign would make it.
type signRacingAgreements struct {
	repository.AgreementRepository
	mu       sync.Mutex
	injected bool
}

func (f *signRacingAgreements) Update(ctx context.Context, agr *domain.Agreement) error {
	f.mu.Lock()
	inject := !f.injected && agr.Status.Terminal()
	if inject {
		f.injected = true
	}
	f.mu.Unlock()

	if inject {
		current, err := f.AgreementRepository.GetByID(ctx, agr.ID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		current.StudentSignature = domain.Signature{Signed: true, SignedAt: &now}
		current.Status = current.SignedStatus()
		if err := f.AgreementRepository.Update(ctx, current); err != nil {
			return err
		}
	}
	return f.AgreementRepository.Update(ctx, agr)
}

// env wires the full service stack over the in-memory store.
type env struct {
	users      memory.UserStore
	properties memory.PropertyStore
	roomTypes  memory.RoomTypeStore
	bookings   memory.BookingStore
	agreements memory.AgreementStore
	notes      memory.NotificationStore

	rooms       *ledger.Ledger
	email       *stubEmail
	notifier    *Notifier
	coordinator *Coordinator

	bookingSvc   BookingService
	agreementSvc AgreementService
}

type envOpts struct {
	autoRejectOnCapacity bool
	agreementCreateErr   error
	signRaceOnCancel     bool
}

func newEnv(t *testing.T, opts envOpts) *env {
	t.Helper()
	store := memory.NewStore()

	e := &env{
		users:      memory.UserStore{Store: store},
		properties: memory.PropertyStore{Store: store},
		roomTypes:  memory.RoomTypeStore{Store: store},
		bookings:   memory.BookingStore{Store: store},
		agreements: memory.AgreementStore{Store: store},
		notes:      memory.NotificationStore{Store: store},
		email:      &stubEmail{},
	}

	var agreements repository.AgreementRepository = e.agreements
	if opts.agreementCreateErr != nil {
		agreements = failingAgreements{AgreementRepository: e.agreements, createErr: opts.agreementCreateErr}
	}
	if opts.signRaceOnCancel {
		agreements = &signRacingAgreements{AgreementRepository: e.agreements}
	}

	e.rooms = ledger.New(e.roomTypes)
	e.notifier = NewNotifier(e.notes, e.users, e.email)
	e.coordinator = NewCoordinator(e.bookings, agreements, e.roomTypes, e.properties, e.rooms, e.notifier, opts.autoRejectOnCapacity)
	e.bookingSvc = NewBookingService(e.bookings, e.properties, e.roomTypes, e.coordinator, e.notifier)
	e.agreementSvc = NewAgreementService(agreements, e.properties, e.coordinator, e.notifier)

	return e
}

func (e *env) seedUser(t *testing.T, role domain.UserRole, email string) *domain.User {
	t.Helper()
	u := &domain.User{Name: "Test " + string(role), Email: email, Role: role}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *env) seedProperty(t *testing.T, ownerID int32, signOrder domain.SignOrder) *domain.Property {
	t.Helper()
	p := &domain.Property{
		OwnerID:   ownerID,
		Name:      "Sunrise Hostel",
		City:      "Pune",
		SignOrder: signOrder,
	}
	require.NoError(t, e.properties.Create(context.Background(), p))
	return p
}

func (e *env) seedRoomType(t *testing.T, propertyID, totalRooms int32) *domain.RoomType {
	t.Helper()
	rt := &domain.RoomType{
		PropertyID:       propertyID,
		Name:             "Twin Sharing",
		TotalRooms:       totalRooms,
		AvailableRooms:   totalRooms,
		MaxOccupancy:     2,
		PricePerBedCents: 500000,
	}
	require.NoError(t, e.roomTypes.Create(context.Background(), rt))
	return rt
}

func (e *env) seedPendingBooking(t *testing.T, studentID, propertyID, roomTypeID int32) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		StudentID:  studentID,
		PropertyID: propertyID,
		RoomTypeID: roomTypeID,
		StartDate:  "2026-09-01",
		EndDate:    "2027-05-31",
		Status:     domain.BookingStatusPending,
	}
	require.NoError(t, e.bookings.Create(context.Background(), b))
	return b
}

func actorFor(u *domain.User) domain.Actor {
	return domain.Actor{ID: u.ID, Role: u.Role}
}

func (e *env) available(t *testing.T, roomTypeID int32) int32 {
	t.Helper()
	avail, err := e.rooms.Availability(context.Background(), roomTypeID)
	require.NoError(t, err)
	return avail.Available
}
