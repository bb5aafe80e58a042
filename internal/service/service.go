package service

import (
	"context"

	"hostelhub-backend/internal/domain"
	"hostelhub-backend/internal/ledger"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, phone, password string, role domain.UserRole) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (string, string, error)
	GetProfile(ctx context.Context, userID int32) (*domain.User, error)
}

type PropertyService interface {
	CreateProperty(ctx context.Context, actor domain.Actor, prop *domain.Property) error
	GetProperty(ctx context.Context, id int32) (*domain.Property, []domain.RoomType, error)
	ListMyProperties(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Property, int32, error)
	SearchProperties(ctx context.Context, city, query string, page, pageSize int32) ([]domain.Property, int32, error)
	AddRoomType(ctx context.Context, actor domain.Actor, rt *domain.RoomType) error
	UpdateRoomType(ctx context.Context, actor domain.Actor, rt *domain.RoomType) error
	RemoveRoomType(ctx context.Context, actor domain.Actor, roomTypeID int32) error
	GetAvailability(ctx context.Context, roomTypeID int32) (ledger.Availability, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, actor domain.Actor, propertyID, roomTypeID int32, startDate, endDate string) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, actor domain.Actor, bookingID int32) (*domain.Booking, error)
	RejectBooking(ctx context.Context, actor domain.Actor, bookingID int32, reason string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, actor domain.Actor, bookingID int32, reason string) (*domain.Booking, error)
	LeaveRoom(ctx context.Context, actor domain.Actor, bookingID int32, reason string) (*domain.Booking, error)
	GetBooking(ctx context.Context, actor domain.Actor, bookingID int32) (*domain.Booking, error)
	ListMyBookings(ctx context.Context, actor domain.Actor, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListPropertyBookings(ctx context.Context, actor domain.Actor, propertyID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type AgreementService interface {
	SignAgreement(ctx context.Context, actor domain.Actor, agreementID int32) (*domain.Agreement, error)
	TerminateAgreement(ctx context.Context, actor domain.Actor, agreementID int32, reason string) (*domain.Agreement, error)
	GetAgreement(ctx context.Context, actor domain.Actor, agreementID int32) (*domain.Agreement, error)
	GetBookingAgreement(ctx context.Context, actor domain.Actor, bookingID int32) (*domain.Agreement, error)
	ListMyAgreements(ctx context.Context, actor domain.Actor, status string, page, pageSize int32) ([]domain.Agreement, int32, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendBookingConfirmed(ctx context.Context, email, name, propertyName string) error
	SendBookingRejected(ctx context.Context, email, name, propertyName, reason string) error
	SendAgreementOpened(ctx context.Context, email, name, agreementNumber, propertyName string) error
	SendAgreementSigned(ctx context.Context, email, name, agreementNumber, party string, awaitingRecipient bool) error
	SendAgreementActive(ctx context.Context, email, name, agreementNumber string) error
	SendAgreementTerminated(ctx context.Context, email, name, agreementNumber, reason string) error
}
