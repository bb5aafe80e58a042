package service

import (
	"context"
	"fmt"

	"hostelhub-backend/internal/domain"
	"hostelhub-backend/internal/logger"
	"hostelhub-backend/internal/repository"
)

// Notifier emits lifecycle events to the parties involved: an in-app
// notification row plus an email per recipient. Delivery is fire and
// forget; a failed notification is logged and never rolls back the state
// transition that produced it.
type Notifier struct {
	noteRepo repository.NotificationRepository
	userRepo repository.UserRepository
	emailSvc EmailService
}

func NewNotifier(noteRepo repository.NotificationRepository, userRepo repository.UserRepository, emailSvc EmailService) *Notifier {
	return &Notifier{
		noteRepo: noteRepo,
		userRepo: userRepo,
		emailSvc: emailSvc,
	}
}

func (n *Notifier) notify(ctx context.Context, userID int32, event, title, message string, attrs map[string]string) {
	if attrs == nil {
		attrs = map[string]string{}
	}
	attrs["event"] = event

	note := &domain.Notification{
		UserID:     userID,
		Title:      title,
		Message:    message,
		Attributes: attrs,
	}
	if err := n.noteRepo.Create(ctx, note); err != nil {
		logger.ErrorContext(ctx, "Failed to store notification", "event", event, "user_id", userID, "error", err)
	}
}

func (n *Notifier) user(ctx context.Context, id int32) *domain.User {
	u, err := n.userRepo.GetByID(ctx, id)
	if err != nil {
		logger.WarnContext(ctx, "Notification recipient lookup failed", "user_id", id, "error", err)
		return nil
	}
	return u
}

func (n *Notifier) email(ctx context.Context, event string, send func() error) {
	if err := send(); err != nil {
		logger.ErrorContext(ctx, "Failed to send notification email", "event", event, "error", err)
	}
}

// BookingRequested alerts the property owner that a new request is waiting.
func (n *Notifier) BookingRequested(ctx context.Context, b *domain.Booking, ownerID int32, propertyName string) {
	student := n.user(ctx, b.StudentID)
	studentName := "A student"
	if student != nil {
		studentName = student.Name
	}
	n.notify(ctx, ownerID, "booking.requested", "New Booking Request",
		fmt.Sprintf("%s requested a room at %s", studentName, propertyName),
		map[string]string{"booking_id": fmt.Sprintf("%d", b.ID)})
}

func (n *Notifier) BookingConfirmed(ctx context.Context, b *domain.Booking, propertyName string) {
	n.notify(ctx, b.StudentID, domain.EventBookingConfirmed, "Booking Confirmed",
		fmt.Sprintf("Your booking at %s was confirmed", propertyName),
		map[string]string{"booking_id": fmt.Sprintf("%d", b.ID)})
	if student := n.user(ctx, b.StudentID); student != nil {
		n.email(ctx, domain.EventBookingConfirmed, func() error {
			return n.emailSvc.SendBookingConfirmed(ctx, student.Email, student.Name, propertyName)
		})
	}
}

func (n *Notifier) BookingRejected(ctx context.Context, b *domain.Booking, propertyName, reason string) {
	n.notify(ctx, b.StudentID, domain.EventBookingRejected, "Booking Rejected",
		fmt.Sprintf("Your booking request at %s was rejected", propertyName),
		map[string]string{"booking_id": fmt.Sprintf("%d", b.ID)})
	if student := n.user(ctx, b.StudentID); student != nil {
		n.email(ctx, domain.EventBookingRejected, func() error {
			return n.emailSvc.SendBookingRejected(ctx, student.Email, student.Name, propertyName, reason)
		})
	}
}

// BookingCancelled alerts the owner that the student withdrew or left.
func (n *Notifier) BookingCancelled(ctx context.Context, b *domain.Booking, ownerID int32, propertyName, reason string) {
	msg := fmt.Sprintf("Booking #%d at %s was cancelled", b.ID, propertyName)
	if reason != "" {
		msg += ": " + reason
	}
	n.notify(ctx, ownerID, "booking.cancelled", "Booking Cancelled", msg,
		map[string]string{"booking_id": fmt.Sprintf("%d", b.ID)})
}

func (n *Notifier) AgreementOpened(ctx context.Context, a *domain.Agreement, propertyName string) {
	attrs := map[string]string{"agreement_id": fmt.Sprintf("%d", a.ID), "agreement_number": a.AgreementNumber}
	for _, userID := range []int32{a.OwnerID, a.StudentID} {
		n.notify(ctx, userID, domain.EventAgreementOpened, "Agreement Ready",
			fmt.Sprintf("Rental agreement %s is ready for signature", a.AgreementNumber), attrs)
		if u := n.user(ctx, userID); u != nil {
			n.email(ctx, domain.EventAgreementOpened, func() error {
				return n.emailSvc.SendAgreementOpened(ctx, u.Email, u.Name, a.AgreementNumber, propertyName)
			})
		}
	}
}

// AgreementSigned alerts the counterparty that the other side has signed.
func (n *Notifier) AgreementSigned(ctx context.Context, a *domain.Agreement, signedBy domain.Party) {
	recipient := otherParty(signedBy)
	recipientID := a.OwnerID
	if recipient == domain.PartyStudent {
		recipientID = a.StudentID
	}
	awaiting := !a.SignatureFor(recipient).Signed
	n.notify(ctx, recipientID, domain.EventAgreementSigned, "Agreement Signed",
		fmt.Sprintf("The %s signed agreement %s", signedBy, a.AgreementNumber),
		map[string]string{"agreement_id": fmt.Sprintf("%d", a.ID), "party": string(signedBy)})
	if u := n.user(ctx, recipientID); u != nil {
		n.email(ctx, domain.EventAgreementSigned, func() error {
			return n.emailSvc.SendAgreementSigned(ctx, u.Email, u.Name, a.AgreementNumber, string(signedBy), awaiting)
		})
	}
}

func (n *Notifier) AgreementActive(ctx context.Context, a *domain.Agreement) {
	attrs := map[string]string{"agreement_id": fmt.Sprintf("%d", a.ID), "agreement_number": a.AgreementNumber}
	for _, userID := range []int32{a.OwnerID, a.StudentID} {
		n.notify(ctx, userID, domain.EventAgreementActive, "Agreement Active",
			fmt.Sprintf("Agreement %s is now active", a.AgreementNumber), attrs)
		if u := n.user(ctx, userID); u != nil {
			n.email(ctx, domain.EventAgreementActive, func() error {
				return n.emailSvc.SendAgreementActive(ctx, u.Email, u.Name, a.AgreementNumber)
			})
		}
	}
}

func (n *Notifier) AgreementTerminated(ctx context.Context, a *domain.Agreement, reason string) {
	attrs := map[string]string{"agreement_id": fmt.Sprintf("%d", a.ID), "agreement_number": a.AgreementNumber}
	for _, userID := range []int32{a.OwnerID, a.StudentID} {
		n.notify(ctx, userID, domain.EventAgreementTerminated, "Agreement Terminated",
			fmt.Sprintf("Agreement %s was terminated", a.AgreementNumber), attrs)
		if u := n.user(ctx, userID); u != nil {
			n.email(ctx, domain.EventAgreementTerminated, func() error {
				return n.emailSvc.SendAgreementTerminated(ctx, u.Email, u.Name, a.AgreementNumber, reason)
			})
		}
	}
}

// AgreementCancelled covers the administrative cancel of a never-activated
// agreement; in-app only, no email.
func (n *Notifier) AgreementCancelled(ctx context.Context, a *domain.Agreement) {
	attrs := map[string]string{"agreement_id": fmt.Sprintf("%d", a.ID), "agreement_number": a.AgreementNumber}
	for _, userID := range []int32{a.OwnerID, a.StudentID} {
		n.notify(ctx, userID, domain.EventAgreementCancelled, "Agreement Cancelled",
			fmt.Sprintf("Agreement %s was cancelled before activation", a.AgreementNumber), attrs)
	}
}
