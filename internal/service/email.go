package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendBookingConfirmed(ctx context.Context, email, name, propertyName string) error {
	subject := fmt.Sprintf("Booking confirmed at %s", propertyName)
	body := fmt.Sprintf("Hello %s,\n\nYour booking at %s has been confirmed. A rental agreement has been prepared for signature.\n\nBest regards,\nThe HostelHub Team", name, propertyName)
	return s.send(email, name, subject, body)
}

func (s *emailService) SendBookingRejected(ctx context.Context, email, name, propertyName, reason string) error {
	subject := fmt.Sprintf("Booking request declined - %s", propertyName)
	body := fmt.Sprintf("Hello %s,\n\nYour booking request at %s was declined.", name, propertyName)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe HostelHub Team"
	return s.send(email, name, subject, body)
}

func (s *emailService) SendAgreementOpened(ctx context.Context, email, name, agreementNumber, propertyName string) error {
	subject := fmt.Sprintf("Rental agreement %s ready for signature", agreementNumber)
	body := fmt.Sprintf("Hello %s,\n\nRental agreement %s for %s has been prepared. Please review and sign it to activate your tenancy.\n\nBest regards,\nThe HostelHub Team", name, agreementNumber, propertyName)
	return s.send(email, name, subject, body)
}

func (s *emailService) SendAgreementSigned(ctx context.Context, email, name, agreementNumber, party string, awaitingRecipient bool) error {
	subject := fmt.Sprintf("Agreement %s signed by %s", agreementNumber, party)
	body := fmt.Sprintf("Hello %s,\n\nThe %s has signed rental agreement %s.", name, party, agreementNumber)
	if awaitingRecipient {
		body += " Your signature is still required before the agreement becomes active."
	} else {
		body += " All signatures are now in place."
	}
	body += "\n\nBest regards,\nThe HostelHub Team"
	return s.send(email, name, subject, body)
}

func (s *emailService) SendAgreementActive(ctx context.Context, email, name, agreementNumber string) error {
	subject := fmt.Sprintf("Agreement %s is now active", agreementNumber)
	body := fmt.Sprintf("Hello %s,\n\nBoth parties have signed rental agreement %s. The agreement is now active and legally binding.\n\nBest regards,\nThe HostelHub Team", name, agreementNumber)
	return s.send(email, name, subject, body)
}

func (s *emailService) SendAgreementTerminated(ctx context.Context, email, name, agreementNumber, reason string) error {
	subject := fmt.Sprintf("Agreement %s terminated", agreementNumber)
	body := fmt.Sprintf("Hello %s,\n\nRental agreement %s has been terminated.", name, agreementNumber)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe HostelHub Team"
	return s.send(email, name, subject, body)
}
