package service

import (
	"context"
	"fmt"
	"time"

	"hostelhub-backend/internal/domain"
	"hostelhub-backend/internal/logger"
	"hostelhub-backend/internal/metrics"
	"hostelhub-backend/internal/repository"
)

type agreementService struct {
	agreements  repository.AgreementRepository
	properties  repository.PropertyRepository
	coordinator *Coordinator
	notifier    *Notifier
}

func NewAgreementService(
	agreements repository.AgreementRepository,
	properties repository.PropertyRepository,
	coordinator *Coordinator,
	notifier *Notifier,
) AgreementService {
	return &agreementService{
		agreements:  agreements,
		properties:  properties,
		coordinator: coordinator,
		notifier:    notifier,
	}
}

// SignAgreement records one party's signature. Re-signing is a no-op that
// reports domain.ErrAlreadySigned alongside the unchanged agreement. When
// the second signature lands the agreement becomes active.
func (s *agreementService) SignAgreement(ctx context.Context, actor domain.Actor, agreementID int32) (*domain.Agreement, error) {
	agr, err := s.agreements.GetByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}

	party, err := agr.PartyOf(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("sign agreement %d: %w", agreementID, err)
	}

	if agr.Status.Terminal() {
		return nil, fmt.Errorf("sign agreement in status %s: %w", agr.Status, domain.ErrInvalidTransition)
	}

	sig := agr.SignatureFor(party)
	if sig.Signed {
		return agr, fmt.Errorf("%s already signed agreement %d: %w", party, agreementID, domain.ErrAlreadySigned)
	}

	if err := s.checkSignOrder(ctx, agr, party); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sig.Signed = true
	sig.SignedAt = &now
	agr.Status = agr.SignedStatus()

	if err := s.agreements.Update(ctx, agr); err != nil {
		return nil, err
	}

	metrics.SignaturesRecorded.WithLabelValues(string(party)).Inc()
	s.notifier.AgreementSigned(ctx, agr, party)
	if agr.Status == domain.AgreementStatusActive {
		metrics.AgreementsActivated.Inc()
		s.notifier.AgreementActive(ctx, agr)
	}

	logger.InfoContext(ctx, "Agreement signed",
		"agreement_id", agr.ID, "party", party, "status", agr.Status)
	return agr, nil
}

// checkSignOrder enforces the property's configured signing order. With
// SignOrderAny either party may go first.
func (s *agreementService) checkSignOrder(ctx context.Context, agr *domain.Agreement, party domain.Party) error {
	prop, err := s.properties.GetByID(ctx, agr.PropertyID)
	if err != nil {
		return err
	}

	var mustFollow domain.Party
	switch prop.SignOrder {
	case domain.SignOrderOwnerFirst:
		mustFollow = domain.PartyStudent
	case domain.SignOrderStudentFirst:
		mustFollow = domain.PartyOwner
	default:
		return nil
	}

	if party == mustFollow && !agr.SignatureFor(otherParty(party)).Signed {
		return fmt.Errorf("sign order %s requires the other party to sign first: %w",
			prop.SignOrder, domain.ErrInvalidTransition)
	}
	return nil
}

func otherParty(p domain.Party) domain.Party {
	if p == domain.PartyOwner {
		return domain.PartyStudent
	}
	return domain.PartyOwner
}

func (s *agreementService) TerminateAgreement(ctx context.Context, actor domain.Actor, agreementID int32, reason string) (*domain.Agreement, error) {
	return s.coordinator.TerminateAgreement(ctx, actor, agreementID, reason)
}

func (s *agreementService) GetAgreement(ctx context.Context, actor domain.Actor, agreementID int32) (*domain.Agreement, error) {
	agr, err := s.agreements.GetByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		if _, err := agr.PartyOf(actor.ID); err != nil {
			return nil, fmt.Errorf("agreement %d: %w", agreementID, err)
		}
	}
	return agr, nil
}

func (s *agreementService) GetBookingAgreement(ctx context.Context, actor domain.Actor, bookingID int32) (*domain.Agreement, error) {
	agr, err := s.agreements.GetCurrentByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		if _, err := agr.PartyOf(actor.ID); err != nil {
			return nil, fmt.Errorf("agreement for booking %d: %w", bookingID, err)
		}
	}
	return agr, nil
}

func (s *agreementService) ListMyAgreements(ctx context.Context, actor domain.Actor, status string, page, pageSize int32) ([]domain.Agreement, int32, error) {
	party := domain.PartyStudent
	if actor.Role == domain.UserRoleOwner {
		party = domain.PartyOwner
	}
	return s.agreements.ListByParty(ctx, actor.ID, party, status, page, pageSize)
}
