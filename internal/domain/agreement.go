package domain

import "time"

type AgreementStatus string

const (
	AgreementStatusDraft          AgreementStatus = "draft"
	AgreementStatusPendingStudent AgreementStatus = "pending_student"
	AgreementStatusPendingOwner   AgreementStatus = "pending_owner"
	AgreementStatusActive         AgreementStatus = "active"
	AgreementStatusExpired        AgreementStatus = "expired"
	AgreementStatusTerminated     AgreementStatus = "terminated"
	AgreementStatusCancelled      AgreementStatus = "cancelled"
)

// Terminal reports whether the agreement can never change status again.
func (s AgreementStatus) Terminal() bool {
	switch s {
	case AgreementStatusExpired, AgreementStatusTerminated, AgreementStatusCancelled:
		return true
	}
	return false
}

// Cancellable reports whether an administrative cancel is allowed from this
// status. Active agreements must go through terminate instead.
func (s AgreementStatus) Cancellable() bool {
	switch s {
	case AgreementStatusDraft, AgreementStatusPendingStudent, AgreementStatusPendingOwner:
		return true
	}
	return false
}

// Party identifies which side of the agreement an actor is on.
type Party string

const (
	PartyOwner   Party = "owner"
	PartyStudent Party = "student"
)

// Signature is one party's signing record. SignedAt is set exactly once;
// repeat signs must never flip it.
type Signature struct {
	Signed   bool       `json:"signed"`
	SignedAt *time.Time `json:"signed_at,omitempty"`
}

// Agreement is the signable contract derived from exactly one confirmed
// booking. It is never deleted; cancellation is a status.
type Agreement struct {
	ID                   int32           `json:"id"`
	AgreementNumber      string          `json:"agreement_number"`
	BookingID            int32           `json:"booking_id"`
	PropertyID           int32           `json:"property_id"`
	OwnerID              int32           `json:"owner_id"`
	StudentID            int32           `json:"student_id"`
	Status               AgreementStatus `json:"status"`
	OwnerSignature       Signature       `json:"owner_signature"`
	StudentSignature     Signature       `json:"student_signature"`
	MonthlyRentCents     int32           `json:"monthly_rent_cents"`
	SecurityDepositCents int32           `json:"security_deposit_cents"`
	StartDate            string          `json:"start_date"`
	EndDate              string          `json:"end_date"`
	TerminationReason    string          `json:"termination_reason,omitempty"`
	Version              int32           `json:"version"`
	CreatedOn            string          `json:"created_on"`
	UpdatedOn            string          `json:"updated_on"`
}

// FullySigned reports whether both parties have signed.
func (a *Agreement) FullySigned() bool {
	return a.OwnerSignature.Signed && a.StudentSignature.Signed
}

// PartyOf resolves which side of the agreement actorID is on.
func (a *Agreement) PartyOf(actorID int32) (Party, error) {
	switch actorID {
	case a.OwnerID:
		return PartyOwner, nil
	case a.StudentID:
		return PartyStudent, nil
	}
	return "", ErrWrongParty
}

// SignatureFor returns the signature record for the given party.
func (a *Agreement) SignatureFor(p Party) *Signature {
	if p == PartyOwner {
		return &a.OwnerSignature
	}
	return &a.StudentSignature
}

// SignedStatus derives the pre-terminal status from the signature records:
// both outstanding is draft, one outstanding is the pending state of the
// missing party, both present is active. Callers always derive the status
// here rather than setting it directly.
func (a *Agreement) SignedStatus() AgreementStatus {
	switch {
	case a.OwnerSignature.Signed && a.StudentSignature.Signed:
		return AgreementStatusActive
	case a.OwnerSignature.Signed:
		return AgreementStatusPendingStudent
	case a.StudentSignature.Signed:
		return AgreementStatusPendingOwner
	}
	return AgreementStatusDraft
}
