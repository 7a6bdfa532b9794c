package request

import (
	"fmt"
)

type Status string

const (
	StatusNew      Status = "NEW"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNew, StatusApproved, StatusRejected:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown request status: %q", s)
}

// Terminal reports whether no further transition is permitted out of s.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type Type string

const (
	TypeEmployeeOnboarding      Type = "employee_onboarding"
	TypeLegalEntityRegistration Type = "legal_entity_registration"
	TypeMedicationRequest       Type = "medication_request"
)

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeEmployeeOnboarding, TypeLegalEntityRegistration, TypeMedicationRequest:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown request type: %q", s)
}

// ConflictError signals an attempted transition out of a terminal status.
// It carries the current status so callers can report it (HTTP 409).
type ConflictError struct {
	Current Status
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("request is already %s", e.Current)
}

// CheckTransition is the sole transition gatekeeper: only NEW requests may be
// approved or rejected. All mutation paths must pass through it before
// invoking the store's status update.
func CheckTransition(r *Request) error {
	if r.Status != StatusNew {
		return &ConflictError{Current: r.Status}
	}
	return nil
}
