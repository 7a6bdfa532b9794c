package services

import (
	"context"
	"encoding/json"

	gerrors "github.com/go-faster/errors"

	"github.com/iota-uz/approvals/modules/requests/domain/request"
)

// ErrRegistryUnavailable distinguishes an unreachable registry from a
// negative existence answer; callers surface it as retryable.
var ErrRegistryUnavailable = gerrors.New("registry unavailable")

type EntityRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type CredentialRef struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

type RoleSpec struct {
	Role string `json:"role"`
}

// Registry is the remote registry collaborator: existence checks at
// submission time, entity and credential creation at approval time.
type Registry interface {
	Exists(ctx context.Context, entityType, id string) (bool, error)
	CreateEntity(ctx context.Context, entityType string, payload json.RawMessage) (EntityRef, error)
	Grant(ctx context.Context, ref EntityRef, spec RoleSpec) (CredentialRef, error)
}

// Notifier dispatches best-effort messages; implementations swallow and log
// their own failures, so the signature carries no error.
type Notifier interface {
	Notify(ctx context.Context, r *request.Request, templateID string)
}

func entityTypeFor(t request.Type) string {
	switch t {
	case request.TypeEmployeeOnboarding:
		return "employee"
	case request.TypeLegalEntityRegistration:
		return "legal_entity"
	case request.TypeMedicationRequest:
		return "medication_order"
	}
	return string(t)
}

func roleFor(t request.Type) RoleSpec {
	switch t {
	case request.TypeEmployeeOnboarding:
		return RoleSpec{Role: "employee"}
	case request.TypeLegalEntityRegistration:
		return RoleSpec{Role: "entity_admin"}
	case request.TypeMedicationRequest:
		return RoleSpec{Role: "dispenser"}
	}
	return RoleSpec{Role: "member"}
}
