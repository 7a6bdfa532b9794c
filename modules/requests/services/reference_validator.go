package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/iota-uz/approvals/modules/requests/domain/schema"
	"github.com/iota-uz/approvals/pkg/serrors"
)

// validateReferences confirms every foreign identifier declared by the schema
// against the remote registry. NotFound answers are aggregated across all
// fields so the caller sees the complete list of bad references in one round
// trip; an unreachable registry aborts immediately as a retryable error.
// This check runs only at submission time.
func (s *RequestService) validateReferences(ctx context.Context, sch *schema.Schema, payload json.RawMessage) error {
	refs := sch.ReferenceFields()
	if len(refs) == 0 {
		return nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(payload, &doc); err != nil {
		return newServiceError(http.StatusBadRequest, "REQUEST_INVALID_PAYLOAD", "payload must be a JSON object", err)
	}

	errs := make(serrors.ValidationErrors)
	for _, f := range refs {
		raw, ok := doc[f.Name]
		if !ok || string(raw) == "null" {
			continue
		}
		var id string
		if err := json.Unmarshal(raw, &id); err != nil || id == "" {
			continue
		}

		exists, err := s.registry.Exists(ctx, f.RefEntity, id)
		if err != nil {
			return newServiceError(
				http.StatusServiceUnavailable,
				"REGISTRY_UNAVAILABLE",
				"remote registry could not be reached",
				err,
			)
		}
		if !exists {
			errs[f.Name] = serrors.NewError(
				"REFERENCE_NOT_FOUND",
				fmt.Sprintf("%s %q does not exist", f.RefEntity, id),
				"",
			)
		}
	}

	if len(errs) > 0 {
		return &ServiceError{
			Status:  http.StatusBadRequest,
			Code:    "REQUEST_BAD_REFERENCE",
			Message: "referenced entities do not exist",
			Fields:  errs.Fields(),
		}
	}
	return nil
}
