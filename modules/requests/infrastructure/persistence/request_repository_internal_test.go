package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/approvals/modules/requests/domain/request"
)

func TestFilterClauses_StatusDefaultsToNew(t *testing.T) {
	t.Parallel()
	where, args := filterClauses(&request.FindParams{})
	assert.Equal(t, "status = $1", where)
	assert.Equal(t, []any{"NEW"}, args)
}

func TestFilterClauses_ExplicitStatus(t *testing.T) {
	t.Parallel()
	where, args := filterClauses(&request.FindParams{Status: request.StatusApproved})
	assert.Equal(t, "status = $1", where)
	assert.Equal(t, []any{"APPROVED"}, args)
}

func TestFilterClauses_TypeFilter(t *testing.T) {
	t.Parallel()
	where, args := filterClauses(&request.FindParams{Type: request.TypeEmployeeOnboarding})
	assert.Equal(t, "status = $1 AND type = $2", where)
	assert.Equal(t, []any{"NEW", "employee_onboarding"}, args)
}

func TestFilterClauses_ScopeFilter(t *testing.T) {
	t.Parallel()
	where, args := filterClauses(&request.FindParams{
		Status:  request.StatusRejected,
		Type:    request.TypeMedicationRequest,
		ScopeID: "scope-9",
	})
	require.Equal(t, "status = $1 AND type = $2 AND data->>'scope_id' = $3", where)
	assert.Equal(t, []any{"REJECTED", "medication_request", "scope-9"}, args)
}
