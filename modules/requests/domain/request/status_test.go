package request_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/approvals/modules/requests/domain/request"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"NEW", "APPROVED", "REJECTED"} {
		got, err := request.ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, request.Status(s), got)
	}

	_, err := request.ParseStatus("draft")
	require.Error(t, err)
}

func TestParseType(t *testing.T) {
	for _, s := range []string{"employee_onboarding", "legal_entity_registration", "medication_request"} {
		got, err := request.ParseType(s)
		require.NoError(t, err)
		assert.Equal(t, request.Type(s), got)
	}

	_, err := request.ParseType("vacation")
	require.Error(t, err)
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, request.StatusNew.Terminal())
	assert.True(t, request.StatusApproved.Terminal())
	assert.True(t, request.StatusRejected.Terminal())
}

func TestCheckTransition_New(t *testing.T) {
	r := &request.Request{Status: request.StatusNew}
	require.NoError(t, request.CheckTransition(r))
}

func TestCheckTransition_Terminal(t *testing.T) {
	for _, status := range []request.Status{request.StatusApproved, request.StatusRejected} {
		r := &request.Request{Status: status}
		err := request.CheckTransition(r)
		require.Error(t, err)

		var conflict *request.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, status, conflict.Current)
	}
}

func TestPayloadField(t *testing.T) {
	r := &request.Request{Payload: []byte(`{"contact_email":"jan@example.com","quantity":3}`)}

	v, ok := r.PayloadField("contact_email")
	require.True(t, ok)
	assert.Equal(t, "jan@example.com", v)

	_, ok = r.PayloadField("missing")
	assert.False(t, ok)

	// non-string values are not surfaced
	_, ok = r.PayloadField("quantity")
	assert.False(t, ok)
}
