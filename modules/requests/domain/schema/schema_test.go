package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/approvals/modules/requests/domain/request"
	"github.com/iota-uz/approvals/modules/requests/domain/schema"
)

func TestValidate_AllViolationsReported(t *testing.T) {
	s, ok := schema.For(request.TypeEmployeeOnboarding)
	require.True(t, ok)

	// first_name missing, last_name wrong kind, division_id empty
	payload := json.RawMessage(`{
		"last_name": 42,
		"start_date": "2026-09-01",
		"division_id": "",
		"position_id": "P-100"
	}`)

	errs := s.Validate(payload)
	require.Len(t, errs, 3)
	assert.Contains(t, errs, "first_name")
	assert.Contains(t, errs, "last_name")
	assert.Contains(t, errs, "division_id")
	assert.Equal(t, "FIELD_REQUIRED", errs["first_name"].Code)
	assert.Equal(t, "FIELD_INVALID", errs["last_name"].Code)
}

func TestValidate_ValidPayload(t *testing.T) {
	s, ok := schema.For(request.TypeMedicationRequest)
	require.True(t, ok)

	payload := json.RawMessage(`{
		"patient_id": "PT-7",
		"medication_id": "MED-12",
		"quantity": 2,
		"contact_email": "nurse@clinic.example"
	}`)

	require.Nil(t, s.Validate(payload))
}

func TestValidate_ExtraFieldsAllowed(t *testing.T) {
	s, _ := schema.For(request.TypeLegalEntityRegistration)

	payload := json.RawMessage(`{
		"name": "Acme LLC",
		"tin": "123456789",
		"unknown_business_field": {"nested": true}
	}`)

	require.Nil(t, s.Validate(payload))
}

func TestValidate_MalformedPayload(t *testing.T) {
	s, _ := schema.For(request.TypeLegalEntityRegistration)

	errs := s.Validate(json.RawMessage(`[1,2,3]`))
	require.Len(t, errs, 1)
	assert.Equal(t, "PAYLOAD_MALFORMED", errs["payload"].Code)
}

func TestValidate_NullCountsAsMissing(t *testing.T) {
	s, _ := schema.For(request.TypeMedicationRequest)

	errs := s.Validate(json.RawMessage(`{"patient_id": null, "medication_id": "M-1", "quantity": 1}`))
	require.Len(t, errs, 1)
	assert.Contains(t, errs, "patient_id")
}

func TestReferenceFields(t *testing.T) {
	s, _ := schema.For(request.TypeMedicationRequest)

	refs := s.ReferenceFields()
	require.Len(t, refs, 2)
	assert.Equal(t, "patient", refs[0].RefEntity)
	assert.Equal(t, "medication", refs[1].RefEntity)
}

func TestFor_UnknownType(t *testing.T) {
	_, ok := schema.For(request.Type("vacation"))
	assert.False(t, ok)
}
