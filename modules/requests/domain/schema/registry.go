package schema

import (
	"github.com/iota-uz/approvals/modules/requests/domain/request"
)

// builtin declares the payload surface each request type is validated
// against at submission time. contact_email and scope_id are shared
// conventions: the first is the notification destination, the second the
// owning organizational scope used for list filtering.
var builtin = map[request.Type]*Schema{
	request.TypeEmployeeOnboarding: {
		Fields: []Field{
			{Name: "first_name", Kind: KindString, Required: true},
			{Name: "last_name", Kind: KindString, Required: true},
			{Name: "start_date", Kind: KindString, Required: true},
			{Name: "division_id", Kind: KindString, Required: true, RefEntity: "division"},
			{Name: "position_id", Kind: KindString, Required: true, RefEntity: "position"},
			{Name: "contact_email", Kind: KindString},
			{Name: "scope_id", Kind: KindString},
		},
	},
	request.TypeLegalEntityRegistration: {
		Fields: []Field{
			{Name: "name", Kind: KindString, Required: true},
			{Name: "tin", Kind: KindString, Required: true},
			{Name: "parent_entity_id", Kind: KindString, RefEntity: "legal_entity"},
			{Name: "contact_email", Kind: KindString},
			{Name: "scope_id", Kind: KindString},
		},
	},
	request.TypeMedicationRequest: {
		Fields: []Field{
			{Name: "patient_id", Kind: KindString, Required: true, RefEntity: "patient"},
			{Name: "medication_id", Kind: KindString, Required: true, RefEntity: "medication"},
			{Name: "quantity", Kind: KindNumber, Required: true},
			{Name: "contact_email", Kind: KindString},
			{Name: "scope_id", Kind: KindString},
		},
	},
}

func For(t request.Type) (*Schema, bool) {
	s, ok := builtin[t]
	return s, ok
}
