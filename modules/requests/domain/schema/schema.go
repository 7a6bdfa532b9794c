package schema

import (
	"encoding/json"
	"fmt"

	"github.com/iota-uz/approvals/pkg/serrors"
)

type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindBool   Kind = "bool"
	KindObject Kind = "object"
)

type Field struct {
	Name     string
	Kind     Kind
	Required bool
	// RefEntity names the remote registry entity type when the field holds a
	// foreign identifier; empty for plain business fields.
	RefEntity string
}

type Schema struct {
	Fields []Field
}

func (s *Schema) ReferenceFields() []Field {
	out := make([]Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.RefEntity != "" {
			out = append(out, f)
		}
	}
	return out
}

// Validate checks the payload's shape against the schema and aggregates every
// violated constraint, so callers can report all problems at once. Fields not
// declared by the schema are allowed: the payload stays an opaque document
// beyond the declared surface.
func (s *Schema) Validate(payload json.RawMessage) serrors.ValidationErrors {
	errs := make(serrors.ValidationErrors)

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(payload, &doc); err != nil {
		errs["payload"] = serrors.NewError("PAYLOAD_MALFORMED", "payload must be a JSON object", "")
		return errs
	}

	for _, f := range s.Fields {
		raw, present := doc[f.Name]
		if !present || string(raw) == "null" {
			if f.Required {
				errs[f.Name] = serrors.NewFieldRequiredError(f.Name, "")
			}
			continue
		}
		if !matchesKind(raw, f.Kind) {
			errs[f.Name] = serrors.NewFieldInvalidError(f.Name, fmt.Sprintf("must be a %s", f.Kind), "")
			continue
		}
		if f.Required && f.Kind == KindString && isEmptyString(raw) {
			errs[f.Name] = serrors.NewFieldRequiredError(f.Name, "")
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func matchesKind(raw json.RawMessage, kind Kind) bool {
	switch kind {
	case KindString:
		var v string
		return json.Unmarshal(raw, &v) == nil
	case KindNumber:
		var v float64
		return json.Unmarshal(raw, &v) == nil
	case KindBool:
		var v bool
		return json.Unmarshal(raw, &v) == nil
	case KindObject:
		var v map[string]json.RawMessage
		return json.Unmarshal(raw, &v) == nil
	}
	return false
}

func isEmptyString(raw json.RawMessage) bool {
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	return v == ""
}
