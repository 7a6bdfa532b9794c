package request

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Request struct {
	ID        uuid.UUID       `json:"id"`
	Type      Type            `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Status    Status          `json:"status"`
	CreatedBy uuid.UUID       `json:"created_by"`
	UpdatedBy uuid.UUID       `json:"updated_by"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PayloadField reads a single top-level string field from the payload.
// The payload is otherwise opaque to the lifecycle engine.
func (r *Request) PayloadField(name string) (string, bool) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(r.Payload, &doc); err != nil {
		return "", false
	}
	raw, ok := doc[name]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
