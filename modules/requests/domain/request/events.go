package request

import (
	"github.com/google/uuid"
)

type CreatedEvent struct {
	Request *Request
	Actor   uuid.UUID
}

type ApprovedEvent struct {
	Request      *Request
	Actor        uuid.UUID
	EntityType   string
	EntityID     string
	CredentialID string
	GrantedRole  string
}

type RejectedEvent struct {
	Request *Request
	Actor   uuid.UUID
}
