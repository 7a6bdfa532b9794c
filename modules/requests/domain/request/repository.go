package request

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var (
	ErrNotFound = gerrors.New("request not found")
	// ErrStatusChanged is returned by UpdateStatus when the row exists but its
	// status no longer matches the expected one: either a concurrent flow won
	// the transition or the request was already terminal.
	ErrStatusChanged = gerrors.New("request status changed")
)

type FindParams struct {
	// Status defaults to NEW when empty: the review queue shows pending work.
	Status  Status
	Type    Type
	ScopeID string
	Limit   int
	Offset  int
}

type Repository interface {
	Create(ctx context.Context, r *Request) (*Request, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Request, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	// UpdateStatus performs a conditional write: the row is updated only if its
	// current status equals from. This closes the guard-then-write race between
	// concurrent flows on the same request id.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, actor uuid.UUID) (*Request, error)
}
