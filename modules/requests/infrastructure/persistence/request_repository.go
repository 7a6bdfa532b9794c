package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iota-uz/approvals/modules/requests/domain/request"
	"github.com/iota-uz/approvals/pkg/composables"
)

const requestColumns = `id, type, data, status, created_by, updated_by, created_at, updated_at`

type RequestRepository struct{}

func NewRequestRepository() request.Repository {
	return &RequestRepository{}
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func asUUID(v pgtype.UUID) uuid.UUID {
	if !v.Valid {
		return uuid.Nil
	}
	return uuid.UUID(v.Bytes)
}

func asTime(v pgtype.Timestamptz) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return v.Time
}

func scanRequest(row pgx.Row) (*request.Request, error) {
	var (
		id, createdBy, updatedBy pgtype.UUID
		reqType, status          string
		data                     []byte
		createdAt, updatedAt     pgtype.Timestamptz
	)
	if err := row.Scan(&id, &reqType, &data, &status, &createdBy, &updatedBy, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return &request.Request{
		ID:        asUUID(id),
		Type:      request.Type(reqType),
		Payload:   json.RawMessage(data),
		Status:    request.Status(status),
		CreatedBy: asUUID(createdBy),
		UpdatedBy: asUUID(updatedBy),
		CreatedAt: asTime(createdAt),
		UpdatedAt: asTime(updatedAt),
	}, nil
}

func (r *RequestRepository) Create(ctx context.Context, req *request.Request) (*request.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
INSERT INTO requests (type, data, status, created_by, updated_by)
VALUES ($1, $2::jsonb, $3, $4, $4)
RETURNING `+requestColumns,
		string(req.Type),
		[]byte(req.Payload),
		string(req.Status),
		pgUUID(req.CreatedBy),
	)
	return scanRequest(row)
}

func (r *RequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*request.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1`, pgUUID(id))
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, request.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func filterClauses(params *request.FindParams) (string, []any) {
	status := params.Status
	if status == "" {
		status = request.StatusNew
	}

	where := []string{"status = $1"}
	args := []any{string(status)}

	if params.Type != "" {
		args = append(args, string(params.Type))
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if params.ScopeID != "" {
		args = append(args, params.ScopeID)
		where = append(where, fmt.Sprintf("data->>'scope_id' = $%d", len(args)))
	}
	return strings.Join(where, " AND "), args
}

func (r *RequestRepository) GetPaginated(ctx context.Context, params *request.FindParams) ([]*request.Request, error) {
	if params == nil {
		params = &request.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	where, args := filterClauses(params)
	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
SELECT %s FROM requests
WHERE %s
ORDER BY created_at DESC, id DESC
LIMIT $%d OFFSET $%d`, requestColumns, where, len(args)-1, len(args))

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*request.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *RequestRepository) Count(ctx context.Context, params *request.FindParams) (int64, error) {
	if params == nil {
		params = &request.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	where, args := filterClauses(params)
	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM requests WHERE `+where, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateStatus is a compare-and-swap: the write applies only while the row's
// status still equals from. Zero rows means either an unknown id or a lost
// race; a follow-up read disambiguates.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to request.Status, actor uuid.UUID) (*request.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
UPDATE requests
SET status = $3, updated_by = $4, updated_at = now()
WHERE id = $1 AND status = $2
RETURNING `+requestColumns,
		pgUUID(id),
		string(from),
		string(to),
		pgUUID(actor),
	)
	req, err := scanRequest(row)
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM requests WHERE id = $1)`, pgUUID(id)).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, request.ErrNotFound
	}
	return nil, request.ErrStatusChanged
}
