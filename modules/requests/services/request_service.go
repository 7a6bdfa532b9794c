package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/approvals/modules/requests/domain/request"
	"github.com/iota-uz/approvals/modules/requests/domain/schema"
	"github.com/iota-uz/approvals/pkg/composables"
	"github.com/iota-uz/approvals/pkg/constants"
	"github.com/iota-uz/approvals/pkg/eventbus"
	"github.com/iota-uz/approvals/pkg/metrics"
	"github.com/iota-uz/approvals/pkg/serrors"
)

const (
	fallbackPageSize    = 25
	fallbackMaxPageSize = 100
)

type RequestService struct {
	repo        request.Repository
	registry    Registry
	publisher   eventbus.EventBus
	log         *logrus.Logger
	pageSize    int
	maxPageSize int
}

// NewRequestService wires the submission boundary. pageSize and maxPageSize
// come from configuration; non-positive values fall back to the defaults.
func NewRequestService(repo request.Repository, registry Registry, publisher eventbus.EventBus, log *logrus.Logger, pageSize, maxPageSize int) *RequestService {
	if pageSize <= 0 {
		pageSize = fallbackPageSize
	}
	if maxPageSize <= 0 {
		maxPageSize = fallbackMaxPageSize
	}
	return &RequestService{
		repo:        repo,
		registry:    registry,
		publisher:   publisher,
		log:         log,
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
	}
}

type SubmitParams struct {
	Type    string          `json:"type" validate:"required"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// Submit validates the payload's shape, confirms every referenced identifier
// against the remote registry and persists the request with status NEW. The
// payload is never re-validated after this point; corrections require a new
// request.
func (s *RequestService) Submit(ctx context.Context, params SubmitParams) (*request.Request, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return nil, newServiceError(http.StatusUnauthorized, "ACTOR_REQUIRED", "acting principal is required", err)
	}

	if err := constants.Validate.Struct(&params); err != nil {
		var validatorErrs validator.ValidationErrors
		if errors.As(err, &validatorErrs) {
			ve := serrors.ProcessValidatorErrors(validatorErrs, nil)
			return nil, &ServiceError{
				Status:  http.StatusBadRequest,
				Code:    "REQUEST_INVALID_BODY",
				Message: "type and payload are required",
				Fields:  ve.Fields(),
			}
		}
		return nil, err
	}

	reqType, err := request.ParseType(params.Type)
	if err != nil {
		return nil, newServiceError(http.StatusBadRequest, "REQUEST_UNKNOWN_TYPE", "unknown request type", err)
	}
	sch, ok := schema.For(reqType)
	if !ok {
		return nil, newServiceError(http.StatusBadRequest, "REQUEST_UNKNOWN_TYPE", "no schema declared for request type", nil)
	}

	if ve := sch.Validate(params.Payload); ve != nil {
		return nil, &ServiceError{
			Status:  http.StatusBadRequest,
			Code:    "REQUEST_INVALID_PAYLOAD",
			Message: "payload failed schema validation",
			Fields:  ve.Fields(),
		}
	}

	if err := s.validateReferences(ctx, sch, params.Payload); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &request.Request{
		Type:      reqType,
		Payload:   params.Payload,
		Status:    request.StatusNew,
		CreatedBy: actor,
		UpdatedBy: actor,
	})
	if err != nil {
		return nil, mapPgError(err)
	}

	metrics.RequestsSubmitted.WithLabelValues(string(created.Type)).Inc()
	s.log.WithFields(logrus.Fields{
		"request_id": created.ID,
		"type":       created.Type,
		"actor":      actor,
	}).Info("request submitted")

	s.publisher.Publish(&request.CreatedEvent{Request: created, Actor: actor})
	return created, nil
}

func (s *RequestService) GetByID(ctx context.Context, id uuid.UUID) (*request.Request, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			return nil, newServiceError(http.StatusNotFound, "REQUEST_NOT_FOUND", "request not found", err)
		}
		return nil, mapPgError(err)
	}
	return r, nil
}

func (s *RequestService) GetPaginated(ctx context.Context, params *request.FindParams) ([]*request.Request, int64, error) {
	if params == nil {
		params = &request.FindParams{}
	}
	if params.Limit <= 0 {
		params.Limit = s.pageSize
	}
	if params.Limit > s.maxPageSize {
		params.Limit = s.maxPageSize
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	items, err := s.repo.GetPaginated(ctx, params)
	if err != nil {
		return nil, 0, mapPgError(err)
	}
	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, mapPgError(err)
	}
	return items, total, nil
}
