package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/approvals/modules/requests/domain/request"
	"github.com/iota-uz/approvals/pkg/composables"
	"github.com/iota-uz/approvals/pkg/eventbus"
	"github.com/iota-uz/approvals/pkg/metrics"
)

const (
	templateApproved = "request_approved"
	templateRejected = "request_rejected"
)

type ApprovalService struct {
	repo      request.Repository
	registry  Registry
	notifier  Notifier
	publisher eventbus.EventBus
	log       *logrus.Logger
}

func NewApprovalService(
	repo request.Repository,
	registry Registry,
	notifier Notifier,
	publisher eventbus.EventBus,
	log *logrus.Logger,
) *ApprovalService {
	return &ApprovalService{
		repo:      repo,
		registry:  registry,
		notifier:  notifier,
		publisher: publisher,
		log:       log,
	}
}

// approvalPipeline threads one result through the ordered approval stages.
// Each stage is a no-op once err is set, so the first failure short-circuits
// the chain and the request's status stays NEW until commit succeeds.
type approvalPipeline struct {
	svc        *ApprovalService
	req        *request.Request
	actor      uuid.UUID
	entity     EntityRef
	credential CredentialRef
	err        error
}

func (p *approvalPipeline) guard() *approvalPipeline {
	if p.err != nil {
		return p
	}
	p.err = request.CheckTransition(p.req)
	return p
}

func (p *approvalPipeline) createEntity(ctx context.Context) *approvalPipeline {
	if p.err != nil {
		return p
	}
	ref, err := p.svc.registry.CreateEntity(ctx, entityTypeFor(p.req.Type), p.req.Payload)
	if err != nil {
		metrics.PipelineFailures.WithLabelValues("entity").Inc()
		p.err = &RemoteError{Stage: "entity", Cause: err}
		return p
	}
	p.entity = ref
	return p
}

func (p *approvalPipeline) grantCredentials(ctx context.Context) *approvalPipeline {
	if p.err != nil {
		return p
	}
	cred, err := p.svc.registry.Grant(ctx, p.entity, roleFor(p.req.Type))
	if err != nil {
		metrics.PipelineFailures.WithLabelValues("credentials").Inc()
		metrics.OrphanedEntities.Inc()
		// The stage-2 entity is deliberately not rolled back; log the orphan
		// for manual reconciliation.
		p.svc.log.WithFields(logrus.Fields{
			"request_id":  p.req.ID,
			"entity_type": p.entity.Type,
			"entity_id":   p.entity.ID,
		}).Error("credential grant failed, remote entity left orphaned")
		p.err = &RemoteError{Stage: "credentials", Cause: err}
		return p
	}
	p.credential = cred
	return p
}

func (p *approvalPipeline) commit(ctx context.Context) *approvalPipeline {
	if p.err != nil {
		return p
	}
	updated, err := p.svc.repo.UpdateStatus(ctx, p.req.ID, request.StatusNew, request.StatusApproved, p.actor)
	if err != nil {
		metrics.PipelineFailures.WithLabelValues("commit").Inc()
		p.err = p.svc.resolveStatusError(ctx, p.req.ID, err)
		return p
	}
	p.req = updated
	return p
}

func (p *approvalPipeline) notify(ctx context.Context) *approvalPipeline {
	p.svc.notifier.Notify(ctx, p.req, templateApproved)
	return p
}

// Approve runs the ordered side effects of the approve transition: entity
// creation, credential grant, status commit, notification. Stages 1-4 share
// one short-circuiting chain; notification is decoupled and runs only after
// the commit, so its failure can never overturn a committed status.
func (s *ApprovalService) Approve(ctx context.Context, id uuid.UUID) (*request.Request, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return nil, newServiceError(http.StatusUnauthorized, "ACTOR_REQUIRED", "acting principal is required", err)
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			return nil, newServiceError(http.StatusNotFound, "REQUEST_NOT_FOUND", "request not found", err)
		}
		return nil, mapPgError(err)
	}

	p := &approvalPipeline{svc: s, req: req, actor: actor}
	p.guard().createEntity(ctx).grantCredentials(ctx).commit(ctx)
	if p.err != nil {
		return nil, s.mapApprovalError(p.err)
	}

	p.notify(ctx)

	metrics.RequestsApproved.WithLabelValues(string(p.req.Type)).Inc()
	s.log.WithFields(logrus.Fields{
		"request_id":    p.req.ID,
		"entity_id":     p.entity.ID,
		"credential_id": p.credential.ID,
		"actor":         actor,
	}).Info("request approved")

	s.publisher.Publish(&request.ApprovedEvent{
		Request:      p.req,
		Actor:        actor,
		EntityType:   p.entity.Type,
		EntityID:     p.entity.ID,
		CredentialID: p.credential.ID,
		GrantedRole:  p.credential.Role,
	})
	return p.req, nil
}

// Reject is the short path: guard, conditional status write, best-effort
// notification.
func (s *ApprovalService) Reject(ctx context.Context, id uuid.UUID) (*request.Request, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return nil, newServiceError(http.StatusUnauthorized, "ACTOR_REQUIRED", "acting principal is required", err)
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			return nil, newServiceError(http.StatusNotFound, "REQUEST_NOT_FOUND", "request not found", err)
		}
		return nil, mapPgError(err)
	}
	if err := request.CheckTransition(req); err != nil {
		return nil, s.mapApprovalError(err)
	}

	updated, err := s.repo.UpdateStatus(ctx, req.ID, request.StatusNew, request.StatusRejected, actor)
	if err != nil {
		return nil, s.mapApprovalError(s.resolveStatusError(ctx, req.ID, err))
	}

	s.notifier.Notify(ctx, updated, templateRejected)

	metrics.RequestsRejected.WithLabelValues(string(updated.Type)).Inc()
	s.log.WithFields(logrus.Fields{
		"request_id": updated.ID,
		"actor":      actor,
	}).Info("request rejected")

	s.publisher.Publish(&request.RejectedEvent{Request: updated, Actor: actor})
	return updated, nil
}

// resolveStatusError disambiguates a failed conditional update: a concurrent
// flow may have won the transition, or the row may be gone entirely.
func (s *ApprovalService) resolveStatusError(ctx context.Context, id uuid.UUID, err error) error {
	if !errors.Is(err, request.ErrStatusChanged) {
		return err
	}
	current, rerr := s.repo.GetByID(ctx, id)
	if rerr != nil {
		return err
	}
	return &request.ConflictError{Current: current.Status}
}

func (s *ApprovalService) mapApprovalError(err error) error {
	var conflict *request.ConflictError
	if errors.As(err, &conflict) {
		return &ServiceError{
			Status:  http.StatusConflict,
			Code:    "REQUEST_STATUS_CONFLICT",
			Message: conflict.Error(),
			Meta:    map[string]string{"current_status": string(conflict.Current)},
			Cause:   err,
		}
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return newServiceError(http.StatusBadGateway, "REGISTRY_REMOTE_FAILURE", remote.Error(), err)
	}
	if errors.Is(err, request.ErrNotFound) {
		return newServiceError(http.StatusNotFound, "REQUEST_NOT_FOUND", "request not found", err)
	}
	return mapPgError(err)
}
