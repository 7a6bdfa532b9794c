package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/approvals/modules/requests/domain/request"
	"github.com/iota-uz/approvals/modules/requests/services"
	"github.com/iota-uz/approvals/pkg/composables"
	"github.com/iota-uz/approvals/pkg/eventbus"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestBus() eventbus.EventBus {
	return eventbus.NewEventPublisher(newTestLogger())
}

func actorCtx(actor uuid.UUID) context.Context {
	return composables.WithActor(context.Background(), actor)
}

// memRepository is an in-memory request.Repository with the same conditional
// update semantics as the pgx implementation.
type memRepository struct {
	mu           sync.Mutex
	items        map[uuid.UUID]*request.Request
	lastFind     *request.FindParams
	beforeUpdate func()
}

func newMemRepository() *memRepository {
	return &memRepository{items: make(map[uuid.UUID]*request.Request)}
}

func (m *memRepository) Create(_ context.Context, r *request.Request) (*request.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *r
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.items[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (m *memRepository) GetByID(_ context.Context, id uuid.UUID) (*request.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[id]
	if !ok {
		return nil, request.ErrNotFound
	}
	out := *r
	return &out, nil
}

func (m *memRepository) GetPaginated(_ context.Context, params *request.FindParams) ([]*request.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFind = params
	out := make([]*request.Request, 0, len(m.items))
	for _, r := range m.items {
		if !matchesFind(r, params) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memRepository) Count(_ context.Context, params *request.FindParams) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.items {
		if matchesFind(r, params) {
			n++
		}
	}
	return n, nil
}

// matchesFind mirrors the SQL repository's filter semantics, including the
// status default: the list is the review queue unless told otherwise.
func matchesFind(r *request.Request, params *request.FindParams) bool {
	if params == nil {
		params = &request.FindParams{}
	}
	status := params.Status
	if status == "" {
		status = request.StatusNew
	}
	if r.Status != status {
		return false
	}
	if params.Type != "" && r.Type != params.Type {
		return false
	}
	if params.ScopeID != "" {
		scope, _ := r.PayloadField("scope_id")
		if scope != params.ScopeID {
			return false
		}
	}
	return true
}

func (m *memRepository) UpdateStatus(_ context.Context, id uuid.UUID, from, to request.Status, actor uuid.UUID) (*request.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.beforeUpdate != nil {
		m.beforeUpdate()
	}
	r, ok := m.items[id]
	if !ok {
		return nil, request.ErrNotFound
	}
	if r.Status != from {
		return nil, request.ErrStatusChanged
	}
	r.Status = to
	r.UpdatedBy = actor
	r.UpdatedAt = time.Now()
	out := *r
	return &out, nil
}

func (m *memRepository) seed(r *request.Request) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	m.items[r.ID] = r
	return r.ID
}

func (m *memRepository) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *memRepository) status(id uuid.UUID) request.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id].Status
}

// stubRegistry scripts the remote registry's answers.
type stubRegistry struct {
	mu        sync.Mutex
	known     map[string]bool
	existsErr error
	createErr error
	grantErr  error

	existsCalls []string
	created     []string
	granted     []services.EntityRef
}

func newStubRegistry(known ...string) *stubRegistry {
	s := &stubRegistry{known: make(map[string]bool)}
	for _, k := range known {
		s.known[k] = true
	}
	return s
}

func (s *stubRegistry) Exists(_ context.Context, entityType, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entityType + "/" + id
	s.existsCalls = append(s.existsCalls, key)
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.known[key], nil
}

func (s *stubRegistry) CreateEntity(_ context.Context, entityType string, _ json.RawMessage) (services.EntityRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return services.EntityRef{}, s.createErr
	}
	ref := services.EntityRef{Type: entityType, ID: fmt.Sprintf("ent-%d", len(s.created)+1)}
	s.created = append(s.created, ref.ID)
	return ref, nil
}

func (s *stubRegistry) Grant(_ context.Context, ref services.EntityRef, spec services.RoleSpec) (services.CredentialRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grantErr != nil {
		return services.CredentialRef{}, s.grantErr
	}
	s.granted = append(s.granted, ref)
	return services.CredentialRef{ID: "cred-1", Role: spec.Role}, nil
}

func (s *stubRegistry) createdCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.created)
}

func (s *stubRegistry) grantedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.granted)
}

// recordingNotifier captures dispatched templates.
type recordingNotifier struct {
	mu        sync.Mutex
	templates []string
}

func (n *recordingNotifier) Notify(_ context.Context, _ *request.Request, templateID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.templates = append(n.templates, templateID)
}

func (n *recordingNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.templates...)
}
