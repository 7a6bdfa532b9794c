package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/iota-uz/approvals/modules/requests/domain/request"
	"github.com/iota-uz/approvals/modules/requests/services"
	"github.com/iota-uz/approvals/pkg/composables"
	"github.com/iota-uz/approvals/pkg/httpapi"
)

// ActorHeader carries the acting principal's id. Authentication itself is an
// upstream concern; this service only records who acted.
const ActorHeader = "X-Actor-ID"

type RequestAPIController struct {
	requests  *services.RequestService
	approvals *services.ApprovalService
	apiPrefix string
}

func NewRequestAPIController(requests *services.RequestService, approvals *services.ApprovalService) *RequestAPIController {
	return &RequestAPIController{
		requests:  requests,
		approvals: approvals,
		apiPrefix: "/api/v1",
	}
}

func (c *RequestAPIController) Key() string {
	return c.apiPrefix
}

func (c *RequestAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()

	api.HandleFunc("/requests", c.Submit).Methods(http.MethodPost)
	api.HandleFunc("/requests", c.List).Methods(http.MethodGet)
	api.HandleFunc("/requests/{id}", c.Get).Methods(http.MethodGet)
	api.HandleFunc("/requests/{id}:approve", c.Approve).Methods(http.MethodPost)
	api.HandleFunc("/requests/{id}:reject", c.Reject).Methods(http.MethodPost)
}

func requireActor(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.Header.Get(ActorHeader)
	if raw == "" {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "ACTOR_REQUIRED", ActorHeader+" header is required", nil)
		return uuid.Nil, false
	}
	actor, err := uuid.Parse(raw)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "ACTOR_INVALID", ActorHeader+" header must be a UUID", nil)
		return uuid.Nil, false
	}
	return actor, true
}

func requestID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "REQUEST_INVALID_ID", "request id must be a UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (c *RequestAPIController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		_ = httpapi.WriteJSON(w, svcErr.Status, &httpapi.ErrorEnvelope{
			Code:    svcErr.Code,
			Message: svcErr.Message,
			Fields:  svcErr.Fields,
			Meta:    svcErr.Meta,
		})
		return
	}
	composables.UseLogger(r.Context()).WithError(err).Error("unhandled service error")
	_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
}

type requestResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Status    string          `json:"status"`
	CreatedBy string          `json:"created_by"`
	UpdatedBy string          `json:"updated_by"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

func toResponse(r *request.Request) requestResponse {
	return requestResponse{
		ID:        r.ID.String(),
		Type:      string(r.Type),
		Payload:   r.Payload,
		Status:    string(r.Status),
		CreatedBy: r.CreatedBy.String(),
		UpdatedBy: r.UpdatedBy.String(),
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (c *RequestAPIController) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var params services.SubmitParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "REQUEST_INVALID_BODY", "body must be valid JSON", nil)
		return
	}

	ctx := composables.WithActor(r.Context(), actor)
	created, err := c.requests.Submit(ctx, params)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toResponse(created))
}

func (c *RequestAPIController) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}

	params := &request.FindParams{
		ScopeID: r.URL.Query().Get("scope_id"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := request.ParseStatus(raw)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "REQUEST_INVALID_QUERY", "status is invalid", nil)
			return
		}
		params.Status = status
	}
	if raw := r.URL.Query().Get("type"); raw != "" {
		reqType, err := request.ParseType(raw)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "REQUEST_INVALID_QUERY", "type is invalid", nil)
			return
		}
		params.Type = reqType
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			params.Limit = n
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			params.Offset = n
		}
	}

	items, total, err := c.requests.GetPaginated(r.Context(), params)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	out := make([]requestResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}

	type listResponse struct {
		Items  []requestResponse `json:"items"`
		Total  int64             `json:"total"`
		Limit  int               `json:"limit"`
		Offset int               `json:"offset"`
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, listResponse{
		Items:  out,
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
}

func (c *RequestAPIController) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	req, err := c.requests.GetByID(r.Context(), id)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toResponse(req))
}

func (c *RequestAPIController) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	ctx := composables.WithActor(r.Context(), actor)
	req, err := c.approvals.Approve(ctx, id)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toResponse(req))
}

func (c *RequestAPIController) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	ctx := composables.WithActor(r.Context(), actor)
	req, err := c.approvals.Reject(ctx, id)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toResponse(req))
}
