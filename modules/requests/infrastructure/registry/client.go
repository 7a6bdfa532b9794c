package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/approvals/modules/requests/services"
)

// HTTPClient talks to the remote registry service. Existence checks answer
// whether a referenced identifier is known; entity and credential creation
// materialize approved requests as durable records owned by the registry.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	log     logrus.FieldLogger
}

func NewHTTPClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *HTTPClient) Exists(ctx context.Context, entityType, id string) (bool, error) {
	endpoint := fmt.Sprintf("%s/registries/%s/%s", c.baseURL, url.PathEscape(entityType), url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, gerrors.Wrap(services.ErrRegistryUnavailable, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, gerrors.Wrapf(services.ErrRegistryUnavailable, "existence check returned %d", resp.StatusCode)
	}
}

func (c *HTTPClient) CreateEntity(ctx context.Context, entityType string, payload json.RawMessage) (services.EntityRef, error) {
	endpoint := fmt.Sprintf("%s/registries/%s", c.baseURL, url.PathEscape(entityType))

	var out struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, endpoint, payload, &out); err != nil {
		return services.EntityRef{}, err
	}
	return services.EntityRef{Type: entityType, ID: out.ID}, nil
}

func (c *HTTPClient) Grant(ctx context.Context, ref services.EntityRef, spec services.RoleSpec) (services.CredentialRef, error) {
	endpoint := c.baseURL + "/credentials"
	body, err := json.Marshal(map[string]string{
		"entity_type": ref.Type,
		"entity_id":   ref.ID,
		"role":        spec.Role,
	})
	if err != nil {
		return services.CredentialRef{}, err
	}

	var out struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	if err := c.post(ctx, endpoint, body, &out); err != nil {
		return services.CredentialRef{}, err
	}
	return services.CredentialRef{ID: out.ID, Role: out.Role}, nil
}

func (c *HTTPClient) post(ctx context.Context, endpoint string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return gerrors.Wrap(services.ErrRegistryUnavailable, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.WithFields(logrus.Fields{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
		}).Error("registry call failed")
		return fmt.Errorf("registry returned %d: %s", resp.StatusCode, snippet)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
