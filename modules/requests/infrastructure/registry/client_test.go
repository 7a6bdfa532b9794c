package registry_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/approvals/modules/requests/infrastructure/registry"
	"github.com/iota-uz/approvals/modules/requests/services"
)

func newTestClient(t *testing.T, handler http.Handler) *registry.HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := logrus.New()
	log.SetOutput(io.Discard)
	return registry.NewHTTPClient(srv.URL, time.Second, log)
}

func TestHTTPClient_Exists(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/registries/division/div-1":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	exists, err := client.Exists(t.Context(), "division", "div-1")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = client.Exists(t.Context(), "division", "div-404")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestHTTPClient_Exists_ServerError(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.Exists(t.Context(), "division", "div-1")
	require.ErrorIs(t, err, services.ErrRegistryUnavailable)
}

func TestHTTPClient_Exists_Unreachable(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	log := logrus.New()
	log.SetOutput(io.Discard)
	client := registry.NewHTTPClient(srv.URL, time.Second, log)

	_, err := client.Exists(t.Context(), "division", "div-1")
	require.ErrorIs(t, err, services.ErrRegistryUnavailable)
}

func TestHTTPClient_CreateEntity(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/registries/employee", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Aziza", body["first_name"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "emp-77"}`))
	}))

	ref, err := client.CreateEntity(t.Context(), "employee", json.RawMessage(`{"first_name":"Aziza"}`))
	require.NoError(t, err)
	require.Equal(t, services.EntityRef{Type: "employee", ID: "emp-77"}, ref)
}

func TestHTTPClient_Grant(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/credentials", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "employee", body["entity_type"])
		require.Equal(t, "emp-77", body["entity_id"])
		require.Equal(t, "employee", body["role"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "cred-12", "role": "employee"}`))
	}))

	cred, err := client.Grant(t.Context(), services.EntityRef{Type: "employee", ID: "emp-77"}, services.RoleSpec{Role: "employee"})
	require.NoError(t, err)
	require.Equal(t, services.CredentialRef{ID: "cred-12", Role: "employee"}, cred)
}

func TestHTTPClient_CreateEntity_RemoteFailure(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))

	_, err := client.CreateEntity(t.Context(), "employee", json.RawMessage(`{}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "registry returned 502")
}
