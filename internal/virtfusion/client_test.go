package virtfusion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSettings struct {
	host string
	key  string
}

func (s staticSettings) PanelHostname(ctx context.Context) (string, error) { return s.host, nil }
func (s staticSettings) PanelAPIKey(ctx context.Context) (string, error)  { return s.key, nil }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(staticSettings{host: srv.URL, key: "test-token"})
}

func TestCallSendsAuthHeaders(t *testing.T) {
	var gotAuth, gotAccept, gotContentType, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		w.Write([]byte(`{"data":{}}`))
	})

	_, err := client.Call(context.Background(), http.MethodGet, "/connect", nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "/api/v1/connect", gotPath)
}

func TestCallErrorsFieldWinsOverStatus(t *testing.T) {
	// The structured errors payload takes priority regardless of status code.
	for _, status := range []int{400, 401, 403, 422, 500, 503} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"errors":{"email":["The email has already been taken."]}}`))
		})

		_, err := client.Call(context.Background(), http.MethodPost, "/users", nil)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, "status %d", status)
		assert.Contains(t, validationErr.Error(), "The email has already been taken.")
	}
}

func TestCallMessageField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Server not found"}`))
	})

	_, err := client.Call(context.Background(), http.MethodGet, "/servers/1", nil)

	var msgErr *RemoteMessageError
	require.ErrorAs(t, err, &msgErr)
	assert.Equal(t, "VirtFusion: Server not found", msgErr.Error())
}

func TestCallAuthorizationError(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{}`))
		})

		_, err := client.Call(context.Background(), http.MethodGet, "/connect", nil)

		var authErr *AuthorizationError
		require.ErrorAs(t, err, &authErr, "status %d", status)
		assert.Equal(t, status, authErr.StatusCode)
	}
}

func TestCallRemoteServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{}`))
	})

	_, err := client.Call(context.Background(), http.MethodGet, "/connect", nil)

	var serverErr *RemoteServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Contains(t, serverErr.Error(), "503")
}

func TestCallConnectivityErrorOnOtherStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`not json`))
	})

	_, err := client.Call(context.Background(), http.MethodGet, "/connect", nil)

	var connErr *ConnectivityError
	require.ErrorAs(t, err, &connErr)
}

func TestCallConnectivityErrorOnUnreachableHost(t *testing.T) {
	client := NewClient(staticSettings{host: "http://127.0.0.1:1", key: "test-token"})

	_, err := client.Call(context.Background(), http.MethodGet, "/connect", nil)

	var connErr *ConnectivityError
	require.ErrorAs(t, err, &connErr)
	assert.NotNil(t, errors.Unwrap(connErr))
}

func TestCreateServerBody(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.Write([]byte(`{"data":{"id":123,"name":"vm-123"}}`))
	})

	server, err := client.CreateServer(context.Background(), CreateServerRequest{
		PackageID:    3,
		UserID:       9,
		HypervisorID: 7,
		IPv4:         2,
		Storage:      40,
		Memory:       2048,
		CPUCores:     4,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"packageId":    float64(3),
		"userId":       float64(9),
		"hypervisorId": float64(7),
		"ipv4":         float64(2),
		"storage":      float64(40),
		"memory":       float64(2048),
		"cpuCores":     float64(4),
	}, gotBody)

	assert.Equal(t, 123, server.ID)
	assert.JSONEq(t, `{"id":123,"name":"vm-123"}`, string(server.Raw))
}

func TestDeleteServerUsesGracePeriod(t *testing.T) {
	var gotMethod, gotPath, gotDelay string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotDelay = r.URL.Query().Get("delay")
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteServer(context.Background(), 555))

	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/v1/servers/555", gotPath)
	assert.Equal(t, "5", gotDelay)
}

func TestSuspendAndUnsuspendEndpoints(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.Write([]byte(`{"data":{}}`))
	})

	require.NoError(t, client.SuspendServer(context.Background(), 42))
	require.NoError(t, client.UnsuspendServer(context.Background(), 42))

	assert.Equal(t, []string{
		"POST /api/v1/servers/42/suspend",
		"POST /api/v1/servers/42/unsuspend",
	}, paths)
}

func TestCreateUser(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.Write([]byte(`{"data":{"id":77,"name":"Jane Doe","email":"jane@example.com"}}`))
	})

	user, err := client.CreateUser(context.Background(), CreateUserRequest{
		Name:          "Jane Doe",
		Email:         "jane@example.com",
		ExtRelationID: 15,
		SendMail:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, float64(15), gotBody["extRelationId"])
	assert.Equal(t, true, gotBody["sendMail"])
	assert.Equal(t, 77, user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
}

func TestServerLoginToken(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"data":{"authentication":{"token_base":"abc","endpoint_complete":"https://panel.test/auth/abc"}}}`))
	})

	token, err := client.ServerLoginToken(context.Background(), 77, 123)
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/users/77/serverAuthenticationTokens/123", gotPath)
	assert.Equal(t, "https://panel.test/auth/abc", token.RedirectURL())
}

func TestListPackages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":1,"name":"Starter","enabled":true},{"id":2,"name":"Legacy","enabled":false}]}`))
	})

	packages, err := client.ListPackages(context.Background())
	require.NoError(t, err)

	require.Len(t, packages, 2)
	assert.Equal(t, "Starter", packages[0].Name)
	assert.False(t, packages[1].Enabled)
}
