package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WemXPro/service-virtfusion/internal/config"
	"github.com/WemXPro/service-virtfusion/internal/service"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Server:         config.ServerConfig{Mode: "test"},
		JWT:            config.JWTConfig{SecretKey: "test-jwt-secret-test-jwt-secret-xx"},
		InternalSecret: "test-internal-secret-test-internal",
	}

	// Metadata and schema endpoints never touch the service dependencies.
	provisionService := service.NewProvisionService(nil, nil, nil, nil, nil, nil, nil, nil)

	return NewServer(cfg, provisionService, nil, nil)
}

func TestInternalAPIRejectsMissingSecret(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/internal/metadata", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMetadataEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/internal/metadata", nil)
	req.Header.Set("X-Internal-Secret", "test-internal-secret-test-internal")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var meta map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
	assert.Equal(t, "VirtFusion", meta["display_name"])
}

func TestConfigSchemaEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/internal/config/schema", nil)
	req.Header.Set("X-Internal-Secret", "test-internal-secret-test-internal")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "virtfusion::hostname")
	assert.Contains(t, rec.Body.String(), "virtfusion::api_key")
}

func TestPanelLoginRequiresJWT(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/ord-1/panel-login", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	assert.True(t, rl.Allow("user-1"))
	assert.True(t, rl.Allow("user-1"))
	assert.False(t, rl.Allow("user-1"))
	// Other keys are unaffected.
	assert.True(t, rl.Allow("user-2"))
}
