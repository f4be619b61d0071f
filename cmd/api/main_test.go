package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/casting-agency/app"
	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/config"
	"github.com/upb/casting-agency/middleware"
	"github.com/upb/casting-agency/routes"
	"go.uber.org/zap/zaptest"
)

// rejectAllAuthorizer rejects every request as if no Authorization header was sent
type rejectAllAuthorizer struct{}

func (rejectAllAuthorizer) Authorize(context.Context, http.Header, string) (auth.Claims, error) {
	return nil, auth.ErrAuthHeaderMissing
}

func TestMain(m *testing.M) {
	os.Setenv("ENVIRONMENT", "test")
	os.Setenv("LOG_LEVEL", "error")

	code := m.Run()

	os.Exit(code)
}

func TestInitLogger(t *testing.T) {
	t.Run("default json logger", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "info")
		t.Setenv("LOG_FORMAT", "json")

		logger, err := initLogger()
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer logger.Sync()
	})

	t.Run("development console logger", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "console")

		logger, err := initLogger()
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer logger.Sync()
	})

	t.Run("invalid log level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "invalid")
		t.Setenv("LOG_FORMAT", "json")

		logger, err := initLogger()
		assert.Error(t, err)
		assert.Nil(t, logger)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("defaults when not set", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("LOG_FORMAT", "")

		logger, err := initLogger()
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer logger.Sync()
	})
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zaptest.NewLogger(t)

	deps := &app.Dependencies{
		Config:         testConfig(t),
		Logger:         logger,
		AuthMiddleware: middleware.NewAuthMiddleware(rejectAllAuthorizer{}, logger),
	}

	ts := httptest.NewServer(routes.SetupRoutes(deps))
	t.Cleanup(ts.Close)
	return ts
}

func TestDeploymentWarnings(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		tls         bool
		origins     []string
		want        []string
	}{
		{"development tolerates defaults", "development", false, []string{"*"}, nil},
		{"production with tls and pinned origins", "production", true, []string{"https://casting.example.com"}, nil},
		{"production without tls", "prod", false, []string{"https://casting.example.com"}, []string{"TLS is disabled in production"}},
		{"production with any origin", "production", true, []string{"*"}, []string{"CORS allows any origin in production"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Environment: tt.environment}
			cfg.Server.TLS.Enabled = tt.tls
			cfg.Server.AllowedOrigins = tt.origins

			assert.Equal(t, tt.want, deploymentWarnings(cfg))
		})
	}
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	t.Run("health check returns ok", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("readiness fails without a database", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/readyz")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "not_ready", body["status"])
	})

	t.Run("welcome page is public", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))
	})
}

func TestAPIEndpoints(t *testing.T) {
	ts := newTestServer(t)

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"list actors", http.MethodGet, "/actors", http.StatusUnauthorized},
		{"get actor", http.MethodGet, "/actors/1", http.StatusUnauthorized},
		{"create actor", http.MethodPost, "/actors", http.StatusUnauthorized},
		{"update actor", http.MethodPatch, "/actors/1", http.StatusUnauthorized},
		{"delete actor", http.MethodDelete, "/actors/1", http.StatusUnauthorized},
		{"list movies", http.MethodGet, "/movies", http.StatusUnauthorized},
		{"get movie", http.MethodGet, "/movies/1", http.StatusUnauthorized},
		{"create movie", http.MethodPost, "/movies", http.StatusUnauthorized},
		{"update movie", http.MethodPatch, "/movies/1", http.StatusUnauthorized},
		{"delete movie", http.MethodDelete, "/movies/1", http.StatusUnauthorized},
		{"list castings", http.MethodGet, "/castings", http.StatusUnauthorized},
		{"get casting", http.MethodGet, "/castings/1", http.StatusUnauthorized},
		{"create casting", http.MethodPost, "/castings", http.StatusUnauthorized},
		{"delete casting", http.MethodDelete, "/castings/1", http.StatusUnauthorized},
		{"castings cannot be patched", http.MethodPatch, "/castings/1", http.StatusMethodNotAllowed},
		{"actors cannot be put", http.MethodPut, "/actors/1", http.StatusMethodNotAllowed},
		{"not found", http.MethodGet, "/directors", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, ts.URL+tc.path, nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "endpoint: %s %s", tc.method, tc.path)
		})
	}

	t.Run("rejection body", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/actors")
		require.NoError(t, err)
		defer resp.Body.Close()

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "authorization_header_missing", body["code"])
		assert.Equal(t, "Authorization header is expected.", body["description"])
	})
}

func TestCORSMiddleware(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/actors", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestRequestIDMiddleware(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.RequestIDHeader, "req-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-123", resp.Header.Get(middleware.RequestIDHeader))
}

func TestIntegrationWithRealDependencies(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	cfg := testConfig(t)
	logger := zaptest.NewLogger(t)

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		t.Skipf("skipping integration test: %v", err)
		return
	}
	defer deps.Close(ctx)

	ts := httptest.NewServer(routes.SetupRoutes(deps))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ready", body["status"])
	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "healthy", checks["database"])

	resp2, err := http.Get(ts.URL + "/actors")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}

// Test helpers

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Database: config.DatabaseConfig{
			Host:            getEnvOrDefault("DB_HOST", "localhost"),
			Port:            5432,
			User:            getEnvOrDefault("DB_USER", "postgres"),
			Password:        getEnvOrDefault("DB_PASSWORD", "postgres"),
			Database:        getEnvOrDefault("DB_NAME", "casting_agency_test"),
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Auth: config.AuthConfig{
			Domain:           "casting-agency.test.auth0.com",
			Audience:         "casting",
			Algorithms:       []string{"RS256"},
			JWKSURL:          "http://127.0.0.1:1/.well-known/jwks.json",
			JWKSCacheTTL:     time.Minute,
			JWKSFetchTimeout: 200 * time.Millisecond,
		},
		Observability: config.ObservabilityConfig{
			LogLevel:  "error",
			LogFormat: "json",
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
