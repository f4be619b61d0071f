package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/casting-agency/app"
	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/middleware"
	"github.com/upb/casting-agency/repositories/postgres"
	"github.com/upb/casting-agency/services"
	"go.uber.org/zap/zaptest"
)

// stubVerifier maps raw tokens to claims, standing in for signature checks.
type stubVerifier map[string]auth.Claims

func (s stubVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, auth.ErrUnparseableToken
}

var tokens = stubVerifier{
	"assistant": {"sub": "auth0|assistant", "permissions": []any{"get:actors", "get:movies", "get:castings"}},
	"director": {"sub": "auth0|director", "permissions": []any{
		"get:actors", "post:actors", "patch:actors", "delete:actors",
		"get:movies", "patch:movies", "get:castings", "post:castings", "delete:castings",
	}},
	"no-permissions": {"sub": "auth0|nobody"},
}

func newRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = sqlDB.Close()
	})

	logger := zaptest.NewLogger(t)
	factory := postgres.NewRepositoryFactoryFromDB(postgres.Wrap(sqlDB, logger), logger)
	repos := factory.NewRepositories()
	txMgr := factory.GetTransactionManager()

	deps := &app.Dependencies{
		Logger:         logger,
		ActorService:   services.NewActorService(repos.Actors, txMgr, logger),
		MovieService:   services.NewMovieService(repos.Movies, txMgr, logger),
		CastingService: services.NewCastingService(repos.Castings, repos.Actors, repos.Movies, txMgr, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(auth.NewGuard(tokens), logger),
	}
	return SetupRoutes(deps), mock
}

func do(t *testing.T, h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSetupRoutes_Authorization(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		path         string
		token        string
		expectedCode string
		expected     int
	}{
		{"no header", http.MethodGet, "/actors", "", "authorization_header_missing", http.StatusUnauthorized},
		{"unverifiable token", http.MethodGet, "/movies", "forged", "invalid_header", http.StatusBadRequest},
		{"permissions claim missing", http.MethodGet, "/castings", "no-permissions", "invalid_claims", http.StatusBadRequest},
		{"assistant cannot delete actors", http.MethodDelete, "/actors/1", "assistant", "unauthorized", http.StatusUnauthorized},
		{"director cannot add movies", http.MethodPost, "/movies", "director", "unauthorized", http.StatusUnauthorized},
		{"director cannot delete movies", http.MethodDelete, "/movies/1", "director", "unauthorized", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newRouter(t)
			w := do(t, h, tt.method, tt.path, tt.token)

			assert.Equal(t, tt.expected, w.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.expectedCode, body["code"])
			assert.NotEmpty(t, body["description"])
		})
	}
}

func TestSetupRoutes_GrantedRequestReachesHandler(t *testing.T) {
	h, mock := newRouter(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM actors")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "age", "gender", "created_at", "updated_at"}).
			AddRow(1, "Keanu Reeves", 58, "male", now, now))

	w := do(t, h, http.MethodGet, "/actors", "assistant")

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["actors"], 1)
}

func TestSetupRoutes_InvalidIDAfterAuthorization(t *testing.T) {
	h, _ := newRouter(t)

	w := do(t, h, http.MethodGet, "/castings/abc", "assistant")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "resource not found", body["message"])
}

func TestSetupRoutes_Envelopes(t *testing.T) {
	h, _ := newRouter(t)

	t.Run("unknown path", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/nowhere", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("wrong method", func(t *testing.T) {
		w := do(t, h, http.MethodPut, "/movies/1", "director")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Contains(t, w.Body.String(), "method not found")
	})

	t.Run("welcome", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Welcome to the empty main page!", w.Body.String())
	})
}
