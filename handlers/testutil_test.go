package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/upb/casting-agency/app"
	"github.com/upb/casting-agency/repositories/postgres"
	"github.com/upb/casting-agency/services"
	"go.uber.org/zap/zaptest"
)

// newTestDeps wires real services and repositories over sqlmock.
func newTestDeps(t *testing.T) (*app.Dependencies, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = sqlDB.Close()
	})

	logger := zaptest.NewLogger(t)
	db := postgres.Wrap(sqlDB, logger)
	factory := postgres.NewRepositoryFactoryFromDB(db, logger)
	repos := factory.NewRepositories()
	txMgr := factory.GetTransactionManager()

	deps := &app.Dependencies{
		DB:             db,
		Logger:         logger,
		RepoFactory:    factory,
		Actors:         repos.Actors,
		Movies:         repos.Movies,
		Castings:       repos.Castings,
		TxManager:      txMgr,
		ActorService:   services.NewActorService(repos.Actors, txMgr, logger),
		MovieService:   services.NewMovieService(repos.Movies, txMgr, logger),
		CastingService: services.NewCastingService(repos.Castings, repos.Actors, repos.Movies, txMgr, logger),
	}
	return deps, mock
}

// serve routes one request through a chi router holding h at pattern.
func serve(t *testing.T, h http.HandlerFunc, method, pattern, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	r := chi.NewRouter()
	r.Method(method, pattern, h)

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}
