package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/upb/casting-agency/app"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

const welcomeMessage = "Welcome to the empty main page!"

// Welcome answers GET / with a plain text greeting
func Welcome(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(welcomeMessage))
	}
}

// NotFound answers unknown paths with the error envelope
func NotFound(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteNotFound(w)
}

// MethodNotAllowed answers known paths hit with the wrong method
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteMethodNotAllowed(w)
}

// pathID returns the {id} URL parameter. Anything that is not a positive
// integer cannot name a row, so callers answer 404.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func respond(w http.ResponseWriter, logger *zap.Logger, status int, action, key string, payload interface{}) {
	if err := utils.WriteSuccess(w, status, action, key, payload); err != nil {
		logger.Error("failed to write response", zap.String("action", action), zap.Error(err))
	}
}
