package handlers

import (
	"fmt"
	"net/http"

	"github.com/upb/casting-agency/services"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	var writeErr error
	switch {
	case services.IsNotFoundError(err):
		writeErr = utils.WriteNotFound(w)

	case services.IsValidationError(err):
		logger.Debug("request rejected", zap.Error(err))
		writeErr = utils.WriteBadRequest(w, stringDetails(services.GetErrorDetails(err)))

	case services.IsInternalError(err):
		// Storage failures surface as 422 without detail.
		logger.Error("internal error", zap.Error(err))
		writeErr = utils.WriteUnprocessable(w)

	default:
		logger.Error("unhandled error type",
			zap.Error(err),
			zap.String("error_type", string(services.GetErrorType(err))))
		writeErr = utils.WriteUnprocessable(w)
	}

	if writeErr != nil {
		logger.Error("failed to write error response", zap.Error(writeErr))
	}
}

// HandleDecodeError answers a body that could not be decoded
func HandleDecodeError(w http.ResponseWriter, err error, logger *zap.Logger) {
	logger.Debug("malformed request body", zap.Error(err))
	if err := utils.WriteBadRequest(w, map[string]string{"body": err.Error()}); err != nil {
		logger.Error("failed to write bad request response", zap.Error(err))
	}
}

func stringDetails(details map[string]interface{}) map[string]string {
	if len(details) == 0 {
		return nil
	}
	out := make(map[string]string, len(details))
	for k, v := range details {
		out[k] = fmt.Sprint(v)
	}
	return out
}
