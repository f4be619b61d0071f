package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes bounds request bodies accepted by DecodeJSON.
const maxBodyBytes = 1 << 20

// ErrEmptyBody is returned by DecodeJSON when the request has no body
var ErrEmptyBody = errors.New("request body is empty")

// ErrorResponse is the error envelope returned for every non-auth failure
type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   int               `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// AuthErrorResponse is the body written when the guard rejects a request
type AuthErrorResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

var statusMessages = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusNotFound:            "resource not found",
	http.StatusMethodNotAllowed:    "method not found",
	http.StatusUnprocessableEntity: "unprocessable",
	http.StatusInternalServerError: "internal server error",
	http.StatusServiceUnavailable:  "service unavailable",
}

// StatusMessage returns the envelope message for status
func StatusMessage(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return http.StatusText(status)
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes {"success": true, "action": action, key: payload}
func WriteSuccess(w http.ResponseWriter, status int, action, key string, payload interface{}) error {
	body := map[string]interface{}{
		"success": true,
		"action":  action,
	}
	if key != "" {
		body[key] = payload
	}
	return WriteJSON(w, status, body)
}

// WriteError writes the error envelope for status
func WriteError(w http.ResponseWriter, status int, details map[string]string) error {
	return WriteJSON(w, status, ErrorResponse{
		Success: false,
		Error:   status,
		Message: StatusMessage(status),
		Details: details,
	})
}

// WriteBadRequest writes a 400 Bad Request response with optional field details
func WriteBadRequest(w http.ResponseWriter, details map[string]string) error {
	return WriteError(w, http.StatusBadRequest, details)
}

// WriteNotFound writes a 404 Not Found response
func WriteNotFound(w http.ResponseWriter) error {
	return WriteError(w, http.StatusNotFound, nil)
}

// WriteMethodNotAllowed writes a 405 Method Not Allowed response
func WriteMethodNotAllowed(w http.ResponseWriter) error {
	return WriteError(w, http.StatusMethodNotAllowed, nil)
}

// WriteUnprocessable writes a 422 Unprocessable Entity response
func WriteUnprocessable(w http.ResponseWriter) error {
	return WriteError(w, http.StatusUnprocessableEntity, nil)
}

// WriteInternalServerError writes a 500 Internal Server Error response
func WriteInternalServerError(w http.ResponseWriter) error {
	return WriteError(w, http.StatusInternalServerError, nil)
}

// WriteAuthError writes {"code", "description"} with status
func WriteAuthError(w http.ResponseWriter, status int, code, description string) error {
	return WriteJSON(w, status, AuthErrorResponse{
		Code:        code,
		Description: description,
	})
}

// DecodeJSON decodes the request body into v
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return ErrEmptyBody
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
