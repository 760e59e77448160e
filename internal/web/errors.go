package web

// errors.go provides unified error responses: technical details are
// logged server-side with the request ID; clients get the mapped
// user-facing message and a stable support code.

import (
	"encoding/json"
	"net/http"

	"github.com/Jacklau9515AI/PPSR.Registration/internal/logging"
	"github.com/Jacklau9515AI/PPSR.Registration/internal/registration"
)

// ErrorResponse is the JSON envelope for error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs the technical error and writes the client-safe
// rendering.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := registration.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}
