package server

import (
	"encoding/json"
	"net/http"

	perrors "github.com/matzehuels/parsets/pkg/errors"
	"github.com/matzehuels/parsets/pkg/observability"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

// ErrorDetail carries the machine-readable code and a user-facing message.
type ErrorDetail struct {
	Code    perrors.Code `json:"code"`
	Message string       `json:"message"`
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(err error) int {
	switch code := perrors.GetCode(err); {
	case perrors.IsValidation(err):
		return http.StatusBadRequest
	case code == perrors.ErrCodeNotFound, code == perrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case code == perrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case code == perrors.ErrCodeNetwork:
		return http.StatusBadGateway
	case code == perrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	id := RequestID(r.Context())
	code := perrors.GetCode(err)
	if code == "" {
		code = perrors.ErrCodeInternal
	}

	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, id, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request", id, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "request", id, "path", r.URL.Path, "err", err)
	}

	msg := perrors.UserMessage(err)
	if perrors.GetCode(err) == "" {
		msg = "internal error"
	}
	writeJSON(w, status, ErrorBody{
		Error:     ErrorDetail{Code: code, Message: msg},
		RequestID: id,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
