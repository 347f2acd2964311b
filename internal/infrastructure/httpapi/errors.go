package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/felixgeelhaar/nihulit/pkg/application"
	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
	"github.com/felixgeelhaar/nihulit/pkg/domain/dependency"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
	"github.com/felixgeelhaar/nihulit/pkg/domain/session"
)

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, planning.ErrTaskNotFound),
		errors.Is(err, planning.ErrProjectNotFound),
		errors.Is(err, dependency.ErrDependencyNotFound):
		return http.StatusNotFound
	case errors.Is(err, access.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, session.ErrExpired),
		errors.Is(err, application.ErrUnknownUser),
		errors.Is(err, application.ErrInactiveUser):
		return http.StatusUnauthorized
	case errors.Is(err, dependency.ErrCyclicDependency),
		errors.Is(err, planning.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, planning.ErrInvalidTask),
		errors.Is(err, dependency.ErrSelfDependency),
		errors.Is(err, dependency.ErrCrossProject):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
