package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"StockLens/internal/apperr"
	"StockLens/internal/logging"
)

type apiError struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type apiResponse[T any] struct {
	Data T `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData[T any](w http.ResponseWriter, v T) {
	writeJSON(w, http.StatusOK, apiResponse[T]{Data: v})
}

// statusFor maps a failure kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrDirectoryUnavailable), errors.Is(err, apperr.ErrProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := apiError{Error: err.Error()}
	if k, ok := apperr.KindOf(err); ok {
		body.Kind = string(k)
	}
	log := logging.FromContext(r.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Int("status", status), zap.Error(err))
	} else {
		log.Info("request rejected", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, body)
}
