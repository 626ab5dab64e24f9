package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ololeeye/ololeeye/internal/apperr"
	"github.com/ololeeye/ololeeye/internal/logger"
)

// errorBody is the wire shape of every failure response.
type errorBody struct {
	Error struct {
		Kind    apperr.Kind `json:"kind"`
		Message string      `json:"message"`
	} `json:"error"`
}

var kindStatus = map[apperr.Kind]int{
	apperr.KindValidation: http.StatusBadRequest,
	apperr.KindAuth:       http.StatusUnauthorized,
	apperr.KindPermission: http.StatusForbidden,
	apperr.KindNotFound:   http.StatusNotFound,
	apperr.KindNetwork:    http.StatusGatewayTimeout,
	apperr.KindServer:     http.StatusBadGateway,
	apperr.KindOffline:    http.StatusServiceUnavailable,
	apperr.KindInternal:   http.StatusInternalServerError,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps a classified error to a status and a sanitized body.
// Unclassified causes are logged server-side and never leak to the
// client.
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	var body errorBody
	body.Error.Kind = kind
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		body.Error.Message = appErr.Message
	} else {
		logger.Log.Error().Err(err).Msg("unclassified error")
		body.Error.Message = "internal error"
	}
	writeJSON(w, status, &body)
}

// decodeBody decodes a JSON request body, converting failures into
// validation errors.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.KindValidation, "invalid request body", err)
	}
	return nil
}
