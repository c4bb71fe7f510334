package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	middlewarex "fashionmart/internal/http/middleware"
	"fashionmart/internal/services/collection"
	"fashionmart/internal/services/views"
	"fashionmart/internal/store/repositories"
	"fashionmart/internal/upstream"
)

const maxBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var (
	notFound   = []error{collection.ErrUnknownResource, collection.ErrSessionNotFound, collection.ErrNoSavedViews, repositories.ErrNotFound}
	badRequest = []error{collection.ErrUnknownSort, collection.ErrUnknownFilter, collection.ErrUnsupportedFormat}
)

// matches returns the first target err wraps, or nil
func matches(err error, targets ...error) error {
	for _, t := range targets {
		if errors.Is(err, t) {
			return t
		}
	}
	return nil
}

// writeError maps service and upstream errors onto HTTP responses
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ue *upstream.Error
	var ve *views.ValidationError

	switch {
	case errors.As(err, &ue):
		switch ue.Kind {
		case upstream.KindUnauthorized:
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized", "sign_in": true})
		case upstream.KindValidation:
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "validation", "message": ue.Message, "fields": ue.Fields})
		case upstream.KindNotFound:
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "not_found", "message": ue.Message})
		default:
			middlewarex.Logger(r.Context()).Warn().Err(err).Msg("upstream failure")
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": string(ue.Kind), "message": ue.Message, "retryable": upstream.Retryable(err)})
		}
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "validation", "fields": ve.Fields})
	case matches(err, notFound...) != nil:
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "not_found", "message": matches(err, notFound...).Error()})
	case matches(err, badRequest...) != nil:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad_request", "message": matches(err, badRequest...).Error()})
	case errors.Is(err, views.ErrNoOwner):
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized", "sign_in": true})
	default:
		middlewarex.Logger(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
	}
}

// decodeBody reads a JSON request body into v. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad_request", "message": "invalid JSON body"})
		return false
	}
	return true
}
