package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failure at the fetch boundary
type Kind string

const (
	KindTransport    Kind = "transport"
	KindUnauthorized Kind = "unauthorized"
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindServer       Kind = "server"
	KindDecode       Kind = "decode"
)

// Error is returned by every Client operation
type Error struct {
	Op      string            `json:"-"`
	Kind    Kind              `json:"kind"`
	Status  int               `json:"status,omitempty"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s: %s (%d): %s", e.Op, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("upstream %s: %s: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels below, so errors.Is(err, ErrUnauthorized) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrTransport    = &Error{Kind: KindTransport}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrValidation   = &Error{Kind: KindValidation}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrServer       = &Error{Kind: KindServer}
	ErrDecode       = &Error{Kind: KindDecode}
)

// KindOf returns the kind of an upstream error, or "" for anything else
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Retryable reports whether repeating the call can succeed without user action
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindTransport, KindServer:
		return true
	}
	return false
}

// statusError builds an Error from a non-2xx response
func statusError(op string, status int, body []byte) *Error {
	e := &Error{Op: op, Status: status}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindUnauthorized
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		e.Kind = KindValidation
	default:
		e.Kind = KindServer
	}
	e.Message, e.Fields = parseErrorBody(body)
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// parseErrorBody understands {"message": ..., "errors": {field: msg}},
// {"errors": {field: [msgs]}} and {"errors": [{"field": ..., "message": ...}]}
func parseErrorBody(body []byte) (string, map[string]string) {
	var env struct {
		Message string          `json:"message"`
		Error   string          `json:"error"`
		Errors  json.RawMessage `json:"errors"`
	}
	if len(body) == 0 || json.Unmarshal(body, &env) != nil {
		return strings.TrimSpace(string(body)), nil
	}
	msg := env.Message
	if msg == "" {
		msg = env.Error
	}
	if len(env.Errors) == 0 {
		return msg, nil
	}

	fields := map[string]string{}
	var flat map[string]string
	var multi map[string][]string
	var list []struct {
		Field   string `json:"field"`
		Path    string `json:"path"`
		Message string `json:"message"`
	}
	switch {
	case json.Unmarshal(env.Errors, &flat) == nil:
		fields = flat
	case json.Unmarshal(env.Errors, &multi) == nil:
		for k, v := range multi {
			fields[k] = strings.Join(v, "; ")
		}
	case json.Unmarshal(env.Errors, &list) == nil:
		for _, it := range list {
			key := it.Field
			if key == "" {
				key = it.Path
			}
			fields[key] = it.Message
		}
	}
	if len(fields) == 0 {
		fields = nil
	}
	return msg, fields
}
