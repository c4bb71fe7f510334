package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is one decoded page of a collection endpoint
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// DecodePage decodes {<itemsField>: [...], total, page, limit}. The items may also sit
// under "items" or "data", and a bare JSON array is accepted as a single page.
func DecodePage[T any](body []byte, itemsField string) (Page[T], error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return Page[T]{}, decodeErr(err)
		}
		return Page[T]{Items: nonNil(items), Total: len(items), Page: 1, Limit: len(items)}, nil
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return Page[T]{}, decodeErr(err)
	}

	var raw json.RawMessage
	for _, key := range []string{itemsField, "items", "data"} {
		if v, ok := env[key]; ok && key != "" {
			raw = v
			break
		}
	}
	if raw == nil {
		return Page[T]{}, decodeErr(fmt.Errorf("no %q, items or data field in response", itemsField))
	}

	var p Page[T]
	if err := json.Unmarshal(raw, &p.Items); err != nil {
		return Page[T]{}, decodeErr(err)
	}
	p.Items = nonNil(p.Items)
	p.Total = intField(env, "total", len(p.Items))
	p.Page = intField(env, "page", 1)
	p.Limit = intField(env, "limit", len(p.Items))
	return p, nil
}

// DecodeOne decodes a single entity, unwrapping {"data": {...}} when present
func DecodeOne[T any](body []byte) (T, error) {
	var out T
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && env.Data[0] == '{' {
		body = env.Data
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, decodeErr(err)
	}
	return out, nil
}

func intField(env map[string]json.RawMessage, key string, def int) int {
	raw, ok := env[key]
	if !ok {
		return def
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return def
	}
	i, err := n.Int64()
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil {
			return def
		}
		return int(f)
	}
	return int(i)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func decodeErr(err error) *Error {
	return &Error{Op: "decode", Kind: KindDecode, Message: err.Error(), Err: err}
}
