package listview

import (
	"math"
	"strings"
	"time"
)

// Kind identifies how a filter key is matched against an item
type Kind int

const (
	KindSearch Kind = iota
	KindEqual
	KindRange
	KindTimeRange
	KindSet
	KindFlag
)

// Field declares one filter key of a resource. Only the accessor matching Kind is consulted.
type Field[T any] struct {
	Kind   Kind
	Text   func(T) []string
	String func(T) (string, bool)
	Number func(T) (float64, bool)
	Time   func(T) (time.Time, bool)
	Set    func(T) []string
	Flag   func(T) bool
}

// NumberRange is an inclusive numeric bound. A nil bound is open.
type NumberRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// TimeRange is an inclusive time window. A nil bound is open.
type TimeRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// FilterState maps a filter key to its current value. Absent keys are unconstrained.
type FilterState map[string]any

// Clone returns a shallow copy of the state
func (s FilterState) Clone() FilterState {
	out := make(FilterState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Matches reports whether item satisfies every applied filter in state.
// Keys not declared in cfg and values of the wrong type are ignored.
func Matches[T any](cfg Config[T], state FilterState, item T) bool {
	for key, value := range state {
		field, ok := cfg.Fields[key]
		if !ok || !applied(field.Kind, value) {
			continue
		}
		if !field.match(value, item) {
			return false
		}
	}
	return true
}

// Filter returns the items matching state, preserving input order. The input is not modified.
func Filter[T any](items []T, cfg Config[T], state FilterState) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Matches(cfg, state, it) {
			out = append(out, it)
		}
	}
	return out
}

// applied reports whether value constrains a field of the given kind
func applied(kind Kind, value any) bool {
	switch kind {
	case KindSearch, KindEqual:
		s, ok := value.(string)
		return ok && strings.TrimSpace(s) != ""
	case KindRange:
		r, ok := asNumberRange(value)
		return ok && (r.Min != nil || r.Max != nil)
	case KindTimeRange:
		r, ok := asTimeRange(value)
		return ok && (r.From != nil || r.To != nil)
	case KindSet:
		set, ok := value.([]string)
		return ok && len(nonEmpty(set)) > 0
	case KindFlag:
		b, ok := value.(bool)
		return ok && b
	}
	return false
}

func (f Field[T]) match(value any, item T) bool {
	switch f.Kind {
	case KindSearch:
		if f.Text == nil {
			return false
		}
		q := strings.ToLower(strings.TrimSpace(value.(string)))
		for _, text := range f.Text(item) {
			if strings.Contains(strings.ToLower(text), q) {
				return true
			}
		}
		return false

	case KindEqual:
		if f.String == nil {
			return false
		}
		v, ok := f.String(item)
		return ok && v == value.(string)

	case KindRange:
		if f.Number == nil {
			return false
		}
		v, ok := f.Number(item)
		if !ok || math.IsNaN(v) {
			return false
		}
		r, _ := asNumberRange(value)
		if r.Min != nil && v < *r.Min {
			return false
		}
		if r.Max != nil && v > *r.Max {
			return false
		}
		return true

	case KindTimeRange:
		if f.Time == nil {
			return false
		}
		t, ok := f.Time(item)
		if !ok || t.IsZero() {
			return false
		}
		r, _ := asTimeRange(value)
		if r.From != nil && t.Before(*r.From) {
			return false
		}
		if r.To != nil && t.After(*r.To) {
			return false
		}
		return true

	case KindSet:
		if f.Set == nil {
			return false
		}
		want := nonEmpty(value.([]string))
		for _, have := range f.Set(item) {
			for _, w := range want {
				if have == w {
					return true
				}
			}
		}
		return false

	case KindFlag:
		if f.Flag == nil {
			return false
		}
		return f.Flag(item)
	}
	return false
}

func asNumberRange(v any) (NumberRange, bool) {
	switch r := v.(type) {
	case NumberRange:
		return r, true
	case *NumberRange:
		if r == nil {
			return NumberRange{}, false
		}
		return *r, true
	}
	return NumberRange{}, false
}

func asTimeRange(v any) (TimeRange, bool) {
	switch r := v.(type) {
	case TimeRange:
		return r, true
	case *TimeRange:
		if r == nil {
			return TimeRange{}, false
		}
		return *r, true
	}
	return TimeRange{}, false
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
