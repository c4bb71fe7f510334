package listview

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Query parameter names used for ranges: key "amount" reads minAmount/maxAmount,
// key "date" reads startDate/endDate.
func rangeParams(key string) (string, string) {
	return "min" + title(key), "max" + title(key)
}

func timeParams(key string) (string, string) {
	return "start" + title(key), "end" + title(key)
}

// ParseFilters reads every declared filter key from query parameters.
// Malformed values are dropped rather than reported.
func ParseFilters[T any](cfg Config[T], q url.Values) FilterState {
	state := FilterState{}
	for key, field := range cfg.Fields {
		var raw []string
		switch field.Kind {
		case KindRange:
			lo, hi := rangeParams(key)
			raw = []string{q.Get(lo), q.Get(hi)}
		case KindTimeRange:
			lo, hi := timeParams(key)
			raw = []string{q.Get(lo), q.Get(hi)}
		default:
			raw = q[key]
		}
		if v := ParseValue(field.Kind, raw); v != nil {
			state[key] = v
		}
	}
	return state
}

// ParseValue converts raw strings into the value type of kind. Ranges take
// [min, max] and time ranges [from, to], where an empty element is an open bound.
// It returns nil when the result would not constrain anything.
func ParseValue(kind Kind, raw []string) any {
	first := func() string {
		if len(raw) == 0 {
			return ""
		}
		return strings.TrimSpace(raw[0])
	}
	second := func() string {
		if len(raw) < 2 {
			return ""
		}
		return strings.TrimSpace(raw[1])
	}

	switch kind {
	case KindSearch, KindEqual:
		if s := first(); s != "" {
			return s
		}
	case KindRange:
		r := NumberRange{Min: parseFloat(first()), Max: parseFloat(second())}
		if r.Min != nil || r.Max != nil {
			return r
		}
	case KindTimeRange:
		r := TimeRange{From: parseTime(first(), false), To: parseTime(second(), true)}
		if r.From != nil || r.To != nil {
			return r
		}
	case KindSet:
		var set []string
		for _, v := range raw {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" && !slices.Contains(set, part) {
					set = append(set, part)
				}
			}
		}
		if len(set) > 0 {
			return set
		}
	case KindFlag:
		switch strings.ToLower(first()) {
		case "1", "true", "yes", "on":
			return true
		}
	}
	return nil
}

// EncodeFilters writes the applied filters of state back into query parameters
func EncodeFilters[T any](cfg Config[T], state FilterState) url.Values {
	q := url.Values{}
	for key, value := range state {
		field, ok := cfg.Fields[key]
		if !ok || !applied(field.Kind, value) {
			continue
		}
		switch field.Kind {
		case KindSearch, KindEqual:
			q.Set(key, strings.TrimSpace(value.(string)))
		case KindRange:
			r, _ := asNumberRange(value)
			lo, hi := rangeParams(key)
			if r.Min != nil {
				q.Set(lo, strconv.FormatFloat(*r.Min, 'f', -1, 64))
			}
			if r.Max != nil {
				q.Set(hi, strconv.FormatFloat(*r.Max, 'f', -1, 64))
			}
		case KindTimeRange:
			r, _ := asTimeRange(value)
			lo, hi := timeParams(key)
			if r.From != nil {
				q.Set(lo, r.From.UTC().Format(time.RFC3339Nano))
			}
			if r.To != nil {
				q.Set(hi, r.To.UTC().Format(time.RFC3339Nano))
			}
		case KindSet:
			q.Set(key, strings.Join(nonEmpty(value.([]string)), ","))
		case KindFlag:
			q.Set(key, "true")
		}
	}
	return q
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || finite(f) != f {
		return nil
	}
	return &f
}

// parseTime accepts RFC 3339 or a bare date. A bare upper bound covers the whole day.
func parseTime(s string, endOfDay bool) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}

func title(key string) string {
	if key == "" {
		return key
	}
	return strings.ToUpper(key[:1]) + key[1:]
}
