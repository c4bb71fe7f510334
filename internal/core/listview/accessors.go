package listview

import "time"

// Present reports an empty string field as absent
func Present(s string) (string, bool) { return s, s != "" }

// Optional reports a nil numeric field as absent
func Optional(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Number reports a required numeric field
func Number(v float64) (float64, bool) { return v, true }

// Known reports a zero timestamp as absent
func Known(t time.Time) (time.Time, bool) { return t, !t.IsZero() }

// Texts drops empty strings from a search field list
func Texts(fields ...string) []string {
	out := fields[:0:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
