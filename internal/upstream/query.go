package upstream

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Query holds the list parameters the marketplace API understands
type Query struct {
	Page      int
	Limit     int
	Status    string
	Category  string
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}

// Values encodes the query. Empty fields are left out.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	set := func(k, s string) {
		if s = strings.TrimSpace(s); s != "" {
			v.Set(k, s)
		}
	}
	set("status", q.Status)
	set("category", q.Category)
	set("search", q.Search)
	if q.StartDate != nil {
		v.Set("startDate", q.StartDate.UTC().Format(time.RFC3339Nano))
	}
	if q.EndDate != nil {
		v.Set("endDate", q.EndDate.UTC().Format(time.RFC3339Nano))
	}
	return v
}

// CacheKey is a stable encoding of the query (url.Values.Encode sorts keys)
func (q Query) CacheKey() string {
	return q.Values().Encode()
}
