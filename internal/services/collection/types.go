package collection

import (
	"net/url"
	"strconv"
	"strings"

	"fashionmart/internal/core/listview"
)

// ListRequest represents a one-shot list view request
type ListRequest struct {
	Resource string
	Filters  url.Values
	Sort     listview.SortKey
	Page     int
	Limit    int
}

// NewListRequest reads sort, page and limit from q; every other parameter is a filter
func NewListRequest(resource string, q url.Values) ListRequest {
	req := ListRequest{Resource: resource, Filters: url.Values{}, Sort: listview.SortKey(strings.TrimSpace(q.Get("sort")))}
	req.Page, _ = strconv.Atoi(q.Get("page"))
	req.Limit, _ = strconv.Atoi(q.Get("limit"))
	for k, v := range q {
		switch k {
		case "sort", "page", "limit":
		default:
			req.Filters[k] = v
		}
	}
	return req
}

// Validate validates and normalizes list request parameters
func (req *ListRequest) Validate() {
	// Set defaults
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Page < 1 {
		req.Page = 1
	}

	// Apply limits
	if req.Limit > 200 {
		req.Limit = 200
	}
}

// OpenRequest opens a session. Query uses the same encoding as list URLs,
// e.g. "status=shipped&minAmount=10".
type OpenRequest struct {
	Resource    string `json:"resource"`
	Query       string `json:"query"`
	Sort        string `json:"sort"`
	Limit       int    `json:"limit"`
	SavedViewID string `json:"saved_view_id"`
}

// Overview maps resource name to its stat cards
type Overview map[string]any
