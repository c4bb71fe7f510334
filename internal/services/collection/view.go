package collection

import (
	"errors"
	"net/url"
	"time"

	"fashionmart/internal/core/listview"
	"fashionmart/internal/upstream"
)

// View is the rendered state of one list view, ready for JSON
type View struct {
	Session   string             `json:"session_id,omitempty"`
	Resource  string             `json:"resource"`
	Items     any                `json:"items"`
	Matched   int                `json:"matched"`
	Total     int                `json:"total"`
	Sort      listview.SortKey   `json:"sort"`
	Sorts     []listview.SortKey `json:"sorts"`
	Filters   url.Values         `json:"filters"`
	Page      int                `json:"page"`
	Limit     int                `json:"limit"`
	HasMore   bool               `json:"has_more"`
	Summary   any                `json:"summary"`
	Loading   bool               `json:"loading"`
	Error     *ErrorState        `json:"error"`
	FetchedAt *time.Time         `json:"fetched_at,omitempty"`
}

// ErrorState is the last fetch failure of a view. The client offers a retry.
type ErrorState struct {
	Kind      string            `json:"kind"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Retryable bool              `json:"retryable"`
}

func errorState(err error) *ErrorState {
	if err == nil {
		return nil
	}
	var ue *upstream.Error
	if errors.As(err, &ue) {
		return &ErrorState{Kind: string(ue.Kind), Message: ue.Message, Fields: ue.Fields, Retryable: upstream.Retryable(err)}
	}
	return &ErrorState{Kind: "internal", Message: err.Error(), Retryable: true}
}
