package ticket

import (
	"time"

	"fashionmart/internal/core/listview"
)

const (
	Resource   = "tickets"
	ItemsField = "tickets"
)

// Ticket is a support ticket in the staff support queue
type Ticket struct {
	ID            string    `json:"id"`
	Subject       string    `json:"subject"`
	Description   string    `json:"description"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	Category      string    `json:"category"`
	Priority      Priority  `json:"priority"`
	Status        Status    `json:"status"`
	AssigneeID    string    `json:"assigneeId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Rank orders priorities from low (1) to urgent (4); unknown values rank 0
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	}
	return 0
}

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

const SortPriority listview.SortKey = "priority"

func (t Ticket) Key() string { return t.ID }

// Done reports whether the ticket needs no further work
func (t Ticket) Done() bool {
	return t.Status == StatusResolved || t.Status == StatusClosed
}

func View() listview.Config[Ticket] {
	created := func(t Ticket) time.Time { return t.CreatedAt }

	return listview.Config[Ticket]{
		Fields: map[string]listview.Field[Ticket]{
			"search": {Kind: listview.KindSearch, Text: func(t Ticket) []string {
				return listview.Texts(t.Subject, t.Description, t.CustomerName, t.CustomerEmail)
			}},
			"status":   {Kind: listview.KindEqual, String: func(t Ticket) (string, bool) { return listview.Present(string(t.Status)) }},
			"priority": {Kind: listview.KindEqual, String: func(t Ticket) (string, bool) { return listview.Present(string(t.Priority)) }},
			"category": {Kind: listview.KindEqual, String: func(t Ticket) (string, bool) { return listview.Present(t.Category) }},
			"date":     {Kind: listview.KindTimeRange, Time: func(t Ticket) (time.Time, bool) { return listview.Known(t.CreatedAt) }},
		},
		Sorts: map[listview.SortKey]listview.Sort[Ticket]{
			listview.SortNewest: {Kind: listview.TimeDesc, Time: created},
			listview.SortOldest: {Kind: listview.TimeAsc, Time: created},
			SortPriority:        {Kind: listview.NumberDesc, Number: func(t Ticket) float64 { return float64(t.Priority.Rank()) }},
		},
		DefaultSort: listview.SortNewest,
		ServerKeys:  []string{"search", "status", "category", "date"},
	}
}

type Summary struct {
	Total             int            `json:"total"`
	ByStatus          map[string]int `json:"by_status"`
	ByPriority        map[string]int `json:"by_priority"`
	Open              int            `json:"open"`
	ResolutionPercent int            `json:"resolution_percent"`
}

func Summarize(items []Ticket) Summary {
	done := listview.Count(items, Ticket.Done)
	return Summary{
		Total: len(items),
		ByStatus: listview.CountBy(items, func(t Ticket) string { return string(t.Status) },
			string(StatusOpen), string(StatusInProgress), string(StatusResolved), string(StatusClosed)),
		ByPriority: listview.CountBy(items, func(t Ticket) string { return string(t.Priority) },
			string(PriorityLow), string(PriorityMedium), string(PriorityHigh), string(PriorityUrgent)),
		Open:              len(items) - done,
		ResolutionPercent: listview.Percentage(done, len(items)),
	}
}
