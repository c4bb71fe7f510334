package returns

import (
	"time"

	"fashionmart/internal/core/listview"

	"github.com/shopspring/decimal"
)

const (
	Resource   = "returns"
	ItemsField = "returns"
)

// Request is a customer return request handled by staff
type Request struct {
	ID            string    `json:"id"`
	OrderNumber   string    `json:"orderNumber"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	ProductName   string    `json:"productName"`
	Reason        Reason    `json:"reason"`
	Notes         string    `json:"notes"`
	Status        Status    `json:"status"`
	RefundAmount  *float64  `json:"refundAmount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Status string

const (
	StatusRequested Status = "requested"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusReceived  Status = "received"
	StatusRefunded  Status = "refunded"
)

type Reason string

const (
	ReasonSize      Reason = "wrong_size"
	ReasonDefective Reason = "defective"
	ReasonNotAsSeen Reason = "not_as_described"
	ReasonChanged   Reason = "changed_mind"
)

const SortAmountHigh listview.SortKey = "amount_high"

func (r Request) Key() string { return r.ID }

// accepted covers every state after staff approved the return
func (r Request) accepted() bool {
	switch r.Status {
	case StatusApproved, StatusReceived, StatusRefunded:
		return true
	}
	return false
}

func View() listview.Config[Request] {
	created := func(r Request) time.Time { return r.CreatedAt }

	return listview.Config[Request]{
		Fields: map[string]listview.Field[Request]{
			"search": {Kind: listview.KindSearch, Text: func(r Request) []string {
				return listview.Texts(r.OrderNumber, r.CustomerName, r.CustomerEmail, r.ProductName, string(r.Reason))
			}},
			"status": {Kind: listview.KindEqual, String: func(r Request) (string, bool) { return listview.Present(string(r.Status)) }},
			"reason": {Kind: listview.KindEqual, String: func(r Request) (string, bool) { return listview.Present(string(r.Reason)) }},
			"date":   {Kind: listview.KindTimeRange, Time: func(r Request) (time.Time, bool) { return listview.Known(r.CreatedAt) }},
		},
		Sorts: map[listview.SortKey]listview.Sort[Request]{
			listview.SortNewest: {Kind: listview.TimeDesc, Time: created},
			listview.SortOldest: {Kind: listview.TimeAsc, Time: created},
			SortAmountHigh:      {Kind: listview.NumberDesc, Number: func(r Request) float64 { return listview.Float(r.RefundAmount) }},
		},
		DefaultSort: listview.SortNewest,
		ServerKeys:  []string{"search", "status", "date"},
	}
}

type Summary struct {
	Total           int             `json:"total"`
	ByStatus        map[string]int  `json:"by_status"`
	RefundTotal     decimal.Decimal `json:"refund_total"`
	ApprovalPercent int             `json:"approval_percent"`
}

func Summarize(items []Request) Summary {
	refunded := listview.Filter(items, View(), listview.FilterState{"status": string(StatusRefunded)})
	return Summary{
		Total: len(items),
		ByStatus: listview.CountBy(items, func(r Request) string { return string(r.Status) },
			string(StatusRequested), string(StatusApproved), string(StatusRejected), string(StatusReceived), string(StatusRefunded)),
		RefundTotal:     listview.SumDecimal(refunded, func(r Request) decimal.Decimal { return listview.Decimal(r.RefundAmount) }),
		ApprovalPercent: listview.Percentage(listview.Count(items, Request.accepted), len(items)),
	}
}
