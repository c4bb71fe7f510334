package payment

import (
	"time"

	"fashionmart/internal/core/listview"

	"github.com/shopspring/decimal"
)

const (
	Resource   = "payments"
	ItemsField = "payments"
)

// Payment represents a payment transaction as returned by the marketplace API
type Payment struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"orderId"`
	Reference     string    `json:"reference"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	Amount        *float64  `json:"amount"`
	Currency      Currency  `json:"currency"`
	Status        Status    `json:"status"`
	Method        Method    `json:"method"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Currency represents a currency code
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	KES Currency = "KES"
)

// Status represents payment status
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

// Method represents payment method
type Method string

const (
	MethodCard   Method = "card"
	MethodBank   Method = "bank"
	MethodWallet Method = "wallet"
	MethodCOD    Method = "cod"
)

// Sort keys specific to payments
const (
	SortAmountHigh listview.SortKey = "amount_high"
	SortAmountLow  listview.SortKey = "amount_low"
)

// Key returns the payment identifier
func (p Payment) Key() string { return p.ID }

// IsCompleted checks if payment is in completed state
func (p Payment) IsCompleted() bool {
	return p.Status == StatusCompleted
}

// CanBeRefunded checks if a refund action makes sense for this payment
func (p Payment) CanBeRefunded() bool {
	return p.Status == StatusCompleted
}

// View returns the list configuration for payment tables
func View() listview.Config[Payment] {
	amount := func(p Payment) float64 { return listview.Float(p.Amount) }
	created := func(p Payment) time.Time { return p.CreatedAt }

	return listview.Config[Payment]{
		Fields: map[string]listview.Field[Payment]{
			"search": {Kind: listview.KindSearch, Text: func(p Payment) []string {
				return listview.Texts(p.Reference, p.OrderID, p.CustomerName, p.CustomerEmail)
			}},
			"status": {Kind: listview.KindEqual, String: func(p Payment) (string, bool) { return listview.Present(string(p.Status)) }},
			"method": {Kind: listview.KindEqual, String: func(p Payment) (string, bool) { return listview.Present(string(p.Method)) }},
			"amount": {Kind: listview.KindRange, Number: func(p Payment) (float64, bool) { return listview.Optional(p.Amount) }},
			"date":   {Kind: listview.KindTimeRange, Time: func(p Payment) (time.Time, bool) { return listview.Known(p.CreatedAt) }},
		},
		Sorts: map[listview.SortKey]listview.Sort[Payment]{
			listview.SortNewest: {Kind: listview.TimeDesc, Time: created},
			listview.SortOldest: {Kind: listview.TimeAsc, Time: created},
			SortAmountHigh:      {Kind: listview.NumberDesc, Number: amount},
			SortAmountLow:       {Kind: listview.NumberAsc, Number: amount},
		},
		DefaultSort: listview.SortNewest,
		ServerKeys:  []string{"search", "status", "date"},
	}
}

// Summary holds the payment management stat cards
type Summary struct {
	Total         int             `json:"total"`
	ByStatus      map[string]int  `json:"by_status"`
	Revenue       decimal.Decimal `json:"revenue"`
	Refunded      decimal.Decimal `json:"refunded"`
	SuccessRate   int             `json:"success_rate"`
	AverageAmount float64         `json:"average_amount"`
}

// Summarize derives the stat cards from a payment collection
func Summarize(items []Payment) Summary {
	completed := listview.Filter(items, View(), listview.FilterState{"status": string(StatusCompleted)})
	refunded := listview.Filter(items, View(), listview.FilterState{"status": string(StatusRefunded)})
	money := func(p Payment) decimal.Decimal { return listview.Decimal(p.Amount) }

	return Summary{
		Total: len(items),
		ByStatus: listview.CountBy(items, func(p Payment) string { return string(p.Status) },
			string(StatusPending), string(StatusCompleted), string(StatusFailed), string(StatusRefunded)),
		Revenue:       listview.SumDecimal(completed, money),
		Refunded:      listview.SumDecimal(refunded, money),
		SuccessRate:   listview.Percentage(len(completed), len(items)),
		AverageAmount: listview.Average(items, func(p Payment) float64 { return listview.Float(p.Amount) }),
	}
}
