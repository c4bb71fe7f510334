package order

import (
	"time"

	"fashionmart/internal/core/listview"

	"github.com/shopspring/decimal"
)

const (
	Resource   = "orders"
	ItemsField = "orders"
)

// Order is a customer order as listed by the marketplace API
type Order struct {
	ID            string     `json:"id"`
	OrderNumber   string     `json:"orderNumber"`
	CustomerName  string     `json:"customerName"`
	CustomerEmail string     `json:"customerEmail"`
	Status        Status     `json:"status"`
	Total         *float64   `json:"total"`
	Items         []LineItem `json:"items"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// LineItem is one product line of an order
type LineItem struct {
	ProductID   string   `json:"productId"`
	ProductName string   `json:"productName"`
	Quantity    int      `json:"quantity"`
	Price       *float64 `json:"price"`
}

// Status represents order fulfilment status
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

const (
	SortAmountHigh listview.SortKey = "amount_high"
	SortAmountLow  listview.SortKey = "amount_low"
)

func (o Order) Key() string { return o.ID }

// Units is the number of pieces across all lines
func (o Order) Units() int {
	n := 0
	for _, li := range o.Items {
		n += li.Quantity
	}
	return n
}

// View returns the list configuration shared by customer, staff and admin order pages
func View() listview.Config[Order] {
	total := func(o Order) float64 { return listview.Float(o.Total) }
	created := func(o Order) time.Time { return o.CreatedAt }

	return listview.Config[Order]{
		Fields: map[string]listview.Field[Order]{
			"search": {Kind: listview.KindSearch, Text: func(o Order) []string {
				return listview.Texts(o.OrderNumber, o.CustomerName, o.CustomerEmail)
			}},
			"status": {Kind: listview.KindEqual, String: func(o Order) (string, bool) { return listview.Present(string(o.Status)) }},
			"amount": {Kind: listview.KindRange, Number: func(o Order) (float64, bool) { return listview.Optional(o.Total) }},
			"date":   {Kind: listview.KindTimeRange, Time: func(o Order) (time.Time, bool) { return listview.Known(o.CreatedAt) }},
		},
		Sorts: map[listview.SortKey]listview.Sort[Order]{
			listview.SortNewest: {Kind: listview.TimeDesc, Time: created},
			listview.SortOldest: {Kind: listview.TimeAsc, Time: created},
			SortAmountHigh:      {Kind: listview.NumberDesc, Number: total},
			SortAmountLow:       {Kind: listview.NumberAsc, Number: total},
		},
		DefaultSort: listview.SortNewest,
		ServerKeys:  []string{"search", "status", "date"},
	}
}

// Summary holds the order stat cards
type Summary struct {
	Total             int             `json:"total"`
	ByStatus          map[string]int  `json:"by_status"`
	Revenue           decimal.Decimal `json:"revenue"`
	AverageOrderValue float64         `json:"average_order_value"`
	DeliveredPercent  int             `json:"delivered_percent"`
	Units             int             `json:"units"`
}

// Summarize derives the stat cards. Cancelled orders do not count towards revenue.
func Summarize(items []Order) Summary {
	billable := make([]Order, 0, len(items))
	units := 0
	for _, o := range items {
		if o.Status != StatusCancelled {
			billable = append(billable, o)
		}
		units += o.Units()
	}
	delivered := listview.Count(items, func(o Order) bool { return o.Status == StatusDelivered })

	return Summary{
		Total: len(items),
		ByStatus: listview.CountBy(items, func(o Order) string { return string(o.Status) },
			string(StatusPending), string(StatusProcessing), string(StatusShipped), string(StatusDelivered), string(StatusCancelled)),
		Revenue:           listview.SumDecimal(billable, func(o Order) decimal.Decimal { return listview.Decimal(o.Total) }),
		AverageOrderValue: listview.Average(billable, func(o Order) float64 { return listview.Float(o.Total) }),
		DeliveredPercent:  listview.Percentage(delivered, len(items)),
		Units:             units,
	}
}
