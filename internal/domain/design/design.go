package design

import (
	"time"

	"fashionmart/internal/core/listview"
)

const (
	Resource   = "designs"
	ItemsField = "designs"
)

// Design is a designer submission in the marketplace
type Design struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     *Category `json:"category"`
	DesignerID   string    `json:"designerId"`
	DesignerName string    `json:"designerName"`
	Status       Status    `json:"status"`
	Price        *float64  `json:"price"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Category is the embedded category reference
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Status represents the review state of a design
type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (d Design) Key() string { return d.ID }

func (d Design) categoryName() string {
	if d.Category == nil {
		return ""
	}
	return d.Category.Name
}

// View returns the list configuration for the designer portfolio and review queues.
// The popular and revenue sorts have no backing metric upstream and keep input order.
func View() listview.Config[Design] {
	price := func(d Design) float64 { return listview.Float(d.Price) }
	created := func(d Design) time.Time { return d.CreatedAt }

	return listview.Config[Design]{
		Fields: map[string]listview.Field[Design]{
			"search": {Kind: listview.KindSearch, Text: func(d Design) []string {
				return listview.Texts(d.Title, d.Description, d.categoryName(), d.DesignerName)
			}},
			"category": {Kind: listview.KindEqual, String: func(d Design) (string, bool) { return listview.Present(d.categoryName()) }},
			"status":   {Kind: listview.KindEqual, String: func(d Design) (string, bool) { return listview.Present(string(d.Status)) }},
			"price":    {Kind: listview.KindRange, Number: func(d Design) (float64, bool) { return listview.Optional(d.Price) }},
			"tags":     {Kind: listview.KindSet, Set: func(d Design) []string { return d.Tags }},
		},
		Sorts: map[listview.SortKey]listview.Sort[Design]{
			listview.SortNewest:    {Kind: listview.TimeDesc, Time: created},
			listview.SortOldest:    {Kind: listview.TimeAsc, Time: created},
			listview.SortPopular:   {Kind: listview.Unsorted},
			listview.SortRevenue:   {Kind: listview.Unsorted},
			listview.SortPriceLow:  {Kind: listview.NumberAsc, Number: price},
			listview.SortPriceHigh: {Kind: listview.NumberDesc, Number: price},
			listview.SortName:      {Kind: listview.NameAsc, Name: func(d Design) string { return d.Title }},
		},
		DefaultSort: listview.SortNewest,
		ServerKeys:  []string{"search", "status", "category"},
	}
}

// Summary holds the portfolio stat cards
type Summary struct {
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"by_status"`
	ApprovalPercent int            `json:"approval_percent"`
	AveragePrice    float64        `json:"average_price"`
}

func Summarize(items []Design) Summary {
	approved := listview.Count(items, func(d Design) bool { return d.Status == StatusApproved })
	return Summary{
		Total: len(items),
		ByStatus: listview.CountBy(items, func(d Design) string { return string(d.Status) },
			string(StatusDraft), string(StatusPending), string(StatusApproved), string(StatusRejected)),
		ApprovalPercent: listview.Percentage(approved, len(items)),
		AveragePrice:    listview.Average(items, func(d Design) float64 { return listview.Float(d.Price) }),
	}
}
