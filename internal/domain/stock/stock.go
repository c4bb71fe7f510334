package stock

import (
	"time"

	"fashionmart/internal/core/listview"
)

const (
	Resource   = "stock"
	ItemsField = "records"
)

// Record is one warehouse stock line for a product variant
type Record struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	ProductName  string    `json:"productName"`
	SKU          string    `json:"sku"`
	Category     string    `json:"category"`
	Size         string    `json:"size"`
	Color        string    `json:"color"`
	Warehouse    string    `json:"warehouse"`
	Quantity     int       `json:"quantity"`
	ReorderLevel int       `json:"reorderLevel"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

const (
	SortQuantityLow  listview.SortKey = "quantity_low"
	SortQuantityHigh listview.SortKey = "quantity_high"
)

func (r Record) Key() string { return r.ID }

func (r Record) OutOfStock() bool { return r.Quantity <= 0 }

// LowStock reports a record at or under its reorder level that still has units
func (r Record) LowStock() bool { return r.Quantity > 0 && r.Quantity <= r.ReorderLevel }

func View() listview.Config[Record] {
	qty := func(r Record) float64 { return float64(r.Quantity) }

	return listview.Config[Record]{
		Fields: map[string]listview.Field[Record]{
			"search":       {Kind: listview.KindSearch, Text: func(r Record) []string { return listview.Texts(r.ProductName, r.SKU) }},
			"category":     {Kind: listview.KindEqual, String: func(r Record) (string, bool) { return listview.Present(r.Category) }},
			"warehouse":    {Kind: listview.KindEqual, String: func(r Record) (string, bool) { return listview.Present(r.Warehouse) }},
			"quantity":     {Kind: listview.KindRange, Number: func(r Record) (float64, bool) { return listview.Number(qty(r)) }},
			"low_stock":    {Kind: listview.KindFlag, Flag: Record.LowStock},
			"out_of_stock": {Kind: listview.KindFlag, Flag: Record.OutOfStock},
		},
		Sorts: map[listview.SortKey]listview.Sort[Record]{
			listview.SortNewest: {Kind: listview.TimeDesc, Time: func(r Record) time.Time { return r.UpdatedAt }},
			SortQuantityLow:     {Kind: listview.NumberAsc, Number: qty},
			SortQuantityHigh:    {Kind: listview.NumberDesc, Number: qty},
			listview.SortName:   {Kind: listview.NameAsc, Name: func(r Record) string { return r.ProductName }},
		},
		DefaultSort: listview.SortNewest,
		ServerKeys:  []string{"search", "category"},
	}
}

type Summary struct {
	Records        int `json:"records"`
	Units          int `json:"units"`
	LowStock       int `json:"low_stock"`
	OutOfStock     int `json:"out_of_stock"`
	HealthyPercent int `json:"healthy_percent"`
}

func Summarize(items []Record) Summary {
	low := listview.Count(items, Record.LowStock)
	out := listview.Count(items, Record.OutOfStock)
	return Summary{
		Records: len(items),
		Units: int(listview.Sum(items, func(r Record) float64 {
			return float64(max(r.Quantity, 0))
		})),
		LowStock:       low,
		OutOfStock:     out,
		HealthyPercent: listview.Percentage(len(items)-low-out, len(items)),
	}
}
