package product

import (
	"time"

	"fashionmart/internal/core/listview"
)

const (
	Resource   = "products"
	ItemsField = "products"
)

// Product is a catalogue entry with per-variant stock
type Product struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    *Category    `json:"category"`
	DesignerID  string       `json:"designerId"`
	Price       *float64     `json:"price"`
	Sizes       []string     `json:"sizes"`
	Colors      []string     `json:"colors"`
	Tags        []string     `json:"tags"`
	Stock       []StockEntry `json:"stock"`
	Rating      *float64     `json:"rating"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StockEntry is the quantity of one size/color variant
type StockEntry struct {
	Size     string `json:"size"`
	Color    string `json:"color"`
	Quantity int    `json:"quantity"`
}

func (p Product) Key() string { return p.ID }

// InStock reports whether any variant has a positive quantity
func (p Product) InStock() bool {
	for _, s := range p.Stock {
		if s.Quantity > 0 {
			return true
		}
	}
	return false
}

// Units is the total quantity across variants, ignoring negative corrections
func (p Product) Units() int {
	n := 0
	for _, s := range p.Stock {
		if s.Quantity > 0 {
			n += s.Quantity
		}
	}
	return n
}

func (p Product) categoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// View returns the storefront product grid configuration
func View() listview.Config[Product] {
	price := func(p Product) float64 { return listview.Float(p.Price) }

	return listview.Config[Product]{
		Fields: map[string]listview.Field[Product]{
			"search": {Kind: listview.KindSearch, Text: func(p Product) []string {
				return listview.Texts(p.Name, p.Description, p.categoryName())
			}},
			"category": {Kind: listview.KindEqual, String: func(p Product) (string, bool) { return listview.Present(p.categoryName()) }},
			"price":    {Kind: listview.KindRange, Number: func(p Product) (float64, bool) { return listview.Optional(p.Price) }},
			"sizes":    {Kind: listview.KindSet, Set: func(p Product) []string { return p.Sizes }},
			"colors":   {Kind: listview.KindSet, Set: func(p Product) []string { return p.Colors }},
			"tags":     {Kind: listview.KindSet, Set: func(p Product) []string { return p.Tags }},
			"in_stock": {Kind: listview.KindFlag, Flag: Product.InStock},
		},
		Sorts: map[listview.SortKey]listview.Sort[Product]{
			listview.SortNewest:    {Kind: listview.TimeDesc, Time: func(p Product) time.Time { return p.CreatedAt }},
			listview.SortPriceLow:  {Kind: listview.NumberAsc, Number: price},
			listview.SortPriceHigh: {Kind: listview.NumberDesc, Number: price},
			listview.SortName:      {Kind: listview.NameAsc, Name: func(p Product) string { return p.Name }},
			listview.SortPopular:   {Kind: listview.Unsorted},
		},
		DefaultSort: listview.SortNewest,
		ServerKeys:  []string{"search", "category"},
	}
}

// Summary holds the catalogue stat cards
type Summary struct {
	Total        int     `json:"total"`
	InStock      int     `json:"in_stock"`
	OutOfStock   int     `json:"out_of_stock"`
	AveragePrice float64 `json:"average_price"`
	Units        int     `json:"units"`
}

func Summarize(items []Product) Summary {
	inStock := listview.Count(items, Product.InStock)
	return Summary{
		Total:        len(items),
		InStock:      inStock,
		OutOfStock:   len(items) - inStock,
		AveragePrice: listview.Average(items, func(p Product) float64 { return listview.Float(p.Price) }),
		Units:        int(listview.Sum(items, func(p Product) float64 { return float64(p.Units()) })),
	}
}
