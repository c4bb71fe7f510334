package product_test

import (
	"testing"

	"fashionmart/internal/core/listview"
	"fashionmart/internal/domain/product"

	"github.com/stretchr/testify/assert"
)

func catalogue() []product.Product {
	price := func(v float64) *float64 { return &v }
	return []product.Product{
		{ID: "p1", Name: "Midi Dress", Sizes: []string{"S", "M"}, Colors: []string{"red"}, Price: price(90),
			Stock: []product.StockEntry{{Size: "S", Quantity: 0}, {Size: "M", Quantity: 2}}},
		{ID: "p2", Name: "Cargo Pants", Sizes: []string{"L"}, Colors: []string{"olive"}, Price: price(60)},
		{ID: "p3", Name: "Tee", Sizes: []string{"M", "L"}, Colors: []string{"red", "white"},
			Stock: []product.StockEntry{{Quantity: 5}, {Quantity: -1}}},
	}
}

func TestView_SetFilters(t *testing.T) {
	cfg := product.View()
	got := listview.Filter(catalogue(), cfg, listview.FilterState{"sizes": []string{"M", "L"}})
	assert.Len(t, got, 3)

	got = listview.Filter(catalogue(), cfg, listview.FilterState{"sizes": []string{"S"}, "colors": []string{"red"}})
	assert.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)
}

func TestView_InStock(t *testing.T) {
	got := listview.Filter(catalogue(), product.View(), listview.FilterState{"in_stock": true})
	assert.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, "p3", got[1].ID)
}

func TestSummarize(t *testing.T) {
	sum := product.Summarize(catalogue())
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 2, sum.InStock)
	assert.Equal(t, 1, sum.OutOfStock)
	assert.Equal(t, 7, sum.Units)
	assert.Equal(t, 50.0, sum.AveragePrice, "missing price counts as zero")
}
