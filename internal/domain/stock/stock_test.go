package stock_test

import (
	"testing"

	"fashionmart/internal/core/listview"
	"fashionmart/internal/domain/stock"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	records := []stock.Record{
		{ID: "a", Quantity: 40, ReorderLevel: 10},
		{ID: "b", Quantity: 3, ReorderLevel: 10},
		{ID: "c", Quantity: 0, ReorderLevel: 5},
		{ID: "d", Quantity: -2, ReorderLevel: 5},
	}
	sum := stock.Summarize(records)
	assert.Equal(t, 43, sum.Units)
	assert.Equal(t, 1, sum.LowStock)
	assert.Equal(t, 2, sum.OutOfStock)
	assert.Equal(t, 25, sum.HealthyPercent)

	low := listview.Filter(records, stock.View(), listview.FilterState{"low_stock": true})
	assert.Len(t, low, 1)
	assert.Equal(t, "b", low[0].ID)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, stock.Summary{}, stock.Summarize(nil))
}
