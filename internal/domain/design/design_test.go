package design_test

import (
	"testing"
	"time"

	"fashionmart/internal/core/listview"
	"fashionmart/internal/domain/design"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_ApprovalPercent(t *testing.T) {
	designs := []design.Design{
		{Status: design.StatusApproved},
		{Status: design.StatusPending},
		{Status: design.StatusApproved},
		{Status: design.StatusRejected},
		{Status: design.StatusDraft},
	}
	sum := design.Summarize(designs)
	assert.Equal(t, 40, sum.ApprovalPercent)
	assert.Equal(t, 5, sum.Total)
	assert.Equal(t, 0.0, sum.AveragePrice)
}

func TestView_UnwiredSortsKeepOrder(t *testing.T) {
	now := time.Now()
	designs := []design.Design{
		{ID: "a", CreatedAt: now},
		{ID: "b", CreatedAt: now.Add(time.Hour)},
		{ID: "c", CreatedAt: now.Add(-time.Hour)},
	}
	for _, key := range []listview.SortKey{listview.SortPopular, listview.SortRevenue} {
		got := listview.SortItems(designs, design.View(), key)
		assert.Equal(t, "a", got[0].ID)
		assert.Equal(t, "b", got[1].ID)
		assert.Equal(t, "c", got[2].ID)
	}
}

func TestView_SearchCategoryAndMissingCategory(t *testing.T) {
	designs := []design.Design{
		{ID: "a", Title: "Evening gown", Category: &design.Category{Name: "Formal"}},
		{ID: "b", Title: "Street hoodie"},
	}
	cfg := design.View()
	got := listview.Filter(designs, cfg, listview.FilterState{"search": "FORMAL"})
	assert.Len(t, got, 1)
	got = listview.Filter(designs, cfg, listview.FilterState{"category": "Formal"})
	assert.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}
