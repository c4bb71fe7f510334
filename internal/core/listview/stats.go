package listview

import (
	"math"

	"github.com/shopspring/decimal"
)

// CountBy groups items by key and counts each observed value. Seeded keys start at zero,
// every other value is present only when observed.
func CountBy[T any](items []T, key func(T) string, seed ...string) map[string]int {
	out := make(map[string]int, len(seed))
	for _, s := range seed {
		out[s] = 0
	}
	for _, it := range items {
		out[key(it)]++
	}
	return out
}

// Count returns how many items satisfy pred
func Count[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, it := range items {
		if pred(it) {
			n++
		}
	}
	return n
}

// Sum totals f over items. Non-finite values count as zero.
func Sum[T any](items []T, f func(T) float64) float64 {
	var total float64
	for _, it := range items {
		total += finite(f(it))
	}
	return finite(total)
}

// SumDecimal totals a monetary field without float rounding
func SumDecimal[T any](items []T, f func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(f(it))
	}
	return total
}

// Percentage is round(subset/total*100), or 0 when total is not positive
func Percentage(subset, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(subset) / float64(total) * 100))
}

// Average is the mean of f over items, or 0 for an empty collection
func Average[T any](items []T, f func(T) float64) float64 {
	if len(items) == 0 {
		return 0
	}
	return finite(Sum(items, f) / float64(len(items)))
}

// Float dereferences an optional numeric field, treating nil as zero
func Float(p *float64) float64 {
	if p == nil {
		return 0
	}
	return finite(*p)
}

// Decimal converts an optional float field to a decimal, treating nil and non-finite values as zero
func Decimal(p *float64) decimal.Decimal {
	return decimal.NewFromFloat(Float(p))
}
