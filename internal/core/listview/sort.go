package listview

import (
	"cmp"
	"math"
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey is a resource-specific sort option, e.g. "newest" or "price_low"
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortPriceLow  SortKey = "price_low"
	SortPriceHigh SortKey = "price_high"
	SortName      SortKey = "name"
	SortPopular   SortKey = "popular"
	SortRevenue   SortKey = "revenue"
)

// SortKind selects the comparator family for a SortKey
type SortKind int

const (
	// Unsorted compares every pair as equal, so the stable sort keeps input order.
	// Used for options whose backing metric is not available.
	Unsorted SortKind = iota
	TimeDesc
	TimeAsc
	NumberAsc
	NumberDesc
	NameAsc
)

// Sort binds a SortKind to the accessor it reads
type Sort[T any] struct {
	Kind   SortKind
	Time   func(T) time.Time
	Number func(T) float64
	Name   func(T) string
}

// Comparator returns the comparator for key, falling back to the default sort
// and finally to Unsorted when neither is configured.
func Comparator[T any](cfg Config[T], key SortKey) func(a, b T) int {
	s, ok := cfg.Sorts[key]
	if !ok {
		s, ok = cfg.Sorts[cfg.DefaultSort]
	}
	if !ok {
		return unsorted[T]
	}

	switch s.Kind {
	case TimeDesc, TimeAsc:
		if s.Time == nil {
			return unsorted[T]
		}
		desc := s.Kind == TimeDesc
		return func(a, b T) int {
			c := s.Time(a).Compare(s.Time(b))
			if desc {
				return -c
			}
			return c
		}

	case NumberAsc, NumberDesc:
		if s.Number == nil {
			return unsorted[T]
		}
		desc := s.Kind == NumberDesc
		return func(a, b T) int {
			c := cmp.Compare(finite(s.Number(a)), finite(s.Number(b)))
			if desc {
				return -c
			}
			return c
		}

	case NameAsc:
		if s.Name == nil {
			return unsorted[T]
		}
		tag := cfg.Locale
		if tag == language.Und {
			tag = language.English
		}
		// collate.Collator keeps internal buffers; one per comparator.
		col := collate.New(tag, collate.IgnoreCase)
		return func(a, b T) int {
			return col.CompareString(s.Name(a), s.Name(b))
		}
	}
	return unsorted[T]
}

// SortItems returns a stably sorted copy of items. The input slice is never reordered.
func SortItems[T any](items []T, cfg Config[T], key SortKey) []T {
	out := slices.Clone(items)
	if out == nil {
		out = []T{}
	}
	slices.SortStableFunc(out, Comparator(cfg, key))
	return out
}

func unsorted[T any](_, _ T) int { return 0 }

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func sortKeys(keys []SortKey) {
	slices.Sort(keys)
}
