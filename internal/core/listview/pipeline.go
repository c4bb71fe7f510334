package listview

// Result is the rendered output of one pipeline run
type Result[T any] struct {
	Items   []T     `json:"items"`
	Matched int     `json:"matched"`
	Sort    SortKey `json:"sort"`
	Page    int     `json:"page"`
	Limit   int     `json:"limit"`
	HasMore bool    `json:"has_more"`
}

// Run filters, then sorts, then applies the load-more window of state.
// When state.Limit is zero the whole matched collection is returned.
func Run[T any](items []T, cfg Config[T], state ViewState) Result[T] {
	sortKey := state.Sort
	if !cfg.HasSort(sortKey) {
		sortKey = cfg.DefaultSort
	}

	matched := SortItems(Filter(items, cfg, state.Filters), cfg, sortKey)
	res := Result[T]{
		Items:   matched,
		Matched: len(matched),
		Sort:    sortKey,
		Page:    max(state.Page, 1),
		Limit:   state.Limit,
	}
	if state.Limit > 0 {
		window := res.Page * state.Limit
		if window < len(matched) {
			res.Items = matched[:window]
			res.HasMore = true
		}
	}
	return res
}
