package listview

// ViewState is the complete, immutable state of one list view.
// Transitions return a new value and never modify the receiver.
type ViewState struct {
	Filters FilterState `json:"filters"`
	Sort    SortKey     `json:"sort"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
}

// NewViewState returns an unfiltered state on the first page
func NewViewState(sort SortKey, limit int) ViewState {
	if limit < 0 {
		limit = 0
	}
	return ViewState{Filters: FilterState{}, Sort: sort, Page: 1, Limit: limit}
}

// WithFilter sets key to value. A nil value removes the key.
func (s ViewState) WithFilter(key string, value any) ViewState {
	next := s.copy()
	if value == nil {
		delete(next.Filters, key)
	} else {
		next.Filters[key] = value
	}
	next.Page = 1
	return next
}

// WithoutFilter removes key from the filter state
func (s ViewState) WithoutFilter(key string) ViewState {
	return s.WithFilter(key, nil)
}

// WithFilters replaces the whole filter state
func (s ViewState) WithFilters(filters FilterState) ViewState {
	next := s.copy()
	next.Filters = filters.Clone()
	next.Page = 1
	return next
}

// WithSort selects a new sort key
func (s ViewState) WithSort(key SortKey) ViewState {
	next := s.copy()
	next.Sort = key
	next.Page = 1
	return next
}

// LoadMore extends the visible window by one page
func (s ViewState) LoadMore() ViewState {
	next := s.copy()
	next.Page = max(next.Page, 1) + 1
	return next
}

// Reset clears filters and returns to the first page, keeping sort and limit
func (s ViewState) Reset() ViewState {
	return NewViewState(s.Sort, s.Limit)
}

func (s ViewState) copy() ViewState {
	next := s
	next.Filters = s.Filters.Clone()
	return next
}
