package listview

import "golang.org/x/text/language"

// Config is the per-resource accessor configuration consumed by the pipeline
type Config[T any] struct {
	Fields      map[string]Field[T]
	Sorts       map[SortKey]Sort[T]
	DefaultSort SortKey
	// ServerKeys are filter keys the upstream API can apply itself.
	ServerKeys []string
	Locale     language.Tag
}

// HasSort reports whether key is one of the resource's sort keys
func (c Config[T]) HasSort(key SortKey) bool {
	_, ok := c.Sorts[key]
	return ok
}

// SortKeys lists the configured sort keys, default first
func (c Config[T]) SortKeys() []SortKey {
	keys := make([]SortKey, 0, len(c.Sorts))
	if c.HasSort(c.DefaultSort) {
		keys = append(keys, c.DefaultSort)
	}
	for k := range c.Sorts {
		if k != c.DefaultSort {
			keys = append(keys, k)
		}
	}
	sortKeys(keys[min(1, len(keys)):])
	return keys
}

// IsServerKey reports whether the upstream API filters on key
func (c Config[T]) IsServerKey(key string) bool {
	for _, k := range c.ServerKeys {
		if k == key {
			return true
		}
	}
	return false
}
