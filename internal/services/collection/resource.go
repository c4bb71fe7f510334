package collection

import (
	"net/url"
	"slices"

	"fashionmart/internal/core/listview"
	"fashionmart/internal/domain/design"
	"fashionmart/internal/domain/order"
	"fashionmart/internal/domain/payment"
	"fashionmart/internal/domain/product"
	"fashionmart/internal/domain/returns"
	"fashionmart/internal/domain/stock"
	"fashionmart/internal/domain/ticket"
	"fashionmart/internal/domain/user"
)

// Resource is one registered list resource with its item type erased
type Resource interface {
	Name() string
	SortKeys() []listview.SortKey
	HasSort(key listview.SortKey) bool
	DefaultSort() listview.SortKey
	FilterKind(key string) (listview.Kind, bool)
	ParseFilters(q url.Values) listview.FilterState
	EncodeFilters(state listview.FilterState) url.Values
	NewController(f *Fetcher, token string, state listview.ViewState) Session
}

type resource[T any] struct {
	name       string
	itemsField string
	cfg        listview.Config[T]
	key        func(T) string
	summarize  func([]T) any
}

// Register builds a Resource from a domain package's list configuration
func Register[T any, S any](name, itemsField string, cfg listview.Config[T], key func(T) string, summarize func([]T) S) Resource {
	return &resource[T]{
		name:       name,
		itemsField: itemsField,
		cfg:        cfg,
		key:        key,
		summarize:  func(items []T) any { return summarize(items) },
	}
}

func (r *resource[T]) Name() string { return r.name }
func (r *resource[T]) SortKeys() []listview.SortKey { return r.cfg.SortKeys() }
func (r *resource[T]) HasSort(key listview.SortKey) bool { return r.cfg.HasSort(key) }
func (r *resource[T]) DefaultSort() listview.SortKey { return r.cfg.DefaultSort }

func (r *resource[T]) ParseFilters(q url.Values) listview.FilterState {
	return listview.ParseFilters(r.cfg, q)
}

func (r *resource[T]) EncodeFilters(state listview.FilterState) url.Values {
	return listview.EncodeFilters(r.cfg, state)
}

func (r *resource[T]) FilterKind(key string) (listview.Kind, bool) {
	f, ok := r.cfg.Fields[key]
	return f.Kind, ok
}

func (r *resource[T]) NewController(f *Fetcher, token string, state listview.ViewState) Session {
	return newController(r, f, token, state)
}

// Registry looks resources up by name
type Registry struct {
	byName map[string]Resource
	names  []string
}

func NewRegistry(resources ...Resource) *Registry {
	reg := &Registry{byName: make(map[string]Resource, len(resources))}
	for _, r := range resources {
		reg.byName[r.Name()] = r
		reg.names = append(reg.names, r.Name())
	}
	slices.Sort(reg.names)
	return reg
}

func (r *Registry) Get(name string) (Resource, bool) {
	res, ok := r.byName[name]
	return res, ok
}

// Names lists the registered resources in alphabetical order
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// DefaultRegistry registers every dashboard resource
func DefaultRegistry() *Registry {
	return NewRegistry(
		Register(order.Resource, order.ItemsField, order.View(), order.Order.Key, order.Summarize),
		Register(design.Resource, design.ItemsField, design.View(), design.Design.Key, design.Summarize),
		Register(product.Resource, product.ItemsField, product.View(), product.Product.Key, product.Summarize),
		Register(payment.Resource, payment.ItemsField, payment.View(), payment.Payment.Key, payment.Summarize),
		Register(user.Resource, user.ItemsField, user.View(), user.User.Key, user.Summarize),
		Register(returns.Resource, returns.ItemsField, returns.View(), returns.Request.Key, returns.Summarize),
		Register(ticket.Resource, ticket.ItemsField, ticket.View(), ticket.Ticket.Key, ticket.Summarize),
		Register(stock.Resource, stock.ItemsField, stock.View(), stock.Record.Key, stock.Summarize),
	)
}
