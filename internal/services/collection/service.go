package collection

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/url"
	"strings"

	"fashionmart/internal/core/listview"
	"fashionmart/internal/domain/savedview"
	"fashionmart/internal/upstream"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// SavedViewLookup resolves a saved view owned by the caller
type SavedViewLookup interface {
	FindByID(ctx context.Context, owner, id string) (*savedview.SavedView, error)
}

// Service orchestrates list views: one-shot renders, sessions, proxied
// mutations, exports and the overview stat cards
type Service struct {
	registry *Registry
	fetcher  *Fetcher
	sessions *Sessions
	saved    SavedViewLookup
	owners   savedview.Owners
}

// NewService creates a new collection service
func NewService(registry *Registry, fetcher *Fetcher, sessions *Sessions) *Service {
	return &Service{
		registry: registry,
		fetcher:  fetcher,
		sessions: sessions,
	}
}

// WithSavedViews enables opening sessions from saved views owned by the
// caller, as resolved by owners
func (s *Service) WithSavedViews(lookup SavedViewLookup, owners savedview.Owners) *Service {
	s.saved = lookup
	s.owners = owners
	return s
}

func (s *Service) Registry() *Registry { return s.registry }
func (s *Service) Sessions() *Sessions { return s.sessions }

// View renders one list view without keeping a session
func (s *Service) View(ctx context.Context, req ListRequest) (*View, error) {
	req.Validate()

	res, ok := s.registry.Get(req.Resource)
	if !ok {
		return nil, &ServiceError{Op: "view", Err: ErrUnknownResource}
	}
	if req.Sort != "" && !res.HasSort(req.Sort) {
		return nil, &ServiceError{Op: "view", Err: ErrUnknownSort}
	}

	state := listview.NewViewState(req.Sort, req.Limit).WithFilters(res.ParseFilters(req.Filters))
	state.Page = req.Page

	ctrl := res.NewController(s.fetcher, upstream.TokenFrom(ctx), state)
	if err := ctrl.Load(ctx); err != nil {
		return nil, &ServiceError{Op: "view", Err: err}
	}
	v := ctrl.Render()
	return &v, nil
}

// OpenSession creates a session for a page view and performs its first load.
// Retryable fetch failures leave the session open with the error in its view.
func (s *Service) OpenSession(ctx context.Context, req OpenRequest) (*View, error) {
	token := upstream.TokenFrom(ctx)

	if req.SavedViewID != "" {
		if s.saved == nil {
			return nil, &ServiceError{Op: "open_session", Err: ErrNoSavedViews}
		}
		sv, err := s.saved.FindByID(ctx, s.owners.Owner(token), req.SavedViewID)
		if err != nil {
			return nil, &ServiceError{Op: "open_session", Err: err}
		}
		req.Resource, req.Query = sv.Resource, sv.Query
		if req.Sort == "" {
			req.Sort = sv.Sort
		}
	}

	res, ok := s.registry.Get(req.Resource)
	if !ok {
		return nil, &ServiceError{Op: "open_session", Err: ErrUnknownResource}
	}
	sort := listview.SortKey(req.Sort)
	if sort != "" && !res.HasSort(sort) {
		return nil, &ServiceError{Op: "open_session", Err: ErrUnknownSort}
	}
	q, err := url.ParseQuery(strings.TrimPrefix(req.Query, "?"))
	if err != nil {
		return nil, &ServiceError{Op: "open_session", Err: err}
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	sess := res.NewController(s.fetcher, token, listview.NewViewState(sort, min(limit, 200)).WithFilters(res.ParseFilters(q)))
	if err := sess.Load(ctx); fatal(err) {
		return nil, &ServiceError{Op: "open_session", Err: err}
	}

	id := s.sessions.Add(sess)
	log.Debug().Str("session_id", id).Str("resource", res.Name()).Msg("session opened")
	return s.render(id, sess), nil
}

// Session returns the caller's session
func (s *Service) Session(ctx context.Context, id string) (Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok || !sameToken(sess.Token(), upstream.TokenFrom(ctx)) {
		return nil, &ServiceError{Op: "session", Err: ErrSessionNotFound}
	}
	return sess, nil
}

func (s *Service) Render(ctx context.Context, id string) (*View, error) {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.render(id, sess), nil
}

// CloseSession releases a session when the page is left
func (s *Service) CloseSession(ctx context.Context, id string) error {
	if _, err := s.Session(ctx, id); err != nil {
		return err
	}
	s.sessions.Remove(id)
	return nil
}

func (s *Service) Refresh(ctx context.Context, id string) (*View, error) {
	return s.update(ctx, "refresh", id, func(sess Session) error { return sess.Refresh(ctx) })
}

func (s *Service) ApplyFilter(ctx context.Context, id, key string, raw []string) (*View, error) {
	return s.update(ctx, "apply_filter", id, func(sess Session) error { return sess.ApplyFilter(ctx, key, raw) })
}

func (s *Service) ClearFilter(ctx context.Context, id, key string) (*View, error) {
	return s.update(ctx, "clear_filter", id, func(sess Session) error { return sess.ClearFilter(ctx, key) })
}

func (s *Service) ResetFilters(ctx context.Context, id string) (*View, error) {
	return s.update(ctx, "reset", id, func(sess Session) error { return sess.Reset(ctx) })
}

func (s *Service) SetSort(ctx context.Context, id string, key listview.SortKey) (*View, error) {
	return s.update(ctx, "set_sort", id, func(sess Session) error { return sess.SetSort(key) })
}

func (s *Service) LoadMore(ctx context.Context, id string) (*View, error) {
	return s.update(ctx, "load_more", id, func(sess Session) error { sess.LoadMore(); return nil })
}

// Act posts action for itemID upstream and patches the session with the updated entity
func (s *Service) Act(ctx context.Context, id, itemID, action string, body any) (*View, error) {
	return s.mutate(ctx, "act", id, func(sess Session) error {
		updated, err := s.fetcher.Client().Action(ctx, sess.Resource(), itemID, action, body)
		if err != nil {
			return err
		}
		s.fetcher.Invalidate(sess.Resource())
		return sess.Replace(updated)
	})
}

// DeleteItem deletes itemID upstream and drops it from the session
func (s *Service) DeleteItem(ctx context.Context, id, itemID string) (*View, error) {
	return s.mutate(ctx, "delete_item", id, func(sess Session) error {
		if err := s.fetcher.Client().Delete(ctx, sess.Resource(), itemID); err != nil {
			return err
		}
		s.fetcher.Invalidate(sess.Resource())
		sess.Remove(itemID)
		return nil
	})
}

// Export downloads the server-filtered collection in format (csv, pdf or excel)
func (s *Service) Export(ctx context.Context, resource, format string, filters url.Values) (*upstream.Blob, error) {
	res, ok := s.registry.Get(resource)
	if !ok {
		return nil, &ServiceError{Op: "export", Err: ErrUnknownResource}
	}
	switch format {
	case "csv", "pdf", "excel":
	default:
		return nil, &ServiceError{Op: "export", Err: ErrUnsupportedFormat}
	}

	q := serverQuery(upstreamKeys, res.ParseFilters(filters), 0)
	q.Page = 0
	blob, err := s.fetcher.Client().Export(ctx, resource, format, q)
	if err != nil {
		return nil, &ServiceError{Op: "export", Err: err}
	}
	return blob, nil
}

// Overview loads several resources concurrently and returns their stat cards
func (s *Service) Overview(ctx context.Context, names []string) (Overview, error) {
	if len(names) == 0 {
		names = s.registry.Names()
	}
	resources := make([]Resource, 0, len(names))
	for _, n := range names {
		res, ok := s.registry.Get(strings.TrimSpace(n))
		if !ok {
			return nil, &ServiceError{Op: "overview", Err: ErrUnknownResource}
		}
		resources = append(resources, res)
	}

	token := upstream.TokenFrom(ctx)
	summaries := make([]any, len(resources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, res := range resources {
		g.Go(func() error {
			ctrl := res.NewController(s.fetcher, token, listview.NewViewState(res.DefaultSort(), 0))
			if err := ctrl.Load(gctx); err != nil {
				return err
			}
			summaries[i] = ctrl.Render().Summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &ServiceError{Op: "overview", Err: err}
	}

	out := make(Overview, len(resources))
	for i, res := range resources {
		out[res.Name()] = summaries[i]
	}
	return out, nil
}

func (s *Service) update(ctx context.Context, op, id string, fn func(Session) error) (*View, error) {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); fatal(err) {
		return nil, &ServiceError{Op: op, Err: err}
	}
	return s.render(id, sess), nil
}

// mutate is update for proxied writes, where every failure goes back to the caller
func (s *Service) mutate(ctx context.Context, op, id string, fn func(Session) error) (*View, error) {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, &ServiceError{Op: op, Err: err}
	}
	return s.render(id, sess), nil
}

func (s *Service) render(id string, sess Session) *View {
	v := sess.Render()
	v.Session = id
	return &v
}

// fatal reports whether err must be returned to the caller. Transport and
// server failures stay in the view's error state so the page can offer a retry.
func fatal(err error) bool {
	if err == nil {
		return false
	}
	var ue *upstream.Error
	if errors.As(err, &ue) {
		return !upstream.Retryable(err)
	}
	return true
}

func sameToken(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
