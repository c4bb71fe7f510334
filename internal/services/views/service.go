package views

import (
	"context"
	"errors"
	"net/url"
	"reflect"
	"strings"
	"time"

	"fashionmart/internal/core/listview"
	"fashionmart/internal/domain/savedview"
	"fashionmart/internal/services/collection"
	"fashionmart/internal/store/repositories"
	"fashionmart/internal/upstream"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrNoOwner is returned when the request carries no bearer token
var ErrNoOwner = errors.New("no caller identity")

// SaveRequest creates or overwrites a saved view of the caller
type SaveRequest struct {
	Resource string `json:"resource" validate:"required"`
	Name     string `json:"name" validate:"required,max=80"`
	Query    string `json:"query" validate:"max=2048"`
	Sort     string `json:"sort" validate:"max=40"`
}

// ValidationError lists the rejected request fields
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	return "invalid saved view: " + strings.Join(parts, ", ")
}

// ServiceError represents a saved view service error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return "views service " + e.Op + ": " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Service manages saved views. Views are scoped to the caller's owner key.
type Service struct {
	repo     repositories.SavedViewRepository
	registry *collection.Registry
	owners   savedview.Owners
	validate *validator.Validate
	now      func() time.Time
}

// NewService creates a new saved view service
func NewService(repo repositories.SavedViewRepository, registry *collection.Registry) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return &Service{repo: repo, registry: registry, validate: v, now: time.Now}
}

// WithOwners sets how callers are mapped to owner keys
func (s *Service) WithOwners(o savedview.Owners) *Service {
	s.owners = o
	return s
}

// Save validates req against the resource registry and stores it. Unknown
// filter parameters are dropped so a saved view always reopens cleanly.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*savedview.SavedView, error) {
	owner, err := s.owner(ctx)
	if err != nil {
		return nil, &ServiceError{Op: "save", Err: err}
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Resource = strings.TrimSpace(req.Resource)
	fields := map[string]string{}
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, &ServiceError{Op: "save", Err: err}
		}
		for _, fe := range verrs {
			fields[fe.Field()] = describe(fe)
		}
	}

	res, ok := s.registry.Get(req.Resource)
	if req.Resource != "" && !ok {
		fields["resource"] = "unknown resource"
	}
	q, qerr := url.ParseQuery(strings.TrimPrefix(req.Query, "?"))
	if qerr != nil {
		fields["query"] = "malformed query string"
	}
	if ok && req.Sort != "" && !res.HasSort(listview.SortKey(req.Sort)) {
		fields["sort"] = "unknown sort key"
	}
	if len(fields) > 0 {
		return nil, &ServiceError{Op: "save", Err: &ValidationError{Fields: fields}}
	}

	now := s.now().UTC()
	v := &savedview.SavedView{
		ID:        uuid.NewString(),
		OwnerHash: owner,
		Resource:  res.Name(),
		Name:      req.Name,
		Query:     res.EncodeFilters(res.ParseFilters(q)).Encode(),
		Sort:      req.Sort,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Save(ctx, v); err != nil {
		return nil, &ServiceError{Op: "save", Err: err}
	}

	log.Info().
		Str("saved_view_id", v.ID).
		Str("resource", v.Resource).
		Msg("saved view stored")
	return v, nil
}

// List returns the caller's views for resource, or for every resource when it is empty
func (s *Service) List(ctx context.Context, resource string) ([]*savedview.SavedView, error) {
	owner, err := s.owner(ctx)
	if err != nil {
		return nil, &ServiceError{Op: "list", Err: err}
	}
	if resource != "" {
		if _, ok := s.registry.Get(resource); !ok {
			return nil, &ServiceError{Op: "list", Err: collection.ErrUnknownResource}
		}
	}
	views, err := s.repo.FindByOwner(ctx, owner, resource, 100)
	if err != nil {
		return nil, &ServiceError{Op: "list", Err: err}
	}
	return views, nil
}

func (s *Service) Get(ctx context.Context, id string) (*savedview.SavedView, error) {
	owner, err := s.owner(ctx)
	if err != nil {
		return nil, &ServiceError{Op: "get", Err: err}
	}
	v, err := s.repo.FindByID(ctx, owner, id)
	if err != nil {
		return nil, &ServiceError{Op: "get", Err: err}
	}
	return v, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	owner, err := s.owner(ctx)
	if err != nil {
		return &ServiceError{Op: "delete", Err: err}
	}
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return &ServiceError{Op: "delete", Err: err}
	}
	return nil
}

func (s *Service) owner(ctx context.Context) (string, error) {
	token := upstream.TokenFrom(ctx)
	if token == "" {
		return "", ErrNoOwner
	}
	return s.owners.Owner(token), nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	}
	return "is invalid"
}
