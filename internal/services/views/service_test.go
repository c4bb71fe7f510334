package views

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fashionmart/internal/domain/savedview"
	"fashionmart/internal/services/collection"
	"fashionmart/internal/store/repositories"
	"fashionmart/internal/upstream"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Save(ctx context.Context, v *savedview.SavedView) error {
	return m.Called(ctx, v).Error(0)
}

func (m *mockRepo) FindByID(ctx context.Context, owner, id string) (*savedview.SavedView, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*savedview.SavedView), args.Error(1)
}

func (m *mockRepo) FindByOwner(ctx context.Context, owner, resource string, limit int) ([]*savedview.SavedView, error) {
	args := m.Called(ctx, owner, resource, limit)
	return args.Get(0).([]*savedview.SavedView), args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, owner, id string) error {
	return m.Called(ctx, owner, id).Error(0)
}

func ctxFor(token string) context.Context {
	return upstream.WithToken(context.Background(), token)
}

func newService(repo *mockRepo) *Service {
	s := NewService(repo, collection.DefaultRegistry())
	s.now = func() time.Time { return time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC) }
	return s
}

func TestService_SaveNormalizesQuery(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Save", mock.Anything, mock.MatchedBy(func(v *savedview.SavedView) bool {
		return v.OwnerHash == savedview.Owner("tok") && v.Resource == "products" && v.Name == "Summer"
	})).Return(nil)

	v, err := newService(repo).Save(ctxFor("tok"), SaveRequest{
		Resource: "products",
		Name:     "  Summer ",
		Query:    "?sizes=M,L&bogus=1&inStock=yes",
		Sort:     "price_low",
	})
	require.NoError(t, err)
	assert.Equal(t, "sizes=M%2CL", v.Query, "unknown parameters are dropped")
	assert.Equal(t, "price_low", v.Sort)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, 2025, v.CreatedAt.Year())
	repo.AssertExpectations(t)
}

func TestService_SaveValidation(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo)

	_, err := svc.Save(ctxFor("tok"), SaveRequest{Resource: "invoices", Name: strings.Repeat("x", 81), Sort: "newest"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "unknown resource", verr.Fields["resource"])
	assert.Equal(t, "must be at most 80 characters", verr.Fields["name"])

	_, err = svc.Save(ctxFor("tok"), SaveRequest{Resource: "orders", Name: " ", Sort: "popular"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["name"])
	assert.Equal(t, "unknown sort key", verr.Fields["sort"])

	_, err = svc.Save(context.Background(), SaveRequest{Resource: "orders", Name: "x"})
	assert.ErrorIs(t, err, ErrNoOwner)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_OwnerFollowsTokenSubject(t *testing.T) {
	sign := func(exp time.Duration) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "staff-3",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(exp)),
		}).SignedString([]byte("k"))
		require.NoError(t, err)
		return tok
	}
	owners := savedview.NewOwners("k")
	first, rotated := sign(time.Hour), sign(2*time.Hour)

	repo := &mockRepo{}
	repo.On("FindByOwner", mock.Anything, owners.Owner(first), "", 100).
		Return([]*savedview.SavedView{{ID: "a"}}, nil)

	list, err := newService(repo).WithOwners(owners).List(ctxFor(rotated), "")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	repo.AssertExpectations(t)
}

func TestService_ListGetDelete(t *testing.T) {
	repo := &mockRepo{}
	owner := savedview.Owner("tok")
	repo.On("FindByOwner", mock.Anything, owner, "orders", 100).
		Return([]*savedview.SavedView{{ID: "a"}}, nil)
	repo.On("FindByID", mock.Anything, owner, "a").Return(&savedview.SavedView{ID: "a"}, nil)
	repo.On("FindByID", mock.Anything, owner, "b").Return(nil, repositories.ErrNotFound)
	repo.On("Delete", mock.Anything, owner, "a").Return(nil)

	svc := newService(repo)
	ctx := ctxFor("tok")

	list, err := svc.List(ctx, "orders")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.List(ctx, "invoices")
	assert.ErrorIs(t, err, collection.ErrUnknownResource)

	v, err := svc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", v.ID)

	_, err = svc.Get(ctx, "b")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	assert.NoError(t, svc.Delete(ctx, "a"))
	repo.AssertExpectations(t)
}
