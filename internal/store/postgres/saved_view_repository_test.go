package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"fashionmart/internal/domain/savedview"
	"fashionmart/internal/store/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cols = []string{"id", "owner_hash", "resource", "name", "query", "sort", "created_at", "updated_at"}

func TestSavedViewRepository_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	v := &savedview.SavedView{
		ID: "v1", OwnerHash: "own", Resource: "orders", Name: "Big orders",
		Query: "minAmount=100", Sort: "amount_high", CreatedAt: now, UpdatedAt: now,
	}
	earlier := now.Add(-time.Hour)
	mock.ExpectQuery("INSERT INTO saved_views").
		WithArgs(v.ID, v.OwnerHash, v.Resource, v.Name, v.Query, v.Sort, v.CreatedAt, v.UpdatedAt).
		WillReturnRows(mock.NewRows([]string{"id", "created_at"}).AddRow("v0", earlier))

	repo := NewRepo(mock).SavedViews()
	require.NoError(t, repo.Save(context.Background(), v))
	assert.Equal(t, "v0", v.ID, "upsert keeps the existing row id")
	assert.Equal(t, earlier, v.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedViewRepository_FindByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT (.+) FROM saved_views WHERE owner_hash = \$1 AND id = \$2`).
		WithArgs("own", "v1").
		WillReturnRows(mock.NewRows(cols).AddRow("v1", "own", "designs", "Pending", "status=pending", "newest", now, now))
	mock.ExpectQuery(`SELECT (.+) FROM saved_views`).
		WithArgs("own", "missing").
		WillReturnError(pgx.ErrNoRows)

	repo := NewSavedViewRepository(mock)
	v, err := repo.FindByID(context.Background(), "own", "v1")
	require.NoError(t, err)
	assert.Equal(t, "designs", v.Resource)
	assert.Equal(t, "status=pending", v.Query)

	_, err = repo.FindByID(context.Background(), "own", "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedViewRepository_FindByOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT (.+) FROM saved_views WHERE owner_hash = \$1`).
		WithArgs("own", "orders", 100).
		WillReturnRows(mock.NewRows(cols).
			AddRow("a", "own", "orders", "A", "", "newest", now, now).
			AddRow("b", "own", "orders", "B", "status=shipped", "oldest", now, now))

	views, err := NewSavedViewRepository(mock).FindByOwner(context.Background(), "own", "orders", 0)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "B", views[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedViewRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM saved_views").WithArgs("own", "v1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM saved_views").WithArgs("own", "v2").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM saved_views").WithArgs("own", "v3").
		WillReturnError(errors.New("conn reset"))

	repo := NewSavedViewRepository(mock)
	ctx := context.Background()
	assert.NoError(t, repo.Delete(ctx, "own", "v1"))
	assert.ErrorIs(t, repo.Delete(ctx, "own", "v2"), repositories.ErrNotFound)
	assert.EqualError(t, repo.Delete(ctx, "own", "v3"), "conn reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Migrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS saved_views").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	require.NoError(t, NewRepo(mock).Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
