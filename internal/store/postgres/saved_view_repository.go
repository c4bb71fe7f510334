package postgres

import (
	"context"
	"errors"

	"fashionmart/internal/domain/savedview"
	"fashionmart/internal/store/repositories"

	"github.com/jackc/pgx/v5"
)

const savedViewColumns = `id, owner_hash, resource, name, query, sort, created_at, updated_at`

// savedViewRepository implements SavedViewRepository with pure data access
type savedViewRepository struct {
	db DB
}

// NewSavedViewRepository creates a new saved view repository
func NewSavedViewRepository(db DB) *savedViewRepository {
	return &savedViewRepository{db: db}
}

var _ repositories.SavedViewRepository = (*savedViewRepository)(nil)

// Save inserts the view, or overwrites query and sort when the owner already
// has a view with the same name on the same resource
func (r *savedViewRepository) Save(ctx context.Context, v *savedview.SavedView) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO saved_views (id, owner_hash, resource, name, query, sort, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (owner_hash, resource, name)
		DO UPDATE SET query = EXCLUDED.query, sort = EXCLUDED.sort, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`,
		v.ID, v.OwnerHash, v.Resource, v.Name, v.Query, v.Sort, v.CreatedAt, v.UpdatedAt,
	).Scan(&v.ID, &v.CreatedAt)
}

// FindByID finds one of the owner's views
func (r *savedViewRepository) FindByID(ctx context.Context, owner, id string) (*savedview.SavedView, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+savedViewColumns+`
		FROM saved_views
		WHERE owner_hash = $1 AND id = $2`, owner, id)

	v, err := scanSavedView(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	return v, err
}

// FindByOwner lists the owner's views, most recently updated first. An empty
// resource lists views for every resource.
func (r *savedViewRepository) FindByOwner(ctx context.Context, owner, resource string, limit int) ([]*savedview.SavedView, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+savedViewColumns+`
		FROM saved_views
		WHERE owner_hash = $1 AND ($2 = '' OR resource = $2)
		ORDER BY updated_at DESC
		LIMIT $3`, owner, resource, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []*savedview.SavedView{}
	for rows.Next() {
		v, err := scanSavedView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// Delete removes one of the owner's views
func (r *savedViewRepository) Delete(ctx context.Context, owner, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM saved_views WHERE owner_hash = $1 AND id = $2`, owner, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// scanSavedView works for both pgx.Row and pgx.Rows
func scanSavedView(row pgx.Row) (*savedview.SavedView, error) {
	var v savedview.SavedView
	err := row.Scan(&v.ID, &v.OwnerHash, &v.Resource, &v.Name, &v.Query, &v.Sort, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
