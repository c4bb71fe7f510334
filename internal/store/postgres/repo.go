package postgres

import (
	"context"
	"fmt"

	"fashionmart/internal/store/repositories"
)

const schema = `
CREATE TABLE IF NOT EXISTS saved_views (
	id          TEXT PRIMARY KEY,
	owner_hash  TEXT NOT NULL,
	resource    TEXT NOT NULL,
	name        TEXT NOT NULL,
	query       TEXT NOT NULL DEFAULT '',
	sort        TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (owner_hash, resource, name)
);
CREATE INDEX IF NOT EXISTS saved_views_owner_idx ON saved_views (owner_hash, resource, updated_at DESC);`

// Repo owns the service database
type Repo struct {
	db DB
}

func NewRepo(db DB) *Repo { return &Repo{db: db} }

// Migrate creates the tables this service owns
func (r *Repo) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate saved_views: %w", err)
	}
	return nil
}

// SavedViews returns the saved view repository over the same connection
func (r *Repo) SavedViews() repositories.SavedViewRepository {
	return NewSavedViewRepository(r.db)
}
