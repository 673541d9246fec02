package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads content and analytics and persists chart snapshots in
// PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Ping connectivity
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
