package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"wit-auth/internal/domain"
)

// TermsRepository define el contrato de persistencia para términos.
type TermsRepository interface {
	GetByPublicID(ctx context.Context, publicID string) (domain.Terms, error)
	ListActive(ctx context.Context) ([]domain.Terms, error)
	CountRequiredActive(ctx context.Context) (int, error)
}

// PgTermsRepository implementa TermsRepository usando pgxpool.
type PgTermsRepository struct {
	pool *pgxpool.Pool
}

func NewPgTermsRepository(pool *pgxpool.Pool) *PgTermsRepository {
	return &PgTermsRepository{pool: pool}
}

func (r *PgTermsRepository) GetByPublicID(ctx context.Context, publicID string) (domain.Terms, error) {
	const query = `
		SELECT id, public_id, type, title, version, required, active, created_at
		FROM terms
		WHERE public_id = $1
	`
	var t domain.Terms
	err := r.pool.QueryRow(ctx, query, publicID).Scan(
		&t.ID,
		&t.PublicID,
		&t.Type,
		&t.Title,
		&t.Version,
		&t.Required,
		&t.Active,
		&t.CreatedAt,
	)
	if err != nil {
		return domain.Terms{}, err
	}
	return t, nil
}

func (r *PgTermsRepository) ListActive(ctx context.Context) ([]domain.Terms, error) {
	const query = `
		SELECT id, public_id, type, title, version, required, active, created_at
		FROM terms
		WHERE active = true
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []domain.Terms
	for rows.Next() {
		var t domain.Terms
		if err := rows.Scan(
			&t.ID,
			&t.PublicID,
			&t.Type,
			&t.Title,
			&t.Version,
			&t.Required,
			&t.Active,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

func (r *PgTermsRepository) CountRequiredActive(ctx context.Context) (int, error) {
	const query = `
		SELECT COUNT(*) FROM terms WHERE required = true AND active = true
	`
	var count int
	err := r.pool.QueryRow(ctx, query).Scan(&count)
	return count, err
}
