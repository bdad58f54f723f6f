package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"wit-auth/internal/domain"
)

// AgreementRepository define el contrato de persistencia para acuerdos de términos.
type AgreementRepository interface {
	GetByUserAndTerms(ctx context.Context, userID, termsID string) (domain.UserTermsAgreement, error)
	Create(ctx context.Context, agreement domain.UserTermsAgreement) error
	Update(ctx context.Context, agreement domain.UserTermsAgreement) error
	CountAgreedRequired(ctx context.Context, userID string) (int, error)
	ListByUser(ctx context.Context, userID string) ([]domain.UserTermsAgreement, error)
}

// PgAgreementRepository implementa AgreementRepository usando pgxpool.
type PgAgreementRepository struct {
	pool *pgxpool.Pool
}

func NewPgAgreementRepository(pool *pgxpool.Pool) *PgAgreementRepository {
	return &PgAgreementRepository{pool: pool}
}

func (r *PgAgreementRepository) GetByUserAndTerms(ctx context.Context, userID, termsID string) (domain.UserTermsAgreement, error) {
	const query = `
		SELECT id, user_id, terms_id, agreed, agreed_at
		FROM user_terms_agreements
		WHERE user_id = $1 AND terms_id = $2
	`
	var a domain.UserTermsAgreement
	err := r.pool.QueryRow(ctx, query, userID, termsID).Scan(
		&a.ID,
		&a.UserID,
		&a.TermsID,
		&a.Agreed,
		&a.AgreedAt,
	)
	if err != nil {
		return domain.UserTermsAgreement{}, err
	}
	return a, nil
}

func (r *PgAgreementRepository) Create(ctx context.Context, agreement domain.UserTermsAgreement) error {
	const query = `
		INSERT INTO user_terms_agreements (id, user_id, terms_id, agreed, agreed_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		agreement.ID,
		agreement.UserID,
		agreement.TermsID,
		agreement.Agreed,
		agreement.AgreedAt,
	)
	return translateUniqueViolation(err)
}

func (r *PgAgreementRepository) Update(ctx context.Context, agreement domain.UserTermsAgreement) error {
	const query = `
		UPDATE user_terms_agreements
		SET agreed = $2, agreed_at = $3
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, agreement.ID, agreement.Agreed, agreement.AgreedAt)
	return err
}

func (r *PgAgreementRepository) CountAgreedRequired(ctx context.Context, userID string) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM user_terms_agreements uta
		JOIN terms t ON t.id = uta.terms_id
		WHERE uta.user_id = $1 AND uta.agreed = true AND t.required = true AND t.active = true
	`
	var count int
	err := r.pool.QueryRow(ctx, query, userID).Scan(&count)
	return count, err
}

func (r *PgAgreementRepository) ListByUser(ctx context.Context, userID string) ([]domain.UserTermsAgreement, error) {
	const query = `
		SELECT id, user_id, terms_id, agreed, agreed_at
		FROM user_terms_agreements
		WHERE user_id = $1
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agreements []domain.UserTermsAgreement
	for rows.Next() {
		var a domain.UserTermsAgreement
		if err := rows.Scan(&a.ID, &a.UserID, &a.TermsID, &a.Agreed, &a.AgreedAt); err != nil {
			return nil, err
		}
		agreements = append(agreements, a)
	}
	return agreements, rows.Err()
}
