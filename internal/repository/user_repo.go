package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"wit-auth/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetBySocial(ctx context.Context, socialType domain.SocialType, providerID string) (domain.User, error)
	ExistsBySocial(ctx context.Context, socialType domain.SocialType, providerID string) (bool, error)
	Update(ctx context.Context, user domain.User) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `
	id, public_id, social_type, provider_id, email, nickname,
	gender, birth_date, profile_image_url, status, role, created_at, updated_at
`

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, public_id, social_type, provider_id, email, nickname,
			gender, birth_date, profile_image_url, status, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, NULLIF($9, ''), $10, $11, $12, $13)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.PublicID,
		user.SocialType,
		user.ProviderID,
		user.Email,
		user.Nickname,
		string(user.Gender),
		user.BirthDate,
		user.ProfileImageURL,
		user.Status,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return translateUniqueViolation(err)
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetBySocial(ctx context.Context, socialType domain.SocialType, providerID string) (domain.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE social_type = $1 AND provider_id = $2
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, socialType, providerID))
}

func (r *PgUserRepository) ExistsBySocial(ctx context.Context, socialType domain.SocialType, providerID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE social_type = $1 AND provider_id = $2
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, socialType, providerID).Scan(&exists)
	return exists, err
}

func (r *PgUserRepository) Update(ctx context.Context, user domain.User) error {
	const query = `
		UPDATE users
		SET nickname = NULLIF($2, ''),
			gender = NULLIF($3, ''),
			birth_date = $4,
			profile_image_url = NULLIF($5, ''),
			status = $6,
			updated_at = $7
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Nickname,
		string(user.Gender),
		user.BirthDate,
		user.ProfileImageURL,
		user.Status,
		user.UpdatedAt,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PgUserRepository) scanUser(row rowScanner) (domain.User, error) {
	var (
		u               domain.User
		nickname        *string
		gender          *string
		profileImageURL *string
	)
	err := row.Scan(
		&u.ID,
		&u.PublicID,
		&u.SocialType,
		&u.ProviderID,
		&u.Email,
		&nickname,
		&gender,
		&u.BirthDate,
		&profileImageURL,
		&u.Status,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	if nickname != nil {
		u.Nickname = *nickname
	}
	if gender != nil {
		u.Gender = domain.Gender(*gender)
	}
	if profileImageURL != nil {
		u.ProfileImageURL = *profileImageURL
	}
	return u, nil
}
