package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"wit-auth/internal/domain"
	"wit-auth/internal/repository"
)

// UserService coordina el ciclo de vida de usuarios de login social.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

var ErrUserNotFound = errors.New("user not found")

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	return &UserService{
		logger: logger,
		users:  users,
	}
}

// FindOrCreate busca al usuario por (socialType, providerId) y lo crea en su
// primer login. Si otro login concurrente gana la carrera de creación, la
// violación de unicidad se resuelve reintentando la búsqueda.
func (s *UserService) FindOrCreate(ctx context.Context, socialType domain.SocialType, providerID, email string) (domain.User, error) {
	user, err := s.users.GetBySocial(ctx, socialType, providerID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user = domain.User{
		ID:         uuid.NewString(),
		PublicID:   domain.NewPublicID(),
		SocialType: socialType,
		ProviderID: providerID,
		Email:      email,
		Status:     domain.StatusPendingAgreement,
		Role:       domain.RoleUser,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if s.logger != nil {
		s.logger.Info("creating new user",
			zap.String("social_type", string(socialType)),
			zap.String("provider_id", providerID),
		)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			existing, lookupErr := s.users.GetBySocial(ctx, socialType, providerID)
			if lookupErr == nil {
				return existing, nil
			}
			if errors.Is(lookupErr, pgx.ErrNoRows) {
				// El duplicado no era (socialType, providerId); probablemente el email.
				return domain.User{}, err
			}
			return domain.User{}, lookupErr
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) ExistsBySocial(ctx context.Context, socialType domain.SocialType, providerID string) (bool, error) {
	return s.users.ExistsBySocial(ctx, socialType, providerID)
}

// FindByID devuelve el usuario, incluso si está marcado como eliminado.
func (s *UserService) FindByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// CompleteOnboarding registra los datos de onboarding y activa al usuario.
func (s *UserService) CompleteOnboarding(ctx context.Context, userID, nickname string, gender domain.Gender, birthDate time.Time) (domain.User, error) {
	return s.mutate(ctx, userID, func(user *domain.User) error {
		return user.CompleteOnboarding(nickname, gender, birthDate)
	})
}

// UpdateProfile actualiza nickname y/o imagen de perfil.
func (s *UserService) UpdateProfile(ctx context.Context, userID, nickname, profileImageURL string) (domain.User, error) {
	return s.mutate(ctx, userID, func(user *domain.User) error {
		return user.UpdateProfile(nickname, profileImageURL)
	})
}

func (s *UserService) Deactivate(ctx context.Context, userID string) (domain.User, error) {
	return s.mutate(ctx, userID, (*domain.User).Deactivate)
}

func (s *UserService) Activate(ctx context.Context, userID string) (domain.User, error) {
	return s.mutate(ctx, userID, (*domain.User).Activate)
}

// Delete marca al usuario como eliminado. El registro sigue siendo legible.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	_, err := s.mutate(ctx, userID, (*domain.User).Delete)
	return err
}

// mutate centraliza el patrón buscar → transicionar → persistir. La legalidad
// de cada transición vive en los métodos de domain.User.
func (s *UserService) mutate(ctx context.Context, userID string, transition func(*domain.User) error) (domain.User, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if err := transition(&user); err != nil {
		return domain.User{}, err
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
