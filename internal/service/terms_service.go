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

// TermsService administra el catálogo de términos y los acuerdos por usuario.
type TermsService struct {
	logger     *zap.Logger
	terms      repository.TermsRepository
	agreements repository.AgreementRepository
	users      repository.UserRepository
}

var (
	ErrTermsNotFound          = errors.New("terms not found")
	ErrRequiredTermsNotAgreed = errors.New("required terms not agreed")
)

// TermsAgreementInput es una respuesta de acuerdo enviada por el cliente.
type TermsAgreementInput struct {
	TermsPublicID string
	Agreed        bool
}

func NewTermsService(logger *zap.Logger, terms repository.TermsRepository, agreements repository.AgreementRepository, users repository.UserRepository) *TermsService {
	return &TermsService{
		logger:     logger,
		terms:      terms,
		agreements: agreements,
		users:      users,
	}
}

// GetActiveTerms lista los términos actualmente activos.
func (s *TermsService) GetActiveTerms(ctx context.Context) ([]domain.Terms, error) {
	return s.terms.ListActive(ctx)
}

// AgreeToTerms procesa las respuestas en orden y falla rápido: un término
// requerido marcado agreed=false aborta sin aplicar los items posteriores.
// Tras procesar todo, valida que cada término requerido+activo tenga un
// acuerdo agreed=true persistido, cubriendo los omitidos de la request.
// Devuelve el estado resultante del usuario.
func (s *TermsService) AgreeToTerms(ctx context.Context, userID string, items []TermsAgreementInput) (domain.UserStatus, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if user.IsDeleted() {
		return "", domain.ErrUserAlreadyDeleted
	}

	now := time.Now().UTC()
	for _, item := range items {
		terms, err := s.terms.GetByPublicID(ctx, item.TermsPublicID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return "", ErrTermsNotFound
			}
			return "", err
		}
		if terms.Required && !item.Agreed {
			return "", ErrRequiredTermsNotAgreed
		}
		if err := s.upsertAgreement(ctx, userID, terms.ID, item.Agreed, now); err != nil {
			return "", err
		}
	}

	ok, err := s.HasAgreedToAllRequiredTerms(ctx, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrRequiredTermsNotAgreed
	}

	if user.Status == domain.StatusPendingAgreement {
		if err := user.CompleteAgreement(); err != nil {
			return "", err
		}
		user.UpdatedAt = now
		if err := s.users.Update(ctx, user); err != nil {
			return "", err
		}
		if s.logger != nil {
			s.logger.Info("user passed agreement gate", zap.String("public_id", user.PublicID))
		}
	}
	return user.Status, nil
}

// HasAgreedToAllRequiredTerms compara los acuerdos agreed=true del usuario
// sobre términos requeridos contra el total de requeridos activos.
func (s *TermsService) HasAgreedToAllRequiredTerms(ctx context.Context, userID string) (bool, error) {
	agreed, err := s.agreements.CountAgreedRequired(ctx, userID)
	if err != nil {
		return false, err
	}
	total, err := s.terms.CountRequiredActive(ctx)
	if err != nil {
		return false, err
	}
	return agreed == total, nil
}

// upsertAgreement actualiza el acuerdo existente para (userId, termsId) o crea
// uno nuevo; nunca se duplica el registro.
func (s *TermsService) upsertAgreement(ctx context.Context, userID, termsID string, agreed bool, now time.Time) error {
	existing, err := s.agreements.GetByUserAndTerms(ctx, userID, termsID)
	if err == nil {
		if agreed {
			existing.Agree(now)
		} else {
			existing.Withdraw(now)
		}
		return s.agreements.Update(ctx, existing)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	agreement := domain.UserTermsAgreement{
		ID:       uuid.NewString(),
		UserID:   userID,
		TermsID:  termsID,
		Agreed:   agreed,
		AgreedAt: now,
	}
	if err := s.agreements.Create(ctx, agreement); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// Otra request creó el registro entre la búsqueda y el insert.
			return s.upsertAgreement(ctx, userID, termsID, agreed, now)
		}
		return err
	}
	return nil
}
