package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SocialType identifica el proveedor OAuth de un usuario.
type SocialType string

const (
	SocialTypeKakao  SocialType = "KAKAO"
	SocialTypeGoogle SocialType = "GOOGLE"
	SocialTypeApple  SocialType = "APPLE"
)

// ParseSocialType normaliza y valida un social type recibido por la API.
func ParseSocialType(s string) (SocialType, error) {
	switch SocialType(strings.ToUpper(strings.TrimSpace(s))) {
	case SocialTypeKakao:
		return SocialTypeKakao, nil
	case SocialTypeGoogle:
		return SocialTypeGoogle, nil
	case SocialTypeApple:
		return SocialTypeApple, nil
	default:
		return "", fmt.Errorf("unsupported social type: %q", s)
	}
}

// UserStatus es el estado del ciclo de vida del usuario.
type UserStatus string

const (
	StatusPendingAgreement  UserStatus = "PENDING_AGREEMENT"
	StatusPendingOnboarding UserStatus = "PENDING_ONBOARDING"
	StatusActive            UserStatus = "ACTIVE"
	StatusInactive          UserStatus = "INACTIVE"
	StatusDeleted           UserStatus = "DELETED"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToUpper(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	default:
		return "", fmt.Errorf("unsupported gender: %q", s)
	}
}

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

var (
	ErrUserAlreadyDeleted = errors.New("user already deleted")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// User es la identidad federada de un usuario del servicio.
// (SocialType, ProviderID) y Email son únicos en persistencia.
type User struct {
	ID              string     `json:"-"`
	PublicID        string     `json:"public_id"`
	SocialType      SocialType `json:"social_type"`
	ProviderID      string     `json:"-"`
	Email           string     `json:"email,omitempty"`
	Nickname        string     `json:"nickname,omitempty"`
	Gender          Gender     `json:"gender,omitempty"`
	BirthDate       *time.Time `json:"birth_date,omitempty"`
	ProfileImageURL string     `json:"profile_image_url,omitempty"`
	Status          UserStatus `json:"status"`
	Role            UserRole   `json:"role"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (u *User) IsDeleted() bool {
	return u.Status == StatusDeleted
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// CompleteAgreement pasa al usuario de PENDING_AGREEMENT a PENDING_ONBOARDING.
// Es un no-op para usuarios que ya superaron la etapa de consentimiento.
func (u *User) CompleteAgreement() error {
	if u.IsDeleted() {
		return ErrUserAlreadyDeleted
	}
	if u.Status == StatusPendingAgreement {
		u.Status = StatusPendingOnboarding
	}
	return nil
}

// CompleteOnboarding registra nickname, género y fecha de nacimiento y activa al usuario.
func (u *User) CompleteOnboarding(nickname string, gender Gender, birthDate time.Time) error {
	if u.IsDeleted() {
		return ErrUserAlreadyDeleted
	}
	u.Nickname = nickname
	u.Gender = gender
	u.BirthDate = &birthDate
	u.Status = StatusActive
	return nil
}

// UpdateProfile actualiza los campos opcionales no vacíos.
func (u *User) UpdateProfile(nickname, profileImageURL string) error {
	if u.IsDeleted() {
		return ErrUserAlreadyDeleted
	}
	if nickname != "" {
		u.Nickname = nickname
	}
	if profileImageURL != "" {
		u.ProfileImageURL = profileImageURL
	}
	return nil
}

func (u *User) Deactivate() error {
	if u.IsDeleted() {
		return ErrUserAlreadyDeleted
	}
	if u.Status != StatusActive {
		return ErrInvalidTransition
	}
	u.Status = StatusInactive
	return nil
}

func (u *User) Activate() error {
	if u.IsDeleted() {
		return ErrUserAlreadyDeleted
	}
	if u.Status != StatusInactive {
		return ErrInvalidTransition
	}
	u.Status = StatusActive
	return nil
}

// Delete marca al usuario como eliminado (soft delete, estado terminal).
func (u *User) Delete() error {
	if u.IsDeleted() {
		return ErrUserAlreadyDeleted
	}
	u.Status = StatusDeleted
	return nil
}

// Authorities devuelve los roles con el prefijo ROLE_ usado en los claims JWT.
func (u *User) Authorities() []string {
	return []string{"ROLE_" + string(u.Role)}
}
