package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"wit-auth/internal/domain"
	"wit-auth/internal/oauth"
)

// AuthService orquesta login social, logout y reemisión de tokens.
type AuthService struct {
	logger *zap.Logger
	users  *UserService
	tokens *TokenService
	store  RefreshTokenStore

	kakao  oauth.Validator
	google oauth.Validator
	apple  oauth.Validator
}

var ErrUnsupportedSocialType = errors.New("unsupported social type")

// LoginResult es la respuesta de login/reissue. Las expiraciones van en ms.
type LoginResult struct {
	PublicID              string `json:"public_id"`
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
	IsNewUser             bool   `json:"is_new_user"`
}

func NewAuthService(logger *zap.Logger, users *UserService, tokens *TokenService, store RefreshTokenStore, kakao, google, apple oauth.Validator) *AuthService {
	return &AuthService{
		logger: logger,
		users:  users,
		tokens: tokens,
		store:  store,
		kakao:  kakao,
		google: google,
		apple:  apple,
	}
}

// SocialLogin valida la credencial contra el proveedor, busca o crea al
// usuario y emite un par de tokens. Las fallas del validator se propagan sin
// envolver: determinan el error visible para credenciales inválidas.
func (s *AuthService) SocialLogin(ctx context.Context, socialType domain.SocialType, credential string) (LoginResult, error) {
	validator, err := s.validator(socialType)
	if err != nil {
		return LoginResult{}, err
	}

	info, err := validator.Validate(ctx, credential)
	if err != nil {
		return LoginResult{}, err
	}

	if s.logger != nil {
		s.logger.Info("oauth credential validated",
			zap.String("social_type", string(socialType)),
			zap.String("provider_id", info.ProviderID),
		)
	}

	// isNewUser refleja la existencia previa, antes del find-or-create.
	exists, err := s.users.ExistsBySocial(ctx, socialType, info.ProviderID)
	if err != nil {
		return LoginResult{}, err
	}
	isNewUser := !exists

	user, err := s.users.FindOrCreate(ctx, socialType, info.ProviderID, info.Email)
	if err != nil {
		return LoginResult{}, err
	}

	result, err := s.issueSession(user)
	if err != nil {
		return LoginResult{}, err
	}
	result.IsNewUser = isNewUser

	if s.logger != nil {
		s.logger.Info("social login successful",
			zap.String("public_id", user.PublicID),
			zap.Bool("is_new_user", isNewUser),
		)
	}
	return result, nil
}

// Logout borra el refresh token del usuario. Es idempotente: sin sesión
// activa también es un éxito.
func (s *AuthService) Logout(userID string) error {
	if err := s.store.Delete(userID); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info("user logged out", zap.String("user_id", userID))
	}
	return nil
}

// Reissue intercambia un refresh token válido y vigente en el store por un
// par nuevo. Un token que no coincide con el almacenado (sesión reemplazada
// o replay) se rechaza como inválido.
func (s *AuthService) Reissue(ctx context.Context, refreshToken string) (LoginResult, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return LoginResult{}, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return LoginResult{}, ErrInvalidToken
	}

	ok, err := s.store.Matches(claims.Subject, refreshToken)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok {
		return LoginResult{}, ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return LoginResult{}, err
	}
	if user.IsDeleted() {
		return LoginResult{}, domain.ErrUserAlreadyDeleted
	}

	return s.issueSession(user)
}

// issueSession emite access+refresh y guarda el refresh, invalidando
// cualquier sesión previa del usuario.
func (s *AuthService) issueSession(user domain.User) (LoginResult, error) {
	roles := user.Authorities()

	accessToken, err := s.tokens.IssueAccessToken(user.ID, roles)
	if err != nil {
		return LoginResult{}, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID, roles)
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.store.Save(user.ID, refreshToken, s.tokens.RefreshTTL()); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		PublicID:              user.PublicID,
		AccessToken:           accessToken,
		AccessTokenExpiresIn:  s.tokens.AccessTTL().Milliseconds(),
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: s.tokens.RefreshTTL().Milliseconds(),
	}, nil
}

// validator es el despacho exhaustivo por proveedor; agregar un proveedor
// exige un validator nuevo y un arm nuevo aquí.
func (s *AuthService) validator(socialType domain.SocialType) (oauth.Validator, error) {
	switch socialType {
	case domain.SocialTypeKakao:
		return s.kakao, nil
	case domain.SocialTypeGoogle:
		return s.google, nil
	case domain.SocialTypeApple:
		return s.apple, nil
	default:
		return nil, ErrUnsupportedSocialType
	}
}
