package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService emite y verifica tokens de sesión firmados con HMAC.
// Los tokens son autocontenidos: la verificación de un access token no
// requiere estado del servidor.
type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims son los claims de un token de sesión. Subject es el id interno
// del usuario; Authorities lleva los roles unidos por coma con prefijo ROLE_.
type TokenClaims struct {
	TokenType   string `json:"type"`
	Authorities string `json:"authorities"`
	jwt.RegisteredClaims
}

// Roles separa el claim authorities en la lista original de roles.
func (c TokenClaims) Roles() []string {
	if strings.TrimSpace(c.Authorities) == "" {
		return nil
	}
	return strings.Split(c.Authorities, ",")
}

var (
	ErrInvalidToken = errors.New("token invalid")
	ErrExpiredToken = errors.New("token expired")
)

func NewTokenService(secret, issuer string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 14 * 24 * time.Hour
	}
	return &TokenService{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccessToken firma un access token para el usuario y sus roles.
func (s *TokenService) IssueAccessToken(userID string, roles []string) (string, error) {
	return s.sign(userID, roles, s.accessTTL, TokenTypeAccess)
}

// IssueRefreshToken firma un refresh token para el usuario y sus roles.
func (s *TokenService) IssueRefreshToken(userID string, roles []string) (string, error) {
	return s.sign(userID, roles, s.refreshTTL, TokenTypeRefresh)
}

// Verify valida firma y expiración y devuelve los claims.
func (s *TokenService) Verify(token string) (TokenClaims, error) {
	claims, err := s.parse(token, false)
	if err != nil {
		return TokenClaims{}, err
	}
	if !s.isValidClaims(claims) {
		return TokenClaims{}, ErrInvalidToken
	}
	return claims, nil
}

// VerifyAllowingExpired valida la firma pero tolera tokens expirados, para
// que logout y reissue puedan identificar al usuario de una sesión vencida.
func (s *TokenService) VerifyAllowingExpired(token string) (TokenClaims, error) {
	claims, err := s.parse(token, true)
	if err != nil {
		return TokenClaims{}, err
	}
	if !s.isValidClaims(claims) {
		return TokenClaims{}, ErrInvalidToken
	}
	return claims, nil
}

// RemainingLifetime devuelve los segundos hasta la expiración del token.
// Es negativo para tokens ya expirados.
func (s *TokenService) RemainingLifetime(token string) (int64, error) {
	claims, err := s.VerifyAllowingExpired(token)
	if err != nil {
		return 0, err
	}
	if claims.ExpiresAt == nil {
		return 0, ErrInvalidToken
	}
	return int64(time.Until(claims.ExpiresAt.Time).Seconds()), nil
}

func (s *TokenService) sign(userID string, roles []string, ttl time.Duration, tokenType string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrInvalidToken
	}
	prefixed := make([]string, 0, len(roles))
	for _, role := range roles {
		if !strings.HasPrefix(role, "ROLE_") {
			role = "ROLE_" + strings.ToUpper(role)
		}
		prefixed = append(prefixed, role)
	}

	now := time.Now().UTC()
	claims := TokenClaims{
		TokenType:   tokenType,
		Authorities: strings.Join(prefixed, ","),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) parse(tokenString string, allowExpired bool) (TokenClaims, error) {
	if len(s.secret) == 0 || strings.TrimSpace(tokenString) == "" {
		return TokenClaims{}, ErrInvalidToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if allowExpired {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	var claims TokenClaims
	parser := jwt.NewParser(opts...)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenClaims{}, ErrExpiredToken
		}
		return TokenClaims{}, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) isValidClaims(claims TokenClaims) bool {
	if strings.TrimSpace(claims.Subject) == "" {
		return false
	}
	return claims.Issuer == s.issuer
}
