package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestTokenService() *TokenService {
	return NewTokenService("secret", "wit-auth", 30*time.Minute, 14*24*time.Hour)
}

func signTestToken(t *testing.T, secret, issuer, subject, tokenType string, expiresAt time.Time) string {
	t.Helper()
	claims := TokenClaims{
		TokenType:   tokenType,
		Authorities: "ROLE_USER",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestTokenService_IssueVerifyRoundTrip(t *testing.T) {
	svc := newTestTokenService()

	access, err := svc.IssueAccessToken("u1", []string{"ROLE_USER"})
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}

	claims, err := svc.Verify(access)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "u1" {
		t.Fatalf("expected subject u1, got %q", claims.Subject)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Fatalf("expected access type, got %q", claims.TokenType)
	}
	if got := claims.Roles(); len(got) != 1 || got[0] != "ROLE_USER" {
		t.Fatalf("unexpected roles: %v", got)
	}
}

func TestTokenService_RefreshTokenCarriesType(t *testing.T) {
	svc := newTestTokenService()

	refresh, err := svc.IssueRefreshToken("u1", []string{"ROLE_USER"})
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	claims, err := svc.Verify(refresh)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.TokenType != TokenTypeRefresh {
		t.Fatalf("expected refresh type, got %q", claims.TokenType)
	}
}

func TestTokenService_RolePrefixApplied(t *testing.T) {
	svc := newTestTokenService()

	access, err := svc.IssueAccessToken("u1", []string{"user"})
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	claims, err := svc.Verify(access)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Authorities != "ROLE_USER" {
		t.Fatalf("expected ROLE_USER, got %q", claims.Authorities)
	}
}

func TestTokenService_ExpiredToken(t *testing.T) {
	svc := newTestTokenService()
	expired := signTestToken(t, "secret", "wit-auth", "u1", TokenTypeAccess, time.Now().UTC().Add(-time.Minute))

	if _, err := svc.Verify(expired); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}

	claims, err := svc.VerifyAllowingExpired(expired)
	if err != nil {
		t.Fatalf("verify allowing expired: %v", err)
	}
	if claims.Subject != "u1" {
		t.Fatalf("expected subject u1, got %q", claims.Subject)
	}

	remaining, err := svc.RemainingLifetime(expired)
	if err != nil {
		t.Fatalf("remaining lifetime: %v", err)
	}
	if remaining >= 0 {
		t.Fatalf("expected negative remaining lifetime, got %d", remaining)
	}
}

func TestTokenService_RemainingLifetimePositive(t *testing.T) {
	svc := newTestTokenService()

	access, err := svc.IssueAccessToken("u1", []string{"ROLE_USER"})
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	remaining, err := svc.RemainingLifetime(access)
	if err != nil {
		t.Fatalf("remaining lifetime: %v", err)
	}
	if remaining <= 0 || remaining > int64((30*time.Minute).Seconds()) {
		t.Fatalf("unexpected remaining lifetime: %d", remaining)
	}
}

func TestTokenService_RejectsBadSignature(t *testing.T) {
	svc := newTestTokenService()
	forged := signTestToken(t, "other-secret", "wit-auth", "u1", TokenTypeAccess, time.Now().UTC().Add(time.Hour))

	if _, err := svc.Verify(forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.VerifyAllowingExpired(forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken even allowing expiry, got %v", err)
	}
}

func TestTokenService_RejectsWrongIssuer(t *testing.T) {
	svc := newTestTokenService()
	foreign := signTestToken(t, "secret", "other-issuer", "u1", TokenTypeAccess, time.Now().UTC().Add(time.Hour))

	if _, err := svc.Verify(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_RejectsMalformedToken(t *testing.T) {
	svc := newTestTokenService()
	for _, bad := range []string{"", "   ", "not-a-jwt", "a.b"} {
		if _, err := svc.Verify(bad); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", bad, err)
		}
	}
}
