package oauth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// AppleValidator verifica ID tokens de Apple localmente: descarga el JWKS
// vigente, reconstruye la clave RSA por kid y valida firma y claims.
// Todas las fallas colapsan en ErrInvalidAppleToken.
type AppleValidator struct {
	keysURL  string
	issuer   string
	audience string
	client   *http.Client
	logger   *zap.Logger
}

func NewAppleValidator(keysURL, issuer, audience string, timeout time.Duration, logger *zap.Logger) *AppleValidator {
	return &AppleValidator{
		keysURL:  keysURL,
		issuer:   issuer,
		audience: audience,
		client:   newHTTPClient(timeout),
		logger:   logger,
	}
}

func (v *AppleValidator) Validate(ctx context.Context, idToken string) (UserInfo, error) {
	info, err := v.validate(ctx, idToken)
	if err != nil {
		if v.logger != nil {
			v.logger.Error("apple token validation failed", zap.Error(err))
		}
		return UserInfo{}, ErrInvalidAppleToken
	}
	return info, nil
}

func (v *AppleValidator) validate(ctx context.Context, idToken string) (UserInfo, error) {
	keys, err := v.fetchKeys(ctx)
	if err != nil {
		return UserInfo{}, err
	}
	if len(keys.Keys) == 0 {
		return UserInfo{}, fmt.Errorf("empty apple key set")
	}

	kid, err := kidFromToken(idToken)
	if err != nil {
		return UserInfo{}, err
	}

	key := keys.matchingKey(kid)
	if key == nil {
		return UserInfo{}, fmt.Errorf("no apple key for kid %q", kid)
	}

	pubKey, err := rsaPublicKey(key)
	if err != nil {
		return UserInfo{}, err
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	claims := jwt.MapClaims{}
	if _, err := parser.ParseWithClaims(idToken, claims, func(_ *jwt.Token) (any, error) {
		return pubKey, nil
	}); err != nil {
		return UserInfo{}, fmt.Errorf("parse signed claims: %w", err)
	}

	if err := v.validateClaims(claims); err != nil {
		return UserInfo{}, err
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return UserInfo{}, fmt.Errorf("missing subject claim")
	}
	email, _ := claims["email"].(string)

	return UserInfo{ProviderID: sub, Email: email}, nil
}

func (v *AppleValidator) fetchKeys(ctx context.Context) (*appleKeySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.keysURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch apple keys: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read apple keys: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("apple keys endpoint status %d", resp.StatusCode)
	}

	var keys appleKeySet
	if err := json.Unmarshal(body, &keys); err != nil {
		return nil, fmt.Errorf("decode apple keys: %w", err)
	}
	return &keys, nil
}

func (v *AppleValidator) validateClaims(claims jwt.MapClaims) error {
	issuer, err := claims.GetIssuer()
	if err != nil || issuer != v.issuer {
		return fmt.Errorf("unexpected issuer %q", issuer)
	}

	// Audience solo se valida cuando está configurada.
	if v.audience != "" {
		auds, err := claims.GetAudience()
		if err != nil {
			return fmt.Errorf("missing audience claim")
		}
		for _, aud := range auds {
			if aud == v.audience {
				return nil
			}
		}
		return fmt.Errorf("unexpected audience %v", auds)
	}
	return nil
}

// kidFromToken extrae el kid del header sin verificar la firma todavía.
func kidFromToken(idToken string) (string, error) {
	parts := strings.Split(idToken, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("token is not a jwt")
	}
	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("decode jwt header: %w", err)
	}
	var header struct {
		Kid string `json:"kid"`
	}
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return "", fmt.Errorf("parse jwt header: %w", err)
	}
	if header.Kid == "" {
		return "", fmt.Errorf("jwt header has no kid")
	}
	return header.Kid, nil
}

// rsaPublicKey reconstruye la clave pública desde módulo y exponente base64url.
func rsaPublicKey(key *appleKey) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(key.N)
	if err != nil {
		return nil, fmt.Errorf("decode modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(key.E)
	if err != nil {
		return nil, fmt.Errorf("decode exponent: %w", err)
	}

	n := new(big.Int).SetBytes(nBytes)
	e := new(big.Int).SetBytes(eBytes)
	if !e.IsInt64() || e.Int64() <= 0 {
		return nil, fmt.Errorf("exponent out of range")
	}

	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}

type appleKeySet struct {
	Keys []appleKey `json:"keys"`
}

type appleKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func (s *appleKeySet) matchingKey(kid string) *appleKey {
	for i := range s.Keys {
		if s.Keys[i].Kid == kid {
			return &s.Keys[i]
		}
	}
	return nil
}
