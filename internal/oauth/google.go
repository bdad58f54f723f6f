package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// GoogleValidator delega la verificación del ID token al endpoint tokeninfo de Google.
type GoogleValidator struct {
	tokenInfoURL string
	client       *http.Client
	logger       *zap.Logger
}

func NewGoogleValidator(tokenInfoURL string, timeout time.Duration, logger *zap.Logger) *GoogleValidator {
	return &GoogleValidator{
		tokenInfoURL: tokenInfoURL,
		client:       newHTTPClient(timeout),
		logger:       logger,
	}
}

func (v *GoogleValidator) Validate(ctx context.Context, idToken string) (UserInfo, error) {
	u, err := url.Parse(v.tokenInfoURL)
	if err != nil {
		return UserInfo{}, fmt.Errorf("parse tokeninfo url: %w", err)
	}
	q := u.Query()
	q.Set("id_token", idToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return UserInfo{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		if v.logger != nil {
			v.logger.Error("google tokeninfo unreachable", zap.Error(err))
		}
		return UserInfo{}, ErrProviderError
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return UserInfo{}, ErrProviderError
	}

	switch {
	case resp.StatusCode >= 500:
		if v.logger != nil {
			v.logger.Error("google tokeninfo server error", zap.Int("status", resp.StatusCode))
		}
		return UserInfo{}, ErrProviderError
	case resp.StatusCode >= 400:
		if v.logger != nil {
			v.logger.Warn("google rejected id token", zap.Int("status", resp.StatusCode))
		}
		return UserInfo{}, ErrInvalidToken
	}

	var gr googleTokenResponse
	if err := json.Unmarshal(body, &gr); err != nil || gr.Sub == "" {
		return UserInfo{}, ErrInvalidToken
	}

	return UserInfo{ProviderID: gr.Sub, Email: gr.Email}, nil
}

type googleTokenResponse struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Aud           string `json:"aud"`
	Iss           string `json:"iss"`
	Exp           string `json:"exp"`
}
