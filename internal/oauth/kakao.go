package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// KakaoValidator valida access tokens de Kakao contra su endpoint de user info.
type KakaoValidator struct {
	userInfoURL string
	client      *http.Client
	logger      *zap.Logger
}

func NewKakaoValidator(userInfoURL string, timeout time.Duration, logger *zap.Logger) *KakaoValidator {
	return &KakaoValidator{
		userInfoURL: userInfoURL,
		client:      newHTTPClient(timeout),
		logger:      logger,
	}
}

func (v *KakaoValidator) Validate(ctx context.Context, token string) (UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.userInfoURL, nil)
	if err != nil {
		return UserInfo{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		if v.logger != nil {
			v.logger.Error("kakao user info unreachable", zap.Error(err))
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
			v.logger.Error("kakao user info server error", zap.Int("status", resp.StatusCode))
		}
		return UserInfo{}, ErrProviderError
	case resp.StatusCode >= 400:
		if v.logger != nil {
			v.logger.Warn("kakao rejected access token", zap.Int("status", resp.StatusCode))
		}
		return UserInfo{}, ErrInvalidToken
	}

	var kr kakaoUserResponse
	if err := json.Unmarshal(body, &kr); err != nil || kr.ID == 0 {
		return UserInfo{}, ErrInvalidToken
	}

	info := UserInfo{ProviderID: strconv.FormatInt(kr.ID, 10)}
	if kr.KakaoAccount != nil {
		info.Email = kr.KakaoAccount.Email
	}
	return info, nil
}

type kakaoUserResponse struct {
	ID           int64 `json:"id"`
	KakaoAccount *struct {
		Email string `json:"email"`
	} `json:"kakao_account"`
}
