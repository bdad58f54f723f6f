package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"wit-auth/internal/domain"
	"wit-auth/internal/oauth"
	"wit-auth/internal/repository"
	"wit-auth/internal/service"
)

type mockUserRepo struct {
	byID map[string]domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byID: make(map[string]domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	for _, existing := range m.byID {
		if existing.SocialType == user.SocialType && existing.ProviderID == user.ProviderID {
			return repository.ErrDuplicateKey
		}
	}
	m.byID[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetBySocial(_ context.Context, socialType domain.SocialType, providerID string) (domain.User, error) {
	for _, user := range m.byID {
		if user.SocialType == socialType && user.ProviderID == providerID {
			return user, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (m *mockUserRepo) ExistsBySocial(ctx context.Context, socialType domain.SocialType, providerID string) (bool, error) {
	_, err := m.GetBySocial(ctx, socialType, providerID)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (m *mockUserRepo) Update(_ context.Context, user domain.User) error {
	if _, ok := m.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.byID[user.ID] = user
	return nil
}

type mockTermsRepo struct {
	terms []domain.Terms
}

func (m *mockTermsRepo) GetByPublicID(_ context.Context, publicID string) (domain.Terms, error) {
	for _, t := range m.terms {
		if t.PublicID == publicID {
			return t, nil
		}
	}
	return domain.Terms{}, pgx.ErrNoRows
}

func (m *mockTermsRepo) ListActive(_ context.Context) ([]domain.Terms, error) {
	var active []domain.Terms
	for _, t := range m.terms {
		if t.Active {
			active = append(active, t)
		}
	}
	return active, nil
}

func (m *mockTermsRepo) CountRequiredActive(_ context.Context) (int, error) {
	count := 0
	for _, t := range m.terms {
		if t.Required && t.Active {
			count++
		}
	}
	return count, nil
}

type mockAgreementRepo struct {
	terms *mockTermsRepo
	byKey map[string]domain.UserTermsAgreement
}

func newMockAgreementRepo(terms *mockTermsRepo) *mockAgreementRepo {
	return &mockAgreementRepo{terms: terms, byKey: make(map[string]domain.UserTermsAgreement)}
}

func (m *mockAgreementRepo) key(userID, termsID string) string {
	return userID + "/" + termsID
}

func (m *mockAgreementRepo) GetByUserAndTerms(_ context.Context, userID, termsID string) (domain.UserTermsAgreement, error) {
	agreement, ok := m.byKey[m.key(userID, termsID)]
	if !ok {
		return domain.UserTermsAgreement{}, pgx.ErrNoRows
	}
	return agreement, nil
}

func (m *mockAgreementRepo) Create(_ context.Context, agreement domain.UserTermsAgreement) error {
	m.byKey[m.key(agreement.UserID, agreement.TermsID)] = agreement
	return nil
}

func (m *mockAgreementRepo) Update(_ context.Context, agreement domain.UserTermsAgreement) error {
	m.byKey[m.key(agreement.UserID, agreement.TermsID)] = agreement
	return nil
}

func (m *mockAgreementRepo) CountAgreedRequired(_ context.Context, userID string) (int, error) {
	count := 0
	for _, t := range m.terms.terms {
		if !t.Required || !t.Active {
			continue
		}
		if agreement, ok := m.byKey[m.key(userID, t.ID)]; ok && agreement.Agreed {
			count++
		}
	}
	return count, nil
}

func (m *mockAgreementRepo) ListByUser(_ context.Context, userID string) ([]domain.UserTermsAgreement, error) {
	var agreements []domain.UserTermsAgreement
	for _, agreement := range m.byKey {
		if agreement.UserID == userID {
			agreements = append(agreements, agreement)
		}
	}
	return agreements, nil
}

type mockValidator struct {
	info oauth.UserInfo
	err  error
}

func (m *mockValidator) Validate(_ context.Context, _ string) (oauth.UserInfo, error) {
	if m.err != nil {
		return oauth.UserInfo{}, m.err
	}
	return m.info, nil
}

type apiFixture struct {
	router *gin.Engine
	users  *mockUserRepo
	tokens *service.TokenService
	kakao  *mockValidator
	google *mockValidator
	apple  *mockValidator
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	userRepo := newMockUserRepo()
	termsRepo := &mockTermsRepo{terms: []domain.Terms{
		{ID: "t1", PublicID: "terms-service", Type: domain.TermsTypeService, Title: "Service", Version: "1.0", Required: true, Active: true},
		{ID: "t2", PublicID: "terms-privacy", Type: domain.TermsTypePrivacy, Title: "Privacy", Version: "1.0", Required: true, Active: true},
		{ID: "t3", PublicID: "terms-marketing", Type: domain.TermsTypeMarketing, Title: "Marketing", Version: "1.0", Required: false, Active: true},
	}}
	agreementRepo := newMockAgreementRepo(termsRepo)

	tokens := service.NewTokenService("secret", "wit-auth", 0, 0)
	store := service.NewMemoryRefreshTokenStore()
	userServ := service.NewUserService(logger, userRepo)
	termsServ := service.NewTermsService(logger, termsRepo, agreementRepo, userRepo)

	kakao := &mockValidator{info: oauth.UserInfo{ProviderID: "kakao-1", Email: "a@b.com"}}
	google := &mockValidator{info: oauth.UserInfo{ProviderID: "google-1", Email: "g@b.com"}}
	apple := &mockValidator{info: oauth.UserInfo{ProviderID: "apple-1"}}
	authServ := service.NewAuthService(logger, userServ, tokens, store, kakao, google, apple)

	router := NewRouter(
		logger,
		tokens,
		NewAuthHandler(logger, authServ),
		NewTermsHandler(logger, termsServ),
		NewUserHandler(logger, userServ),
	)
	return &apiFixture{
		router: router,
		users:  userRepo,
		tokens: tokens,
		kakao:  kakao,
		google: google,
		apple:  apple,
	}
}

func performRequest(r http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d (body %s)", status, rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["code"] != code {
		t.Fatalf("expected code %s, got %v", code, body["code"])
	}
}

// login hace un login social por Kakao y devuelve el resultado decodificado.
func (fx *apiFixture) login(t *testing.T) map[string]any {
	t.Helper()
	rec := performRequest(fx.router, http.MethodPost, "/v1/auth/login/social", "", map[string]string{
		"social_type": "KAKAO",
		"token":       "provider-token",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: status %d body %s", rec.Code, rec.Body.String())
	}
	return decodeBody(t, rec)
}

func (fx *apiFixture) accessToken(t *testing.T) string {
	t.Helper()
	body := fx.login(t)
	token, _ := body["access_token"].(string)
	if token == "" {
		t.Fatal("expected access token in login response")
	}
	return token
}
