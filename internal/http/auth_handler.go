package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wit-auth/internal/domain"
	"wit-auth/internal/service"
)

// AuthHandler mantiene dependencias para los endpoints de autenticación.
type AuthHandler struct {
	logger   *zap.Logger
	authServ *service.AuthService
}

func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		authServ: authServ,
	}
}

// SocialLogin maneja POST /v1/auth/login/social.
func (h *AuthHandler) SocialLogin(c *gin.Context) {
	var req struct {
		SocialType string `json:"social_type" binding:"required"`
		Token      string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid social login request", zap.Error(err))
		respondBadRequest(c, "invalid request")
		return
	}

	socialType, err := domain.ParseSocialType(req.SocialType)
	if err != nil {
		respondError(c, h.logger, service.ErrUnsupportedSocialType)
		return
	}

	result, err := h.authServ.SocialLogin(c.Request.Context(), socialType, req.Token)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Logout maneja POST /v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Code: "JWT__004", Message: "missing token"})
		return
	}

	if err := h.authServ.Logout(userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Reissue maneja POST /v1/auth/reissue.
func (h *AuthHandler) Reissue(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid reissue request", zap.Error(err))
		respondBadRequest(c, "invalid request")
		return
	}

	result, err := h.authServ.Reissue(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
