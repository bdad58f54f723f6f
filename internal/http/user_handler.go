package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wit-auth/internal/domain"
	"wit-auth/internal/service"
)

// UserHandler mantiene dependencias para los endpoints de usuarios.
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
}

func NewUserHandler(logger *zap.Logger, userServ *service.UserService) *UserHandler {
	return &UserHandler{
		logger:   logger,
		userServ: userServ,
	}
}

// CompleteOnboarding maneja PATCH /v1/users/onboarding.
func (h *UserHandler) CompleteOnboarding(c *gin.Context) {
	userID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Code: "JWT__004", Message: "missing token"})
		return
	}

	var req struct {
		Nickname  string `json:"nickname" binding:"required,min=2,max=20"`
		Gender    string `json:"gender" binding:"required"`
		BirthDate string `json:"birth_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid onboarding request", zap.Error(err))
		respondBadRequest(c, "invalid request")
		return
	}

	gender, err := domain.ParseGender(req.Gender)
	if err != nil {
		respondBadRequest(c, "unsupported gender")
		return
	}
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		respondBadRequest(c, "birth_date must be YYYY-MM-DD")
		return
	}

	user, err := h.userServ.CompleteOnboarding(c.Request.Context(), userID, req.Nickname, gender, birthDate)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile maneja PATCH /v1/users/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Code: "JWT__004", Message: "missing token"})
		return
	}

	var req struct {
		Nickname        string `json:"nickname" binding:"omitempty,min=2,max=20"`
		ProfileImageURL string `json:"profile_image_url" binding:"omitempty,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid profile update request", zap.Error(err))
		respondBadRequest(c, "invalid request")
		return
	}

	user, err := h.userServ.UpdateProfile(c.Request.Context(), userID, req.Nickname, req.ProfileImageURL)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteMe maneja DELETE /v1/users/me (soft delete).
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Code: "JWT__004", Message: "missing token"})
		return
	}

	if err := h.userServ.Delete(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
