package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wit-auth/internal/service"
)

// TermsHandler mantiene dependencias para los endpoints de términos.
type TermsHandler struct {
	logger    *zap.Logger
	termsServ *service.TermsService
}

func NewTermsHandler(logger *zap.Logger, termsServ *service.TermsService) *TermsHandler {
	return &TermsHandler{
		logger:    logger,
		termsServ: termsServ,
	}
}

// GetActiveTerms maneja GET /v1/terms/active.
func (h *TermsHandler) GetActiveTerms(c *gin.Context) {
	terms, err := h.termsServ.GetActiveTerms(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"terms": terms})
}

// AgreeToTerms maneja POST /v1/terms/agree.
func (h *TermsHandler) AgreeToTerms(c *gin.Context) {
	userID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Code: "JWT__004", Message: "missing token"})
		return
	}

	var req struct {
		Agreements []struct {
			TermsPublicID string `json:"terms_public_id" binding:"required"`
			Agreed        *bool  `json:"agreed" binding:"required"`
		} `json:"agreements" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid terms agreement request", zap.Error(err))
		respondBadRequest(c, "invalid request")
		return
	}

	items := make([]service.TermsAgreementInput, 0, len(req.Agreements))
	for _, a := range req.Agreements {
		items = append(items, service.TermsAgreementInput{
			TermsPublicID: a.TermsPublicID,
			Agreed:        *a.Agreed,
		})
	}

	status, err := h.termsServ.AgreeToTerms(c.Request.Context(), userID, items)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_status": status})
}
