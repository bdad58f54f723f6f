package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wit-auth/internal/domain"
	"wit-auth/internal/oauth"
	"wit-auth/internal/repository"
	"wit-auth/internal/service"
)

// errorResponse es el cuerpo de error estable: código legible por máquina más
// mensaje humano. Ningún detalle interno cruza esta frontera.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var errorCatalog = []struct {
	match   error
	status  int
	code    string
	message string
}{
	{service.ErrUnsupportedSocialType, http.StatusBadRequest, "AUTH__002", "unsupported social login"},
	{oauth.ErrInvalidToken, http.StatusUnauthorized, "AUTH__001", "invalid oauth token"},
	{oauth.ErrProviderError, http.StatusBadGateway, "AUTH__003", "oauth provider error"},
	{oauth.ErrInvalidAppleToken, http.StatusUnauthorized, "AUTH__004", "apple token validation failed"},
	{service.ErrInvalidToken, http.StatusUnauthorized, "JWT__001", "invalid token"},
	{service.ErrExpiredToken, http.StatusUnauthorized, "JWT__002", "expired token"},
	{service.ErrUserNotFound, http.StatusNotFound, "USER__001", "user not found"},
	{domain.ErrUserAlreadyDeleted, http.StatusBadRequest, "USER__002", "user already deleted"},
	{domain.ErrInvalidTransition, http.StatusBadRequest, "USER__003", "user status does not allow this operation"},
	{repository.ErrDuplicateKey, http.StatusConflict, "USER__004", "email already in use"},
	{service.ErrTermsNotFound, http.StatusNotFound, "TERMS__001", "terms not found"},
	{service.ErrRequiredTermsNotAgreed, http.StatusBadRequest, "TERMS__002", "required terms must be agreed"},
}

// respondError mapea errores de dominio a status + código estable; lo no
// reconocido colapsa en un error interno genérico.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	for _, entry := range errorCatalog {
		if errors.Is(err, entry.match) {
			c.JSON(entry.status, errorResponse{Code: entry.code, Message: entry.message})
			return
		}
	}
	if logger != nil {
		logger.Error("unhandled error", zap.Error(err))
	}
	c.JSON(http.StatusInternalServerError, errorResponse{Code: "GLOBAL__500", Message: "internal server error"})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorResponse{Code: "GLOBAL__400", Message: message})
}
