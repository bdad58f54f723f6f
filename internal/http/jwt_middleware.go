package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wit-auth/internal/service"
)

const (
	authUserIDKey = "auth_user_id"
	authClaimsKey = "auth_claims"
)

// JWTAuthMiddleware valida el access token Bearer y guarda la identidad del
// usuario en el contexto de la request.
func JWTAuthMiddleware(tokenServ *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, errorResponse{Code: "JWT__004", Message: "missing token"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := tokenServ.Verify(token)
		if err != nil {
			code := "JWT__001"
			message := "invalid token"
			if err == service.ErrExpiredToken {
				code, message = "JWT__002", "expired token"
			}
			c.JSON(http.StatusUnauthorized, errorResponse{Code: code, Message: message})
			c.Abort()
			return
		}
		if claims.TokenType != service.TokenTypeAccess {
			c.JSON(http.StatusUnauthorized, errorResponse{Code: "JWT__003", Message: "unsupported token type"})
			c.Abort()
			return
		}

		c.Set(authUserIDKey, claims.Subject)
		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// AuthUserID obtiene el id de usuario autenticado desde el contexto.
func AuthUserID(c *gin.Context) (string, bool) {
	val, ok := c.Get(authUserIDKey)
	if !ok {
		return "", false
	}
	userID, ok := val.(string)
	return userID, ok && userID != ""
}

// AuthClaims obtiene los claims verificados desde el contexto.
func AuthClaims(c *gin.Context) (service.TokenClaims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.TokenClaims{}, false
	}
	claims, ok := val.(service.TokenClaims)
	return claims, ok
}
