package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wit-auth/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	tokenServ *service.TokenService,
	authH *AuthHandler,
	termsH *TermsHandler,
	userH *UserHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	authRequired := JWTAuthMiddleware(tokenServ)

	auth := r.Group("/v1/auth")
	auth.POST("/login/social", authH.SocialLogin)
	auth.POST("/logout", authRequired, authH.Logout)
	auth.POST("/reissue", authH.Reissue)

	terms := r.Group("/v1/terms")
	terms.GET("/active", termsH.GetActiveTerms)
	terms.POST("/agree", authRequired, termsH.AgreeToTerms)

	users := r.Group("/v1/users", authRequired)
	users.PATCH("/onboarding", userH.CompleteOnboarding)
	users.PATCH("/profile", userH.UpdateProfile)
	users.DELETE("/me", userH.DeleteMe)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
