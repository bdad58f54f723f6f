package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"wit-auth/internal/config"
	"wit-auth/internal/db"
	apihttp "wit-auth/internal/http"
	"wit-auth/internal/oauth"
	"wit-auth/internal/repository"
	"wit-auth/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	termsRepo := repository.NewPgTermsRepository(pool)
	agreementRepo := repository.NewPgAgreementRepository(pool)

	tokenStore := service.NewMemoryRefreshTokenStore()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, falling back to memory store", zap.Error(err))
		} else {
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	oauthTimeout := time.Duration(cfg.OAuthHTTPTimeoutMS) * time.Millisecond
	kakao := oauth.NewKakaoValidator(cfg.KakaoUserInfoURL, oauthTimeout, logger)
	google := oauth.NewGoogleValidator(cfg.GoogleTokenInfoURL, oauthTimeout, logger)
	apple := oauth.NewAppleValidator(cfg.AppleKeysURL, cfg.AppleIssuer, cfg.AppleAudience, oauthTimeout, logger)

	tokenServ := service.NewTokenService(
		cfg.JWTSecret,
		cfg.JWTIssuer,
		time.Duration(cfg.JWTAccessTTLMS)*time.Millisecond,
		time.Duration(cfg.JWTRefreshTTLMS)*time.Millisecond,
	)

	userServ := service.NewUserService(logger, userRepo)
	termsServ := service.NewTermsService(logger, termsRepo, agreementRepo, userRepo)
	authServ := service.NewAuthService(logger, userServ, tokenServ, tokenStore, kakao, google, apple)

	authHandler := apihttp.NewAuthHandler(logger, authServ)
	termsHandler := apihttp.NewTermsHandler(logger, termsServ)
	userHandler := apihttp.NewUserHandler(logger, userServ)
	router := apihttp.NewRouter(logger, tokenServ, authHandler, termsHandler, userHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
