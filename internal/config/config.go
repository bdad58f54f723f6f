package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret       string `env:"JWT_SECRET,required"`
	JWTIssuer       string `env:"JWT_ISSUER" envDefault:"wit-auth"`
	JWTAccessTTLMS  int64  `env:"JWT_ACCESS_TTL_MS" envDefault:"1800000"`
	JWTRefreshTTLMS int64  `env:"JWT_REFRESH_TTL_MS" envDefault:"1209600000"`

	KakaoUserInfoURL   string `env:"KAKAO_USER_INFO_URL" envDefault:"https://kapi.kakao.com/v2/user/me"`
	GoogleTokenInfoURL string `env:"GOOGLE_TOKEN_INFO_URL" envDefault:"https://oauth2.googleapis.com/tokeninfo"`
	AppleKeysURL       string `env:"APPLE_KEYS_URL" envDefault:"https://appleid.apple.com/auth/keys"`
	AppleIssuer        string `env:"APPLE_ISSUER" envDefault:"https://appleid.apple.com"`
	AppleAudience      string `env:"APPLE_AUDIENCE"`

	OAuthHTTPTimeoutMS int64 `env:"OAUTH_HTTP_TIMEOUT_MS" envDefault:"5000"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
