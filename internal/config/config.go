package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingJWTSecret = errors.New("JWT secret is not set (auth.jwt_secret / JWT_SECRET)")

// Config holds everything main needs to wire the service.
type Config struct {
	Port      string
	CardsPath string
	UsersPath string
	JWTSecret string
	LogLevel  string

	TokenRateLimit  int
	TokenRateWindow time.Duration
	AllowedOrigins  []string
}

const (
	defaultPort           = "3000"
	defaultCardsPath      = "cards.json"
	defaultUsersPath      = "users.json"
	defaultLogLevel       = "info"
	defaultTokenRateLimit = 20
	defaultTokenRateWin   = time.Minute
)

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"port":            "PORT",
	"data.cards_path": "CARD_DATA_FILE",
	"data.users_path": "USER_DATA_FILE",
	"auth.jwt_secret": "JWT_SECRET",
	"log.level":       "LOG_LEVEL",
}

// Load reads config.yml from the given directories (default "configs"),
// applies environment overrides and validates the result. A missing config
// file is fine; defaults apply.
func Load(paths ...string) (Config, error) {
	v := viper.New()
	if len(paths) == 0 {
		paths = []string{"configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port:            v.GetString("port"),
		CardsPath:       v.GetString("data.cards_path"),
		UsersPath:       v.GetString("data.users_path"),
		JWTSecret:       v.GetString("auth.jwt_secret"),
		LogLevel:        v.GetString("log.level"),
		TokenRateLimit:  v.GetInt("ratelimit.token_requests"),
		TokenRateWindow: v.GetDuration("ratelimit.window"),
		AllowedOrigins:  v.GetStringSlice("cors.allowed_origins"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", defaultPort)
	v.SetDefault("data.cards_path", defaultCardsPath)
	v.SetDefault("data.users_path", defaultUsersPath)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("ratelimit.token_requests", defaultTokenRateLimit)
	v.SetDefault("ratelimit.window", defaultTokenRateWin)
	v.SetDefault("cors.allowed_origins", []string{"*"})
}

func (c Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	if c.TokenRateLimit <= 0 {
		return fmt.Errorf("ratelimit.token_requests must be positive, got %d", c.TokenRateLimit)
	}
	if c.TokenRateWindow <= 0 {
		return fmt.Errorf("ratelimit.window must be positive, got %s", c.TokenRateWindow)
	}
	return nil
}
