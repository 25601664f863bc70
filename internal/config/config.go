package config

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Uploads  UploadsConfig
	AI       AIConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port               string
	Env                string
	BaseURL            string
	AllowedOrigins     []string
	JWTSecret          string
	JWTExpirationHours int
	AllowRegistration  bool
	RateLimitRPS       int
	RateLimitBurst     int
	LogFormat          string
}

type DatabaseConfig struct {
	Driver string // mysql | sqlite
	DSN    string
}

type UploadsConfig struct {
	Dir string
}

type AIConfig struct {
	GeminiAPIKey string
	Model        string
}

// AdminConfig seeds the first admin account.
type AdminConfig struct {
	Username string
	Password string
}

var AppConfig *Config

// DevJWTSecret signs tokens when JWT_SECRET is unset. Production refuses it.
const DevJWTSecret = "change-me-dealer-hub-secret"

var ErrDevJWTSecret = errors.New("JWT_SECRET must be set when SERVER_ENV=production")

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment only")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("JWT_SECRET", DevJWTSecret)
	v.SetDefault("JWT_EXPIRATION_HOURS", 24)
	v.SetDefault("ALLOW_REGISTRATION", false)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "dealer.db")
	v.SetDefault("UPLOADS_DIR", "./uploads")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash-001")
	v.SetDefault("ADMIN_USERNAME", "admin")
	_ = v.BindEnv("SERVER_PORT", "SERVER_PORT", "PORT")

	cfg := &Config{
		Server: ServerConfig{
			Port:               v.GetString("SERVER_PORT"),
			Env:                v.GetString("SERVER_ENV"),
			BaseURL:            strings.TrimRight(v.GetString("BASE_URL"), "/"),
			AllowedOrigins:     splitList(v.GetString("ALLOWED_ORIGINS")),
			JWTSecret:          v.GetString("JWT_SECRET"),
			JWTExpirationHours: v.GetInt("JWT_EXPIRATION_HOURS"),
			AllowRegistration:  v.GetBool("ALLOW_REGISTRATION"),
			RateLimitRPS:       v.GetInt("RATE_LIMIT_RPS"),
			RateLimitBurst:     v.GetInt("RATE_LIMIT_BURST"),
			LogFormat:          v.GetString("LOG_FORMAT"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:    v.GetString("DB_DSN"),
		},
		Uploads: UploadsConfig{Dir: v.GetString("UPLOADS_DIR")},
		AI: AIConfig{
			GeminiAPIKey: v.GetString("GEMINI_API_KEY"),
			Model:        v.GetString("GEMINI_MODEL"),
		},
		Admin: AdminConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}
	AppConfig = cfg

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"env", cfg.Server.Env,
		"db_driver", cfg.Database.Driver,
		"registration", cfg.Server.AllowRegistration,
		"assistant", cfg.AI.GeminiAPIKey != "",
	)
	return cfg
}

// IsProduction reports whether the server runs with SERVER_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate rejects settings that are only safe for local development.
func (c *Config) Validate() error {
	if c.IsProduction() && (c.Server.JWTSecret == "" || c.Server.JWTSecret == DevJWTSecret) {
		return ErrDevJWTSecret
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
