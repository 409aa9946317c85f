package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ModeDev     = "dev"
	ModeRelease = "release"

	DefaultPath          = "config/config.yaml"
	DefaultLateAfterDays = 4
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver" env:"LIBRARY_DB_DRIVER"`
	Host     string `yaml:"host" env:"LIBRARY_DB_HOST"`
	Port     int    `yaml:"port" env:"LIBRARY_DB_PORT"`
	Username string `yaml:"user" env:"LIBRARY_DB_USER"`
	Password string `yaml:"password" env:"LIBRARY_DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"LIBRARY_DB_NAME"`
	// sqlite3 のみ使用
	Path string `yaml:"path" env:"LIBRARY_DB_PATH"`
	// postgres のみ使用
	SSLMode string `yaml:"sslmode" env:"LIBRARY_DB_SSLMODE"`
}

type Certs struct {
	Cert string `yaml:"cert" env:"LIBRARY_TLS_CERT"`
	Key  string `yaml:"key" env:"LIBRARY_TLS_KEY"`
}

type RateLimit struct {
	RPS   float64 `yaml:"rps" env:"LIBRARY_RATE_LIMIT_RPS"`
	Burst int     `yaml:"burst" env:"LIBRARY_RATE_LIMIT_BURST"`
}

type HTTPConfig struct {
	Addr        string    `yaml:"addr" env:"LIBRARY_HTTP_ADDR"`
	CORSOrigins []string  `yaml:"cors_origins"`
	RateLimit   RateLimit `yaml:"rate_limit"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LIBRARY_LOG_LEVEL"`
	Format string `yaml:"format" env:"LIBRARY_LOG_FORMAT"`
}

type LoansConfig struct {
	// 貸出日からこの日数を超えたら延滞扱い
	LateAfterDays int `yaml:"late_after_days" env:"LIBRARY_LATE_AFTER_DAYS"`
}

type AuthConfig struct {
	Enabled       bool          `yaml:"enabled" env:"LIBRARY_AUTH_ENABLED"`
	JWTSecret     string        `yaml:"jwt_secret" env:"LIBRARY_JWT_SECRET"`
	TokenTTL      time.Duration `yaml:"token_ttl" env:"LIBRARY_TOKEN_TTL"`
	AdminID       string        `yaml:"admin_id" env:"LIBRARY_ADMIN_ID"`
	AdminPassword string        `yaml:"admin_password" env:"LIBRARY_ADMIN_PASSWORD"`
}

type Config struct {
	Version     string         `yaml:"version"`
	Mode        string         `yaml:"mode" env:"LIBRARY_MODE"`
	HTTP        HTTPConfig     `yaml:"http"`
	Certificate Certs          `yaml:"certificate"`
	DB          DatabaseConfig `yaml:"database"`
	Log         LogConfig      `yaml:"log"`
	Loans       LoansConfig    `yaml:"loans"`
	Auth        AuthConfig     `yaml:"auth"`
}

// LoadConfig は YAML を読み込み、.env と環境変数 (LIBRARY_*) で上書きする。
func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	// .env は任意
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays LIBRARY_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("decode env: %w", err)
	}
	return nil
}

func Default() *Config {
	return &Config{
		Mode: ModeDev,
		HTTP: HTTPConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		DB: DatabaseConfig{
			Driver: "mysql",
			Host:   "127.0.0.1",
			Port:   3306,
		},
		Log:   LogConfig{Level: "info", Format: "text"},
		Loans: LoansConfig{LateAfterDays: DefaultLateAfterDays},
		Auth:  AuthConfig{TokenTTL: 24 * time.Hour},
	}
}

func (c *Config) Validate() error {
	if c.Mode != ModeDev && c.Mode != ModeRelease {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeDev, ModeRelease, c.Mode)
	}
	switch c.DB.Driver {
	case "mysql", "postgres":
		if c.DB.DBName == "" {
			return fmt.Errorf("database.dbname is required for %s", c.DB.Driver)
		}
	case "sqlite3":
		if c.DB.Path == "" {
			return errors.New("database.path is required for sqlite3")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.DB.Driver)
	}
	if c.Loans.LateAfterDays < 0 {
		return errors.New("loans.late_after_days must be >= 0")
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required when auth is enabled")
	}
	return nil
}

// TLSEnabled は証明書と鍵の両方が設定されている場合に true
func (c *Config) TLSEnabled() bool {
	return c.Certificate.Cert != "" && c.Certificate.Key != ""
}
