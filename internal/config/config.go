// Package config は環境変数からアプリケーション設定を読み込みます。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// JWTConfig はトークン発行と検証に使う設定です。
type JWTConfig struct {
	Issuer        string
	Audience      string
	SignKey       string
	ExpireMinutes int
}

// SeedConfig は初期ユーザーのパスワードです。
type SeedConfig struct {
	AdminPassword string
	DemoPassword  string
}

// Config はアプリケーション全体の設定値を保持します。
type Config struct {
	AppEnv            string
	HTTPPort          string
	DBDriver          string
	DatabaseDSN       string
	AllowOrigins      []string
	LogLevel          string
	ExposeErrorDetail bool
	JWT               JWTConfig
	Seed              SeedConfig
}

// IsDevelopment は開発環境かどうかを返します。
func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load は .env を読み込んだうえで環境変数から Config を構築します。
// .env が存在しない場合は環境変数のみを使います。
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)

	cfg := Config{
		AppEnv:       getEnv("APP_ENV", "development"),
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		DBDriver:     strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		AllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		JWT: JWTConfig{
			Issuer:   getEnv("JWT_ISSUER", "TodoAPI"),
			Audience: getEnv("JWT_AUDIENCE", "TodoWeb"),
			SignKey:  os.Getenv("JWT_SIGN_KEY"),
		},
		Seed: SeedConfig{
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", "123456"),
			DemoPassword:  getEnv("SEED_DEMO_PASSWORD", "123456"),
		},
	}

	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		return Config{}, fmt.Errorf("invalid HTTP_PORT %q: %w", cfg.HTTPPort, err)
	}

	expire, err := strconv.Atoi(getEnv("JWT_EXPIRE_MINUTES", "60"))
	if err != nil || expire <= 0 {
		return Config{}, fmt.Errorf("JWT_EXPIRE_MINUTES must be a positive integer")
	}
	cfg.JWT.ExpireMinutes = expire

	expose, err := strconv.ParseBool(getEnv("EXPOSE_ERROR_DETAIL", strconv.FormatBool(cfg.IsDevelopment())))
	if err != nil {
		return Config{}, fmt.Errorf("invalid EXPOSE_ERROR_DETAIL: %w", err)
	}
	cfg.ExposeErrorDetail = expose

	switch cfg.DBDriver {
	case "mysql":
		cfg.DatabaseDSN = getEnv("DATABASE_DSN", GetDSN())
	case "sqlite":
		cfg.DatabaseDSN = getEnv("DATABASE_DSN", "file:todo.db?_pragma=foreign_keys(1)")
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

// GetDSN は DB_* 環境変数から MySQL 接続文字列 (DSN) を構築します。
func GetDSN() string {
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASS")
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "3306")
	name := getEnv("DB_NAME", "todo")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=Local&charset=utf8mb4", user, pass, host, port, name)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
