package config

import (
	"fmt"
	"os"
)

// Configはアプリ全体の設定
type Config struct {
	AppName string // レスポンスに出すアプリ名
	Port    string // サーバーポート（8080）

	JWTSecret string // JWT署名シークレット

	GoEnv string // dev/prod
	FEURL string // フロントURL（CORSで使う）

	Debug bool // dev時true。OTPをレスポンスに含めるかどうか

	// DB接続。DATABASE_URLがあればそれを優先し、無ければPOSTGRES_*から組み立てる。
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
}

// Loadは環境変数から設定を組み立てる
func Load() (Config, error) {
	cfg := Config{
		AppName:   "FreshMart API",
		Port:      os.Getenv("PORT"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		GoEnv:     os.Getenv("GO_ENV"),
		FEURL:     os.Getenv("FE_URL"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getenv("POSTGRES_HOST", "localhost"),
		DBPort:      getenv("POSTGRES_PORT", "5432"),
		DBUser:      getenv("POSTGRES_USER", "postgres"),
		DBPassword:  getenv("POSTGRES_PASSWORD", "postgres"),
		DBName:      getenv("POSTGRES_DB", "freshmart"),
		DBSSLMode:   getenv("POSTGRES_SSLMODE", "disable"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}

	cfg.Debug = cfg.GoEnv != "prod"

	return cfg, nil
}

// DSNはDB接続文字列を返す。DATABASE_URLが設定されていればそのまま使う。
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
