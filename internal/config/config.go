package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every runtime parameter. It is loaded once in main and passed
// explicitly into constructors; nothing reads the environment after Load.
type Config struct {
	Port           string
	StorageType    string // "postgres" or "in-memory"
	DatabaseURL    string
	MigrationsDir  string
	JWTSecret      string
	TokenTTL       time.Duration
	UploadDir      string
	AllowedOrigins []string
}

func Load() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		StorageType:   getEnv("STORAGE_TYPE", "in-memory"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
	}

	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is not set, using an insecure development default")
		cfg.JWTSecret = "dev-secret-change-me"
	}

	ttlHours, err := strconv.Atoi(getEnv("TOKEN_TTL_HOURS", "24"))
	if err != nil {
		log.Printf("WARNING: Invalid TOKEN_TTL_HOURS, using default 24 hours. Error: %v", err)
		ttlHours = 24
	}
	cfg.TokenTTL = time.Duration(ttlHours) * time.Hour

	cfg.AllowedOrigins = strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ",")

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
