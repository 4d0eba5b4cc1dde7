package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Lock     LockConfig
	Upload   UploadConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// LockConfig controls the advisory file-lock used around booking writes.
type LockConfig struct {
	Dir             string
	Timeout         time.Duration
	PollInterval    time.Duration
	CleanupInterval time.Duration
}

// UploadConfig points at the directory holding payment proof files.
type UploadConfig struct {
	ProofDir string
}

var AppConfig *Config

func Load() {
	AppConfig = &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "ceritakita_db"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-this-secret-in-production"),
			ExpiryHours: getEnvAsInt("JWT_EXPIRY_HOURS", 24),
		},
		Lock: LockConfig{
			Dir:             getEnv("LOCK_DIR", ".locks"),
			Timeout:         getEnvAsDuration("LOCK_TIMEOUT", 30*time.Second),
			PollInterval:    getEnvAsDuration("LOCK_POLL_INTERVAL", 100*time.Millisecond),
			CleanupInterval: getEnvAsDuration("LOCK_CLEANUP_INTERVAL", 5*time.Minute),
		},
		Upload: UploadConfig{
			ProofDir: getEnv("PROOF_DIR", "uploads/proofs"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
