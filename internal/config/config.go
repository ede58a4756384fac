package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config collects every runtime setting the server needs. Values come from
// the environment, with a .env file loaded first when present.
type Config struct {
	ListenAddr string

	JWTSecret     string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTimezone string

	// Optional bootstrap superuser, created at startup when set.
	BootstrapEmail    string
	BootstrapPhone    string
	BootstrapPassword string
}

// Load reads the environment into a Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", "0.0.0.0:8080"),

		JWTSecret:     getEnv("JWT_SECRET", "supersecret"),
		AccessExpiry:  getDurationEnv("JWT_ACCESS_EXPIRY", 15*time.Minute),
		RefreshExpiry: getDurationEnv("JWT_REFRESH_EXPIRY", 7*24*time.Hour),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "mtambo"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBTimezone: getEnv("DB_TIMEZONE", "UTC"),

		BootstrapEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", ""),
		BootstrapPhone:    getEnv("BOOTSTRAP_ADMIN_PHONE", ""),
		BootstrapPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
	}
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if v, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid duration in %s, using default %s", key, defaultValue)
	}
	return defaultValue
}
