package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database config (relational sync target)
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string // SQLite database file path

	// Snapshot config
	SnapshotPath string

	// Auth config
	JWTSecret        string
	SessionTTLHours  int
	RegistrationTTLH int

	// App config
	Environment string

	// Email config
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	BaseURL      string

	// Payment config
	RazorpayKey    string
	RazorpaySecret string
}

var AppConfig Config

// InitConfig initializes the application configuration
func InitConfig() {
	// Default database driver to PostgreSQL; SQLite is the local fallback
	dbDriver := getEnv("DB_DRIVER", "postgres")

	AppConfig = Config{
		DBDriver:         dbDriver,
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		DBName:           getEnv("DB_NAME", "laptoppos"),
		DBPath:           getEnv("DB_PATH", "./data/laptoppos.db"),
		SnapshotPath:     getEnv("SNAPSHOT_PATH", "./data/snapshot.json"),
		JWTSecret:        getEnv("JWT_SECRET", "laptoppos_default_secret_key"),
		SessionTTLHours:  getEnvAsInt("SESSION_TTL_HOURS", 8),
		RegistrationTTLH: getEnvAsInt("REGISTRATION_TTL_HOURS", 48),
		Environment:      getEnv("ENVIRONMENT", "development"),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPUser:         getEnv("SMTP_USER", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:         getEnv("SMTP_FROM", "noreply@laptoppos.local"),
		BaseURL:          getEnv("BASE_URL", "http://localhost:5000"),
		RazorpayKey:      getEnv("RAZORPAY_KEY", ""),
		RazorpaySecret:   getEnv("RAZORPAY_SECRET", ""),
	}
}

// Helper function to get environment variable with fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get integer environment variable with fallback
func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// GetSessionTTL returns the configured session lifetime
func GetSessionTTL() time.Duration {
	return time.Duration(AppConfig.SessionTTLHours) * time.Hour
}

// GetRegistrationTTL returns how long a confirmation token stays valid
func GetRegistrationTTL() time.Duration {
	return time.Duration(AppConfig.RegistrationTTLH) * time.Hour
}

// IsDevelopment returns true if the application is running in development mode
func IsDevelopment() bool {
	return AppConfig.Environment == "development"
}
