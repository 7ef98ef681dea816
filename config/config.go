package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	AppEnv string

	DBDriver   string // postgres or sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	SqlitePath string

	JWTKey    string
	JWTExpiry time.Duration
	SaltRound int

	UploadDir         string
	MaxUploadMB       int
	StreamIdleTimeout time.Duration
	StreamCacheMaxAge int

	RazorpayKeySecret string

	CleanupSchedule string
	CorsOrigins     string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		AppEnv: getEnv("APP_ENV", "development"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "trademaster"),
		DBPort:     getEnv("DB_PORT", "5432"),
		SqlitePath: getEnv("SQLITE_PATH", "trademaster.db"),

		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		JWTExpiry: time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		SaltRound: getEnvInt("SALT_ROUND", 10),

		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadMB:       getEnvInt("MAX_UPLOAD_MB", 2048),
		StreamIdleTimeout: time.Duration(getEnvInt("STREAM_IDLE_TIMEOUT_SECONDS", 60)) * time.Second,
		StreamCacheMaxAge: getEnvInt("STREAM_CACHE_MAX_AGE", 31536000),

		RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),

		CleanupSchedule: getEnv("CLEANUP_SCHEDULE", "*/30 * * * *"),
		CorsOrigins:     getEnv("CORS_ORIGINS", "*"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.RazorpayKeySecret == "" {
		log.Println("Warning: RAZORPAY_KEY_SECRET is empty. Payment verification will reject every request.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
