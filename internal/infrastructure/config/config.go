package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Database configuration
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	// OTP policy configuration
	OTPEnabled         bool
	OTPCodeLength      int
	OTPTTL             time.Duration
	OTPRequestCooldown time.Duration
	OTPMaxAttempts     int
	OTPShowCode        bool

	// SMS provider configuration
	SMSProvider string
	Itextmo     ItextmoConfig
	Semaphore   SemaphoreConfig
	Twilio      TwilioConfig
	SMSTimeout  time.Duration

	// JWT configuration
	JWTSecret         string
	JWTAccessDuration time.Duration

	// Server configuration
	ServerPort int
}

// ItextmoConfig holds iTextMo gateway credentials
type ItextmoConfig struct {
	APICode  string
	Password string
	SenderID string
}

// SemaphoreConfig holds Semaphore gateway credentials
type SemaphoreConfig struct {
	APIKey     string
	SenderName string
}

// TwilioConfig holds Twilio gateway credentials
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env from project root
	_ = godotenv.Load()

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	otpTTL, err := time.ParseDuration(getEnv("OTP_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTP_TTL: %w", err)
	}

	otpCooldown, err := time.ParseDuration(getEnv("OTP_REQUEST_COOLDOWN", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTP_REQUEST_COOLDOWN: %w", err)
	}

	smsTimeout, err := time.ParseDuration(getEnv("SMS_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMS_TIMEOUT: %w", err)
	}

	accessDuration, err := time.ParseDuration(getEnv("JWT_ACCESS_TOKEN_DURATION", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_DURATION: %w", err)
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "owner"),
		DBPassword: getEnv("DB_PASSWORD", "ownerTest"),
		DBName:     getEnv("DB_NAME", "barangay"),

		OTPEnabled:         getEnvBool("OTP_ENABLED", false),
		OTPCodeLength:      getEnvInt("OTP_LENGTH", 6),
		OTPTTL:             otpTTL,
		OTPRequestCooldown: otpCooldown,
		OTPMaxAttempts:     getEnvInt("OTP_MAX_ATTEMPTS", 5),
		OTPShowCode:        getEnvBool("OTP_SHOW_CODE", false),

		SMSProvider: getEnv("SMS_PROVIDER", "log"),
		Itextmo: ItextmoConfig{
			APICode:  getEnv("ITEXTMO_API_CODE", ""),
			Password: getEnv("ITEXTMO_PASSWORD", ""),
			SenderID: getEnv("ITEXTMO_SENDER_ID", ""),
		},
		Semaphore: SemaphoreConfig{
			APIKey:     getEnv("SEMAPHORE_API_KEY", ""),
			SenderName: getEnv("SEMAPHORE_SENDER_NAME", ""),
		},
		Twilio: TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			From:       getEnv("TWILIO_FROM", ""),
		},
		SMSTimeout: smsTimeout,

		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTAccessDuration: accessDuration,

		ServerPort: getEnvInt("PORT", 8080),
	}, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}
