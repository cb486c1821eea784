package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"invoicegen-backend/logger"
)

type Config struct {
	Port string

	// Storage
	DBDriver      string
	DBURL         string
	MongoDatabase string

	// Auth
	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int

	// AI
	AIProvider   string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	AITimeout    time.Duration
	AIMaxRetries int

	// Twilio
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
	ReminderCron      string

	CORSOrigins []string

	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		Port:              getEnv("PORT", "8080"),
		DBURL:             getEnv("DB_URL", ""),
		MongoDatabase:     getEnv("MONGO_DATABASE", "invoice_generator"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		AIProvider:        strings.ToLower(getEnv("AI_PROVIDER", "gemini")),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
		ReminderCron:      getEnv("REMINDER_CRON", ""),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:     getEnv("LOG_TIME_FORMAT", time.RFC3339),
		LogOutput:         getEnv("LOG_OUTPUT", "stdout"),
	}
	config.DBDriver = strings.ToLower(getEnv("DB_DRIVER", inferDriver(config.DBURL)))

	var err error
	if config.BcryptCost, err = getEnvInt("BCRYPT_COST", 14); err != nil {
		return nil, err
	}
	if config.AIMaxRetries, err = getEnvInt("AI_MAX_RETRIES", 1); err != nil {
		return nil, err
	}
	hours, err := getEnvInt("JWT_EXPIRY_HOURS", 720)
	if err != nil {
		return nil, err
	}
	config.JWTExpiry = time.Duration(hours) * time.Hour
	seconds, err := getEnvInt("AI_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	config.AITimeout = time.Duration(seconds) * time.Second

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "memory":
	case "mongo", "postgres", "sqlite":
		if c.DBURL == "" && c.DBDriver != "sqlite" {
			return fmt.Errorf("DB_URL is required for DB_DRIVER=%s", c.DBDriver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.AIProvider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q", c.AIProvider)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	if c.JWTExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY_HOURS must be positive")
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT_SECONDS must be positive")
	}
	if c.AIMaxRetries < 0 {
		return fmt.Errorf("AI_MAX_RETRIES must not be negative")
	}
	return nil
}

// SMSEnabled reports whether all Twilio credentials are present.
func (c *Config) SMSEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != ""
}

// GetLoggerConfig returns a logger configuration from the main config,
// falling back to the logger defaults for unset fields.
func (c *Config) GetLoggerConfig() logger.LogConfig {
	lc := logger.DefaultConfig()
	if c.LogLevel != "" {
		lc.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		lc.Format = c.LogFormat
	}
	if c.LogTimeFormat != "" {
		lc.TimeFormat = c.LogTimeFormat
	}
	if c.LogOutput != "" {
		lc.Output = c.LogOutput
	}
	return lc
}

// inferDriver guesses the store from the shape of DB_URL.
func inferDriver(url string) string {
	switch {
	case url == "":
		return "memory"
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return "mongo"
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"),
		strings.Contains(url, "host="):
		return "postgres"
	default:
		return "sqlite"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
