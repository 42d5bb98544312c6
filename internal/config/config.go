package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	CORSAllowedOrigins []string

	// Mail transport. Provider selects the sender implementation:
	// "smtp", "sendgrid", "ses" or "stub".
	EmailProvider string
	EmailSender   string
	EmailFromName string
	SMTPServer    string
	SMTPPort      int
	SMTPPassword  string
	NotifyTimeout time.Duration

	// SendGrid email configuration
	SendGridAPIKey string

	// AWS configuration (SES sender)
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// Gemini configuration (chat + image analysis)
	GeminiAPIKey      string
	GeminiModelID     string
	GeminiVisionModel string

	// Speech-to-text configuration
	SpeechLanguageCode string

	// Conversation history
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	HistoryTTL    time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8000"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		EmailProvider: strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "smtp"))),
		EmailSender:   getEnv("EMAIL_SENDER", ""),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "Health Assistant Team"),
		SMTPServer:    getEnv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:      getEnvAsInt("SMTP_PORT", 587),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		NotifyTimeout: getEnvAsDuration("NOTIFY_TIMEOUT", 10*time.Second),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:     getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		GeminiVisionModel: getEnv("GEMINI_VISION_MODEL_ID", "gemini-2.5-flash"),

		SpeechLanguageCode: getEnv("SPEECH_LANGUAGE_CODE", "en-US"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		HistoryTTL:    getEnvAsDuration("HISTORY_TTL", 24*time.Hour),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
