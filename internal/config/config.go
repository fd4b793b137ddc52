package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	SiteURL            string
	CORSAllowedOrigins []string

	// Lead submission rate limiting
	RateLimitWindow time.Duration
	RateLimitMax    int

	// reCAPTCHA bot verification
	RecaptchaSecretKey string
	RecaptchaSiteKey   string
	EnableRecaptcha    bool

	// AI summary enrichment
	SummaryProvider string // "openai" or "bedrock"
	OpenAIAPIKey    string
	OpenAIModel     string
	BedrockModelID  string
	AWSRegion       string

	// Lead notification email
	EmailProvider    string // "smtp", "sendgrid" or "ses"
	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPass         string
	FromEmail        string
	LeadTargetEmail  string
	SendGridAPIKey   string
	SendGridFromName string

	// Admin endpoints
	AdminToken string
}

// Load reads configuration from environment variables
func Load() *Config {
	siteURL := getEnv("SITE_URL", "https://quotenest.com")
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SiteURL:            siteURL,
		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", siteURL)),

		RateLimitWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitMax:    getEnvAsInt("RATE_LIMIT_MAX", 10),

		RecaptchaSecretKey: getEnv("RECAPTCHA_SECRET_KEY", ""),
		RecaptchaSiteKey:   getEnv("RECAPTCHA_SITE_KEY", ""),
		EnableRecaptcha:    getEnvAsBool("ENABLE_RECAPTCHA", false),

		SummaryProvider: strings.ToLower(strings.TrimSpace(getEnv("SUMMARY_PROVIDER", "openai"))),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		BedrockModelID:  getEnv("BEDROCK_MODEL_ID", ""),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),

		EmailProvider:    strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "smtp"))),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:         getEnv("SMTP_USER", ""),
		SMTPPass:         getEnv("SMTP_PASS", ""),
		FromEmail:        getEnv("FROM_EMAIL", ""),
		LeadTargetEmail:  getEnv("LEAD_TARGET_EMAIL", ""),
		SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),
		SendGridFromName: getEnv("SENDGRID_FROM_NAME", "QuoteNest"),

		AdminToken: getEnv("ADMIN_TOKEN", ""),
	}
}

// IsProduction reports whether the server runs in production mode.
// Origin and bot checks are only enforced in production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
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
