package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names for the settings every webhook depends on.
const (
	EnvSignalWireProject  = "SIGNALWIRE_PROJECT"
	EnvSignalWireToken    = "SIGNALWIRE_TOKEN"
	EnvSignalWireSpaceURL = "SIGNALWIRE_SPACE_URL"
	EnvSignalWireNumber   = "SIGNALWIRE_NUMBER"
	EnvTelegramBotToken   = "TELEGRAM_BOT_TOKEN"
	EnvTelegramChatID     = "TELEGRAM_CHAT_ID"
)

// Config holds application configuration. It is built once at startup and shared by reference.
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	SignalWireProject  string
	SignalWireToken    string
	SignalWireSpaceURL string
	SignalWireNumber   string

	TelegramBotToken   string
	TelegramChatID     string
	TelegramAPIBaseURL string

	DefaultCountryCode string
	VoiceLanguage      string

	HTTPClientTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "5000"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: strings.TrimRight(strings.TrimSpace(getEnv("PUBLIC_BASE_URL", "")), "/"),

		SignalWireProject:  strings.TrimSpace(getEnv(EnvSignalWireProject, "")),
		SignalWireToken:    strings.TrimSpace(getEnv(EnvSignalWireToken, "")),
		SignalWireSpaceURL: strings.TrimSpace(getEnv(EnvSignalWireSpaceURL, "")),
		SignalWireNumber:   strings.TrimSpace(getEnv(EnvSignalWireNumber, "")),

		TelegramBotToken:   strings.TrimSpace(getEnv(EnvTelegramBotToken, "")),
		TelegramChatID:     strings.TrimSpace(getEnv(EnvTelegramChatID, "")),
		TelegramAPIBaseURL: getEnv("TELEGRAM_API_BASE_URL", "https://api.telegram.org"),

		DefaultCountryCode: getEnv("DEFAULT_COUNTRY_CODE", "+20"),
		VoiceLanguage:      getEnv("VOICE_LANGUAGE", "ar-EG"),

		HTTPClientTimeout: getEnvAsDuration("HTTP_CLIENT_TIMEOUT", 10*time.Second),
		ShutdownTimeout:   getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// Missing returns the names of required settings that are empty, in declaration order.
// A nil Config reports every setting as missing.
func (c *Config) Missing() []string {
	var cfg Config
	if c != nil {
		cfg = *c
	}
	required := []struct {
		name  string
		value string
	}{
		{EnvSignalWireProject, cfg.SignalWireProject},
		{EnvSignalWireToken, cfg.SignalWireToken},
		{EnvSignalWireSpaceURL, cfg.SignalWireSpaceURL},
		{EnvSignalWireNumber, cfg.SignalWireNumber},
		{EnvTelegramBotToken, cfg.TelegramBotToken},
		{EnvTelegramChatID, cfg.TelegramChatID},
	}
	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	return missing
}

// Complete reports whether every required setting is present.
func (c *Config) Complete() bool {
	return len(c.Missing()) == 0
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	if seconds := getEnvAsInt(key, 0); seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
