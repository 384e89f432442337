package application

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config defines alerting configuration.
type Config struct {
	WindowDays   int      `yaml:"window_days"`
	DailyAt      string   `yaml:"daily_at"`
	PhoneNumbers []string `yaml:"phone_numbers"`
	Gateway      Gateway  `yaml:"gateway"`
	Template     string   `yaml:"template"`
}

// Gateway defines the SMS gateway endpoint and credentials.
type Gateway struct {
	URL        string `yaml:"url"`
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

// Configured reports whether the gateway can be used.
func (g Gateway) Configured() bool {
	return g.URL != "" && g.FromNumber != ""
}

// LoadConfig loads alerting config. Defaults are overridden by the YAML file
// named in ALERTS_CONFIG, and env vars override both.
func LoadConfig() (Config, error) {
	cfg := Config{
		WindowDays: defaultWindowDays,
		DailyAt:    "07:00",
	}

	if path := os.Getenv("ALERTS_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.WindowDays = getenvIntDefault("ALERT_WINDOW_DAYS", cfg.WindowDays)
	cfg.DailyAt = getenvDefault("ALERT_DAILY_AT", cfg.DailyAt)
	cfg.Gateway.URL = getenvDefault("SMS_GATEWAY_URL", cfg.Gateway.URL)
	cfg.Gateway.AccountSID = getenvDefault("SMS_ACCOUNT_SID", cfg.Gateway.AccountSID)
	cfg.Gateway.AuthToken = getenvDefault("SMS_AUTH_TOKEN", cfg.Gateway.AuthToken)
	cfg.Gateway.FromNumber = getenvDefault("SMS_FROM_NUMBER", cfg.Gateway.FromNumber)
	if numbers := splitCSV(os.Getenv("ALERT_PHONE_NUMBERS")); len(numbers) > 0 {
		cfg.PhoneNumbers = numbers
	}

	if cfg.WindowDays <= 0 {
		return cfg, errors.New("alerts config: window_days must be positive")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
