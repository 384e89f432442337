package application

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ALERTS_CONFIG", "")
	t.Setenv("ALERT_WINDOW_DAYS", "")
	t.Setenv("ALERT_DAILY_AT", "")
	t.Setenv("ALERT_PHONE_NUMBERS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.WindowDays != defaultWindowDays {
		t.Fatalf("WindowDays = %d, want %d", cfg.WindowDays, defaultWindowDays)
	}
	if cfg.DailyAt != "07:00" {
		t.Fatalf("DailyAt = %q, want 07:00", cfg.DailyAt)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.yaml")
	content := []byte(`window_days: 14
daily_at: "06:30"
phone_numbers:
  - "+33600000001"
  - "+33600000002"
gateway:
  url: https://gateway.example/messages
  from_number: "+33100000000"
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	t.Setenv("ALERTS_CONFIG", path)
	t.Setenv("ALERT_WINDOW_DAYS", "")
	t.Setenv("ALERT_DAILY_AT", "")
	t.Setenv("SMS_FROM_NUMBER", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.WindowDays != 14 {
		t.Fatalf("WindowDays = %d, want 14", cfg.WindowDays)
	}
	if cfg.DailyAt != "06:30" {
		t.Fatalf("DailyAt = %q", cfg.DailyAt)
	}
	if len(cfg.PhoneNumbers) != 2 {
		t.Fatalf("PhoneNumbers = %v", cfg.PhoneNumbers)
	}
	if !cfg.Gateway.Configured() {
		t.Fatal("gateway should be configured")
	}
}

func TestLoadConfigEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.yaml")
	content := []byte(`window_days: 14
daily_at: "06:30"
gateway:
  url: https://gateway.example/messages
  from_number: "+33100000000"
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	t.Setenv("ALERTS_CONFIG", path)
	t.Setenv("ALERT_WINDOW_DAYS", "21")
	t.Setenv("SMS_FROM_NUMBER", "+33200000000")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.WindowDays != 21 {
		t.Fatalf("WindowDays = %d, want env value 21", cfg.WindowDays)
	}
	if cfg.DailyAt != "06:30" {
		t.Fatalf("DailyAt = %q, want yaml value 06:30", cfg.DailyAt)
	}
	if cfg.Gateway.FromNumber != "+33200000000" {
		t.Fatalf("FromNumber = %q, want env value", cfg.Gateway.FromNumber)
	}
}

func TestLoadConfigEnvPhoneList(t *testing.T) {
	t.Setenv("ALERTS_CONFIG", "")
	t.Setenv("ALERT_PHONE_NUMBERS", "+33600000001, +33600000002 ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.PhoneNumbers) != 2 {
		t.Fatalf("PhoneNumbers = %v, want 2 entries", cfg.PhoneNumbers)
	}
}
