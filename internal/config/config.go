// Package config provides runtime configuration values for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Sheet backends selectable via SHEETS_BACKEND.
const (
	BackendGoogle = "google"
	BackendMemory = "memory"
)

// Config holds configuration knobs for the HTTP server, the sheet backend,
// and the notification channels.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	SheetsBackend string
	SpreadsheetID string
	SheetTab      string
	ClientEmail   string
	PrivateKey    string

	LowStockThreshold int
	NotifyWorkers     int

	EmailSMTPHost  string
	EmailUser      string
	EmailPassword  string
	EmailTo        string
	SlackWebhook   string
	DiscordWebhook string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),

		SheetsBackend: getenv("SHEETS_BACKEND", BackendGoogle),
		SpreadsheetID: getenv("GOOGLE_SHEETS_ID", ""),
		SheetTab:      getenv("GOOGLE_SHEETS_TAB", "Sheet1"),
		ClientEmail:   getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL", ""),
		// Deployment systems store the PEM with literal \n escapes.
		PrivateKey: strings.ReplaceAll(getenv("GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY", ""), `\n`, "\n"),

		LowStockThreshold: atoienv("LOW_STOCK_THRESHOLD", 5),
		NotifyWorkers:     atoienv("NOTIFY_WORKERS", 3),

		EmailSMTPHost:  getenv("EMAIL_SMTP_HOST", "smtp.gmail.com"),
		EmailUser:      getenv("EMAIL_SERVER_USER", ""),
		EmailPassword:  getenv("EMAIL_SERVER_PASSWORD", ""),
		EmailTo:        getenv("EMAIL_TO", ""),
		SlackWebhook:   getenv("SLACK_WEBHOOK_URL", ""),
		DiscordWebhook: getenv("DISCORD_WEBHOOK_URL", ""),
	}
}

// Validate reports missing required settings. The Google backend cannot run
// without a spreadsheet and service-account credentials; every notification
// channel is optional.
func (c Config) Validate() error {
	if c.SheetsBackend == BackendMemory {
		return nil
	}
	if c.SheetsBackend != BackendGoogle {
		return fmt.Errorf("unknown SHEETS_BACKEND %q", c.SheetsBackend)
	}
	var missing []string
	if c.SpreadsheetID == "" {
		missing = append(missing, "GOOGLE_SHEETS_ID")
	}
	if c.ClientEmail == "" {
		missing = append(missing, "GOOGLE_SERVICE_ACCOUNT_EMAIL")
	}
	if c.PrivateKey == "" {
		missing = append(missing, "GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}
