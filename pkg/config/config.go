package config

import (
	"errors"
	"os"
	"strings"
)

// ErrInvalidCRMKey is returned when the configured GoHighLevel key is not a
// v1 Location API key. v1 keys are JWTs, so a key without a period can never
// authenticate against the v1 REST API.
var ErrInvalidCRMKey = errors.New("GOHIGHLEVEL_API_KEY must be the v1 Location API key (eyJ...)")

// Config holds all application configuration values
type Config struct {
	Port        string
	Environment string
	SiteURL     string

	// GoHighLevel CRM
	GHLAPIKey     string
	GHLCalendarID string

	// Meta Conversions API
	FacebookAccessToken   string
	FacebookPixelID       string
	FacebookTestEventCode string

	// IP geolocation providers (each optional; unconfigured providers are skipped)
	IPInfoToken         string
	IPGeolocationAPIKey string

	// Google Sheets webhook
	SheetsWebhookURL string
	SheetsSheetName  string

	// CRIO research platform
	CrioFormID string

	// Bearer token protecting the raw /api/leads intake
	LeadsAPIToken string
}

// LoadConfig reads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		SiteURL:     getEnv("SITE_URL", "https://ari-uc-study.netlify.app"),

		GHLAPIKey:     strings.TrimSpace(firstEnv("GOHIGHLEVEL_API_KEY", "GHL_API_KEY")),
		GHLCalendarID: os.Getenv("GOHIGHLEVEL_CALENDAR_ID"),

		FacebookAccessToken:   os.Getenv("FACEBOOK_ACCESS_TOKEN"),
		FacebookPixelID:       os.Getenv("FACEBOOK_PIXEL_ID"),
		FacebookTestEventCode: os.Getenv("FACEBOOK_TEST_EVENT_CODE"),

		IPInfoToken:         os.Getenv("IPINFO_TOKEN"),
		IPGeolocationAPIKey: os.Getenv("IP_GEOLOCATION_API_KEY"),

		SheetsWebhookURL: os.Getenv("GOOGLE_SHEETS_WEBHOOK_URL"),
		SheetsSheetName:  getEnv("GOOGLE_SHEETS_SHEET_NAME", "BPD Leads"),

		CrioFormID: getEnv("CRIO_FORM_ID", "14681"),

		LeadsAPIToken: os.Getenv("LEADS_API_TOKEN"),
	}
}

// Production reports whether the service runs in strict mode. Strict mode
// governs CRM key validation and whether CRM failures surface to clients.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// TrackingEnabled reports whether Conversions API calls can be made at all.
func (c *Config) TrackingEnabled() bool {
	return c.FacebookAccessToken != "" && c.FacebookPixelID != ""
}

// CRMConfigured reports whether a GoHighLevel key is present.
func (c *Config) CRMConfigured() bool {
	return c.GHLAPIKey != ""
}

// ValidateCRMKey enforces the strict-mode key format. Outside production any
// non-empty key is tolerated so local setups with placeholder keys still run.
func (c *Config) ValidateCRMKey() error {
	if !c.Production() || c.GHLAPIKey == "" {
		return nil
	}
	if !strings.Contains(c.GHLAPIKey, ".") {
		return ErrInvalidCRMKey
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}
