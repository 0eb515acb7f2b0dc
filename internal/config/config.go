package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	ExportXLSX   = "xlsx"
	ExportSheets = "sheets"
	ExportMemory = "memory"
)

// DefaultExcludeKeywords are the descriptions that never count as poker games.
var DefaultExcludeKeywords = []string{
	"settle all balances",
	"poker mat",
	"SNP Chairs",
	"Payment",
	"Table and chairs",
	"Poker table",
}

type Config struct {
	// Splitwise
	SplitwiseAPIKey   string
	SplitwiseBaseURL  string
	SplitwiseGroupID  int64
	SplitwisePageSize int
	SplitwiseTimeout  time.Duration

	// Leaderboard
	TargetYear      int
	ExcludeKeywords []string
	ExtractWorkers  int
	Offline         bool

	// Export
	ExportTargets []string
	OutputDir     string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	cfg := &Config{
		SplitwiseAPIKey:   getEnv("SPLITWISE_API_KEY", ""),
		SplitwiseBaseURL:  getEnv("SPLITWISE_BASE_URL", "https://secure.splitwise.com/api/v3.0"),
		SplitwiseGroupID:  getEnvInt64("SPLITWISE_GROUP_ID", 70730375),
		SplitwisePageSize: getEnvInt("SPLITWISE_PAGE_SIZE", 100),
		SplitwiseTimeout:  getEnvDuration("SPLITWISE_TIMEOUT", 30*time.Second),

		TargetYear:      getEnvInt("TARGET_YEAR", 2025),
		ExcludeKeywords: getEnvList("EXCLUDE_KEYWORDS", DefaultExcludeKeywords),
		ExtractWorkers:  getEnvInt("EXTRACT_WORKERS", 1),
		Offline:         getEnvBool("OFFLINE", false),

		ExportTargets: getEnvList("EXPORT_TARGETS", []string{ExportXLSX}),
		OutputDir:     getEnv("OUTPUT_DIR", "outputs"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/pokerboard.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "pokerboard"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "leaderboard_published"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	return cfg
}

// HasExport reports whether target is among the configured export targets
func (c *Config) HasExport(target string) bool {
	for _, t := range c.ExportTargets {
		if strings.EqualFold(strings.TrimSpace(t), target) {
			return true
		}
	}
	return false
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Splitwise credentials are only needed when we actually fetch
	if !c.Offline && strings.TrimSpace(c.SplitwiseAPIKey) == "" {
		errors = append(errors, "SPLITWISE_API_KEY is required unless running offline")
	}
	if c.Offline && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path is required for offline runs")
	}

	if parsedURL, err := url.Parse(c.SplitwiseBaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid Splitwise base URL '%s': %v", c.SplitwiseBaseURL, err))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid Splitwise base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
	}

	if c.SplitwiseGroupID <= 0 {
		errors = append(errors, fmt.Sprintf("invalid group id %d: must be positive", c.SplitwiseGroupID))
	}

	if c.SplitwisePageSize < 1 || c.SplitwisePageSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid page size %d: must be between 1 and 1000", c.SplitwisePageSize))
	}

	if c.SplitwiseTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid Splitwise timeout %v: must be at least 1 second", c.SplitwiseTimeout))
	} else if c.SplitwiseTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid Splitwise timeout %v: must be at most 5 minutes", c.SplitwiseTimeout))
	}

	if c.TargetYear < 2000 || c.TargetYear > 2100 {
		errors = append(errors, fmt.Sprintf("invalid target year %d: must be between 2000 and 2100", c.TargetYear))
	}

	if c.ExtractWorkers < 1 || c.ExtractWorkers > 64 {
		errors = append(errors, fmt.Sprintf("invalid extract workers %d: must be between 1 and 64", c.ExtractWorkers))
	}

	// Validate export targets
	validTargets := []string{ExportXLSX, ExportSheets, ExportMemory}
	if len(c.ExportTargets) == 0 {
		errors = append(errors, fmt.Sprintf("at least one export target is required: one of %v", validTargets))
	}
	for _, target := range c.ExportTargets {
		isValid := false
		for _, valid := range validTargets {
			if strings.EqualFold(strings.TrimSpace(target), valid) {
				isValid = true
				break
			}
		}
		if !isValid {
			errors = append(errors, fmt.Sprintf("invalid export target '%s': must be one of %v", target, validTargets))
		}
	}

	if c.HasExport(ExportXLSX) && strings.TrimSpace(c.OutputDir) == "" {
		errors = append(errors, "output directory cannot be empty when exporting xlsx")
	}

	// Validate Google Sheets configuration if exporting there
	if c.HasExport(ExportSheets) {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when exporting to sheets")
		}

		hasJSON := c.GoogleServiceAccountJSON != ""
		hasFile := c.GoogleServiceAccountFile != ""
		if !hasJSON && !hasFile {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for sheets export")
		}

		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	// Check if the database directory exists or can be created
	if c.SQLiteDBPath != "" {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "pretty":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of [text json pretty]", c.LogFormat))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping blank items
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), defaultValue...)
	}
	return out
}
