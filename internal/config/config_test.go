package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		SplitwiseAPIKey:   "key",
		SplitwiseBaseURL:  "https://secure.splitwise.com/api/v3.0",
		SplitwiseGroupID:  70730375,
		SplitwisePageSize: 100,
		SplitwiseTimeout:  30 * time.Second,
		TargetYear:        2025,
		ExcludeKeywords:   DefaultExcludeKeywords,
		ExtractWorkers:    1,
		ExportTargets:     []string{ExportXLSX},
		OutputDir:         "outputs",
		LogFormat:         "text",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid online config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "missing API key",
			mutate: func(c *Config) {
				c.SplitwiseAPIKey = ""
			},
			wantErr:     true,
			errorString: "SPLITWISE_API_KEY is required unless running offline",
		},
		{
			name: "offline without API key",
			mutate: func(c *Config) {
				c.SplitwiseAPIKey = ""
				c.Offline = true
				c.SQLiteDBPath = "pokerboard.db"
			},
			wantErr: false,
		},
		{
			name: "offline without database",
			mutate: func(c *Config) {
				c.Offline = true
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLite database path is required for offline runs",
		},
		{
			name: "invalid base URL scheme",
			mutate: func(c *Config) {
				c.SplitwiseBaseURL = "ftp://secure.splitwise.com"
			},
			wantErr:     true,
			errorString: "invalid Splitwise base URL scheme 'ftp': must be 'http' or 'https'",
		},
		{
			name: "invalid group id",
			mutate: func(c *Config) {
				c.SplitwiseGroupID = 0
			},
			wantErr:     true,
			errorString: "invalid group id 0: must be positive",
		},
		{
			name: "page size too large",
			mutate: func(c *Config) {
				c.SplitwisePageSize = 5000
			},
			wantErr:     true,
			errorString: "invalid page size 5000: must be between 1 and 1000",
		},
		{
			name: "timeout too short",
			mutate: func(c *Config) {
				c.SplitwiseTimeout = 100 * time.Millisecond
			},
			wantErr:     true,
			errorString: "invalid Splitwise timeout 100ms: must be at least 1 second",
		},
		{
			name: "year out of range",
			mutate: func(c *Config) {
				c.TargetYear = 1999
			},
			wantErr:     true,
			errorString: "invalid target year 1999: must be between 2000 and 2100",
		},
		{
			name: "too many workers",
			mutate: func(c *Config) {
				c.ExtractWorkers = 100
			},
			wantErr:     true,
			errorString: "invalid extract workers 100: must be between 1 and 64",
		},
		{
			name: "invalid export target",
			mutate: func(c *Config) {
				c.ExportTargets = []string{"xlsx", "pdf"}
			},
			wantErr:     true,
			errorString: "invalid export target 'pdf': must be one of [xlsx sheets memory]",
		},
		{
			name: "no export target",
			mutate: func(c *Config) {
				c.ExportTargets = nil
			},
			wantErr:     true,
			errorString: "at least one export target is required",
		},
		{
			name: "xlsx without output dir",
			mutate: func(c *Config) {
				c.OutputDir = " "
			},
			wantErr:     true,
			errorString: "output directory cannot be empty when exporting xlsx",
		},
		{
			name: "sheets without spreadsheet id",
			mutate: func(c *Config) {
				c.ExportTargets = []string{ExportSheets}
				c.GoogleServiceAccountJSON = "{}"
			},
			wantErr:     true,
			errorString: "Google Spreadsheet ID is required when exporting to sheets",
		},
		{
			name: "sheets without credentials",
			mutate: func(c *Config) {
				c.ExportTargets = []string{ExportSheets}
				c.GoogleSpreadsheetID = "sheet-id"
			},
			wantErr:     true,
			errorString: "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for sheets export",
		},
		{
			name: "sheets with missing credentials file",
			mutate: func(c *Config) {
				c.ExportTargets = []string{ExportSheets}
				c.GoogleSpreadsheetID = "sheet-id"
				c.GoogleServiceAccountFile = "/non/existent/file.json"
			},
			wantErr:     true,
			errorString: "Google service account file does not exist: /non/existent/file.json",
		},
		{
			name: "invalid AMQP URL scheme",
			mutate: func(c *Config) {
				c.AMQPURL = "http://localhost:5672/"
				c.AMQPExchange = "pokerboard"
				c.AMQPQueue = "published"
			},
			wantErr:     true,
			errorString: "invalid AMQP URL scheme 'http': must be 'amqp' or 'amqps'",
		},
		{
			name: "AMQP URL without exchange",
			mutate: func(c *Config) {
				c.AMQPURL = "amqp://localhost:5672/"
				c.AMQPQueue = "published"
			},
			wantErr:     true,
			errorString: "AMQP exchange name cannot be empty when AMQP URL is provided",
		},
		{
			name: "invalid log format",
			mutate: func(c *Config) {
				c.LogFormat = "xml"
			},
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Config.Validate() error = %v, want substring %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.SplitwiseAPIKey = ""
	cfg.SplitwiseGroupID = -1
	cfg.TargetYear = 3000

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if got := strings.Count(err.Error(), "\n- "); got != 3 {
		t.Errorf("expected 3 problems, got %d: %v", got, err)
	}
}

func TestConfig_ValidateWithFiles(t *testing.T) {
	tempDir := t.TempDir()
	credsFile := filepath.Join(tempDir, "service-account.json")
	if err := os.WriteFile(credsFile, []byte(`{}`), 0644); err != nil {
		t.Fatalf("Failed to create credentials file: %v", err)
	}

	cfg := validConfig()
	cfg.ExportTargets = []string{ExportXLSX, ExportSheets}
	cfg.GoogleSpreadsheetID = "sheet-id"
	cfg.GoogleServiceAccountFile = credsFile
	cfg.SQLiteDBPath = filepath.Join(tempDir, "nested", "pokerboard.db")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "nested")); err != nil {
		t.Errorf("expected database directory to be created: %v", err)
	}
}

func TestHasExport(t *testing.T) {
	cfg := Config{ExportTargets: []string{" XLSX ", "sheets"}}
	if !cfg.HasExport(ExportXLSX) || !cfg.HasExport(ExportSheets) {
		t.Errorf("expected xlsx and sheets exports")
	}
	if cfg.HasExport(ExportMemory) {
		t.Errorf("did not expect memory export")
	}
}

func TestLoad(t *testing.T) {
	keys := []string{
		"SPLITWISE_API_KEY", "SPLITWISE_GROUP_ID", "SPLITWISE_PAGE_SIZE", "SPLITWISE_TIMEOUT",
		"TARGET_YEAR", "EXCLUDE_KEYWORDS", "EXPORT_TARGETS", "OFFLINE", "SQLITE_DB_PATH", "AMQP_URL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.SplitwiseGroupID != 70730375 {
			t.Errorf("Load() SplitwiseGroupID = %v, want 70730375", cfg.SplitwiseGroupID)
		}
		if cfg.SplitwisePageSize != 100 {
			t.Errorf("Load() SplitwisePageSize = %v, want 100", cfg.SplitwisePageSize)
		}
		if cfg.SplitwiseTimeout != 30*time.Second {
			t.Errorf("Load() SplitwiseTimeout = %v, want 30s", cfg.SplitwiseTimeout)
		}
		if cfg.TargetYear != 2025 {
			t.Errorf("Load() TargetYear = %v, want 2025", cfg.TargetYear)
		}
		if len(cfg.ExcludeKeywords) != len(DefaultExcludeKeywords) {
			t.Errorf("Load() ExcludeKeywords = %v", cfg.ExcludeKeywords)
		}
		if len(cfg.ExportTargets) != 1 || cfg.ExportTargets[0] != ExportXLSX {
			t.Errorf("Load() ExportTargets = %v, want [xlsx]", cfg.ExportTargets)
		}
		if cfg.Offline {
			t.Errorf("Load() Offline = true, want false")
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("SPLITWISE_API_KEY", "secret")
		t.Setenv("SPLITWISE_GROUP_ID", "42")
		t.Setenv("SPLITWISE_TIMEOUT", "45s")
		t.Setenv("TARGET_YEAR", "2024")
		t.Setenv("EXCLUDE_KEYWORDS", "poker mat, ,Payment")
		t.Setenv("EXPORT_TARGETS", "xlsx,sheets")
		t.Setenv("OFFLINE", "true")

		cfg := Load()

		if cfg.SplitwiseAPIKey != "secret" || cfg.SplitwiseGroupID != 42 {
			t.Errorf("Load() Splitwise = %q/%d", cfg.SplitwiseAPIKey, cfg.SplitwiseGroupID)
		}
		if cfg.SplitwiseTimeout != 45*time.Second {
			t.Errorf("Load() SplitwiseTimeout = %v, want 45s", cfg.SplitwiseTimeout)
		}
		if cfg.TargetYear != 2024 {
			t.Errorf("Load() TargetYear = %v, want 2024", cfg.TargetYear)
		}
		if len(cfg.ExcludeKeywords) != 2 || cfg.ExcludeKeywords[0] != "poker mat" || cfg.ExcludeKeywords[1] != "Payment" {
			t.Errorf("Load() ExcludeKeywords = %v", cfg.ExcludeKeywords)
		}
		if !cfg.HasExport(ExportSheets) {
			t.Errorf("Load() ExportTargets = %v, want sheets", cfg.ExportTargets)
		}
		if !cfg.Offline {
			t.Errorf("Load() Offline = false, want true")
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		t.Setenv("SPLITWISE_PAGE_SIZE", "invalid")
		t.Setenv("SPLITWISE_TIMEOUT", "invalid")
		t.Setenv("OFFLINE", "maybe")

		cfg := Load()

		if cfg.SplitwisePageSize != 100 {
			t.Errorf("Load() SplitwisePageSize = %v, want 100 (default for invalid input)", cfg.SplitwisePageSize)
		}
		if cfg.SplitwiseTimeout != 30*time.Second {
			t.Errorf("Load() SplitwiseTimeout = %v, want 30s (default for invalid input)", cfg.SplitwiseTimeout)
		}
		if cfg.Offline {
			t.Errorf("Load() Offline = true, want false (default for invalid input)")
		}
	})
}
