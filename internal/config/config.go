// Package config provides configuration for the intake binary.
// Loads from: env vars > intakesync.toml > built-in defaults. A local
// .env file, if present, is folded into the environment first.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultReadRange is the cell range read from the response sheet.
// Row 1 holds the form's question headers and is skipped.
const DefaultReadRange = "Form Responses!A2:Z"

// Config holds all intakesync configuration.
type Config struct {
	Sheets SheetsConfig `toml:"sheets"`
	Notion NotionConfig `toml:"notion"`
	Sync   SyncConfig   `toml:"sync"`
	Ledger LedgerConfig `toml:"ledger"`
	Log    LogConfig    `toml:"log"`
}

// SheetsConfig holds the spreadsheet source settings.
type SheetsConfig struct {
	CredentialsFile string `toml:"credentials_file"`
	SpreadsheetID   string `toml:"spreadsheet_id"`
	ReadRange       string `toml:"read_range"`
}

// NotionConfig holds the document store settings.
type NotionConfig struct {
	Token      string `toml:"token"`
	DatabaseID string `toml:"database_id"`
}

// SyncConfig holds reconciliation tuning.
type SyncConfig struct {
	MaxEditDistance int `toml:"max_edit_distance"`
}

// LedgerConfig holds the local run-ledger settings.
type LedgerConfig struct {
	Path string `toml:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Mode string `toml:"mode"` // "dev" (default) or "prod"
}

// ErrMissingConfig wraps every missing-required-value failure so callers
// can distinguish configuration errors from run errors.
var ErrMissingConfig = fmt.Errorf("missing required configuration")

// Default returns a Config with built-in defaults.
func Default() *Config {
	return &Config{
		Sheets: SheetsConfig{ReadRange: DefaultReadRange},
		Sync:   SyncConfig{MaxEditDistance: 2},
		Ledger: LedgerConfig{Path: defaultLedgerPath()},
		Log:    LogConfig{Mode: "dev"},
	}
}

// Load merges defaults, the TOML file (explicit path or discovered),
// and environment variables, env winning. It does not validate; call
// Validate before starting a run.
func Load(path string) (*Config, error) {
	// Best effort: a missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		warnUnknownKeys(meta, path)
	}

	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		cfg.Sheets.CredentialsFile = v
	}
	if v := os.Getenv("INTAKE_SPREADSHEET_ID"); v != "" {
		cfg.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv("INTAKE_READ_RANGE"); v != "" {
		cfg.Sheets.ReadRange = v
	}
	if v := os.Getenv("NOTION_TOKEN"); v != "" {
		cfg.Notion.Token = v
	}
	if v := os.Getenv("NOTION_DATABASE_ID"); v != "" {
		cfg.Notion.DatabaseID = v
	}
	if v := os.Getenv("INTAKE_LEDGER_PATH"); v != "" {
		cfg.Ledger.Path = v
	}
	if v := os.Getenv("INTAKE_LOG_MODE"); v != "" {
		cfg.Log.Mode = v
	}

	if cfg.Sheets.ReadRange == "" {
		cfg.Sheets.ReadRange = DefaultReadRange
	}
	if cfg.Sync.MaxEditDistance <= 0 {
		cfg.Sync.MaxEditDistance = 2
	}
	return cfg, nil
}

// requiredValue names one mandatory setting and where to put it.
type requiredValue struct {
	value   string
	tomlKey string
	envVar  string
}

// Validate checks the four values a run cannot start without. Every
// failure wraps ErrMissingConfig and names both the TOML key and the
// env var that would fix it.
func (c *Config) Validate() error {
	required := []requiredValue{
		{c.Sheets.CredentialsFile, "sheets.credentials_file", "GOOGLE_APPLICATION_CREDENTIALS"},
		{c.Sheets.SpreadsheetID, "sheets.spreadsheet_id", "INTAKE_SPREADSHEET_ID"},
		{c.Notion.Token, "notion.token", "NOTION_TOKEN"},
		{c.Notion.DatabaseID, "notion.database_id", "NOTION_DATABASE_ID"},
	}
	for _, rv := range required {
		if strings.TrimSpace(rv.value) == "" {
			return fmt.Errorf("%w: set %s in intakesync.toml or export %s",
				ErrMissingConfig, rv.tomlKey, rv.envVar)
		}
	}
	return nil
}

// findConfigFile looks for intakesync.toml in CWD, then the user config dir.
func findConfigFile() string {
	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, "intakesync.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		p := filepath.Join(dir, "intakesync", "intakesync.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func defaultLedgerPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "intakesync-ledger.db"
	}
	return filepath.Join(dir, "intakesync", "ledger.db")
}

// ConfigFilePath returns where `intake init` writes the starter config.
func ConfigFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "intakesync.toml"
	}
	return filepath.Join(dir, "intakesync", "intakesync.toml")
}

// Generate writes a commented starter config to path.
func Generate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var b strings.Builder
	b.WriteString("# intakesync configuration\n")
	b.WriteString("#\n")
	b.WriteString("# Priority: environment variables > this file > built-in defaults\n")
	b.WriteString("# Environment variables: GOOGLE_APPLICATION_CREDENTIALS, INTAKE_SPREADSHEET_ID,\n")
	b.WriteString("#   INTAKE_READ_RANGE, NOTION_TOKEN, NOTION_DATABASE_ID, INTAKE_LEDGER_PATH,\n")
	b.WriteString("#   INTAKE_LOG_MODE\n\n")

	b.WriteString("[sheets]\n")
	b.WriteString("# credentials_file = \"/path/to/service-account.json\"\n")
	b.WriteString("# spreadsheet_id = \"\"\n")
	b.WriteString(fmt.Sprintf("read_range = %q\n\n", DefaultReadRange))

	b.WriteString("[notion]\n")
	b.WriteString("# token = \"\"        # or export NOTION_TOKEN\n")
	b.WriteString("# database_id = \"\"\n\n")

	b.WriteString("[sync]\n")
	b.WriteString("max_edit_distance = 2\n\n")

	b.WriteString("[log]\n")
	b.WriteString("mode = \"dev\"\n")

	return os.WriteFile(path, []byte(b.String()), 0o600)
}

// Redacted returns a copy safe to print: credentials masked, ids kept.
func (c *Config) Redacted() Config {
	out := *c
	if out.Sheets.CredentialsFile != "" {
		out.Sheets.CredentialsFile = "[set]"
	}
	if out.Notion.Token != "" {
		out.Notion.Token = "[set]"
	}
	return out
}

// warnUnknownKeys prints warnings for unrecognized config keys.
func warnUnknownKeys(meta toml.MetaData, configPath string) {
	for _, key := range meta.Undecoded() {
		fmt.Fprintf(os.Stderr, "intake: WARNING: unknown key %q in %s (will be ignored)\n",
			key.String(), filepath.Base(configPath))
	}
}
