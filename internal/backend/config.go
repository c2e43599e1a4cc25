package backend

import (
	"fmt"
	"time"

	"fintrack/internal/config"
)

// Config selects and configures a mirror backend.
type Config struct {
	Type Type

	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// IndexCacheTTL wraps the index in a CachedIndex when positive.
	IndexCacheTTL time.Duration
}

// FromAppConfig derives the backend config from the application config.
func FromAppConfig(c *config.Config) (Config, error) {
	if c == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	t := MemoryBackend
	if c.SheetsEnabled() {
		t = SheetsBackend
	}
	return Config{
		Type:                     t,
		GoogleSpreadsheetID:      c.GoogleSpreadsheetID,
		GoogleSheetName:          c.GoogleSheetName,
		GoogleServiceAccountJSON: c.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: c.GoogleServiceAccountFile,
		IndexCacheTTL:            c.MirrorIndexTTL,
	}, nil
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if c.Type == SheetsBackend {
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets backend")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
			return fmt.Errorf("service account JSON or file is required for sheets backend")
		}
	}
	if c.IndexCacheTTL < 0 {
		return fmt.Errorf("index cache TTL must not be negative")
	}
	return nil
}
