package backend

import (
	"context"
	"fmt"

	"fintrack/internal/cache"
	"fintrack/internal/log"
	gsheet "fintrack/internal/sheets/google"
	"fintrack/internal/sheets/memory"
)

// indexCacheSize bounds how many years of mirrored ids are kept.
const indexCacheSize = 8

// New builds the sink described by cfg.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentSheets)

	var sink *Sink
	switch cfg.Type {
	case SheetsBackend:
		client, err := gsheet.New(ctx, gsheet.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		sink = &Sink{Type: SheetsBackend, Writer: client, Index: client}
		logger.Info("Initialized Google Sheets backend",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
	case MemoryBackend:
		store := memory.New()
		sink = &Sink{Type: MemoryBackend, Writer: store, Index: store}
		logger.Info("Initialized memory backend")
	}

	if cfg.IndexCacheTTL > 0 {
		sink.Index = NewCachedIndex(sink.Index, cache.NewLRU[map[int64]bool](indexCacheSize, cfg.IndexCacheTTL))
		logger.Info("Caching mirrored ids", "ttl", cfg.IndexCacheTTL)
	}
	return sink, nil
}
