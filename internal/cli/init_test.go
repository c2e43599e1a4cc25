package cli

import (
	"context"
	"io"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/log"
)

func TestSetupLogger(t *testing.T) {
	cfg := &config.Config{LogLevel: "debug", LogFormat: "json"}
	logger := SetupLogger(cfg, log.ComponentWorker)
	if logger.Component() != log.ComponentWorker {
		t.Errorf("component = %q", logger.Component())
	}
	if !logger.Enabled(context.Background(), -4) {
		t.Error("debug level should be enabled")
	}
}

func TestInitSQLite(t *testing.T) {
	logger := log.New(log.Config{Output: io.Discard})
	repo := InitSQLite(logger, filepath.Join(t.TempDir(), "db", "fintrack.db"))
	defer repo.Close()
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestGracefulShutdown(t *testing.T) {
	logger := log.New(log.Config{Output: io.Discard})
	cleaned := make(chan struct{})
	ctx, done := GracefulShutdown(logger, time.Second, func(context.Context) { close(cleaned) })

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("signal: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not complete")
	}
	if ctx.Err() == nil {
		t.Error("context should be cancelled")
	}
	select {
	case <-cleaned:
	default:
		t.Error("cleanup did not run")
	}
}
