package bootstrap

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/GregMSThompson/energyhub-backend/internal/config"
	"github.com/GregMSThompson/energyhub-backend/internal/models"
	"github.com/GregMSThompson/energyhub-backend/pkg/logger"
)

func testBootstrap() *Bootstrap {
	return &Bootstrap{Log: slog.New(logger.NewTestHandler(slog.LevelInfo))}
}

func TestNewLoanStoreFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loans.json")
	cfg := &config.Config{LoanBackend: config.LoanBackendFile, LoansFile: path}

	s, err := NewLoanStore(context.Background(), cfg, testBootstrap())
	if err != nil {
		t.Fatalf("NewLoanStore error: %v", err)
	}
	if err := s.Create(context.Background(), &models.LoanApplication{ID: 1, Name: "A", Status: models.LoanStatusPending}); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected loans file to be written: %v", err)
	}
}

func TestNewLoanStoreFailsOnCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loans.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{LoanBackend: config.LoanBackendFile, LoansFile: path}

	if _, err := NewLoanStore(context.Background(), cfg, testBootstrap()); err == nil {
		t.Fatal("expected startup to fail on a corrupt loans file")
	}
}

func TestNewLoanStoreSQLiteBackend(t *testing.T) {
	cfg := &config.Config{LoanBackend: config.LoanBackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "db", "loans.db")}
	bs := testBootstrap()

	db, err := InitSQLite(context.Background(), cfg.SQLitePath)
	if err != nil {
		t.Fatalf("InitSQLite error: %v", err)
	}
	bs.SQLite = db
	defer bs.Close()

	s, err := NewLoanStore(context.Background(), cfg, bs)
	if err != nil {
		t.Fatalf("NewLoanStore error: %v", err)
	}
	loans, err := s.List(context.Background())
	if err != nil || len(loans) != 0 {
		t.Fatalf("expected empty list, got %v %v", loans, err)
	}
}

func TestNewLoanStoreRequiresClients(t *testing.T) {
	for _, backend := range []config.LoanBackend{config.LoanBackendFirestore, config.LoanBackendSQLite} {
		if _, err := NewLoanStore(context.Background(), &config.Config{LoanBackend: backend}, testBootstrap()); err == nil {
			t.Errorf("%s: expected error without client", backend)
		}
	}
}
