package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/GregMSThompson/energyhub-backend/internal/errs"
	"github.com/GregMSThompson/energyhub-backend/internal/models"
	"github.com/GregMSThompson/energyhub-backend/pkg/logger"
)

// loanJSONFile stores the loan collection as an indented JSON array.
type loanJSONFile struct {
	path string
}

func NewLoanJSONFile(path string) *loanJSONFile {
	return &loanJSONFile{path: path}
}

func (f *loanJSONFile) Path() string { return f.path }

func (f *loanJSONFile) Load(ctx context.Context) ([]*models.LoanApplication, error) {
	log := logger.FromContext(ctx)

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info("loans file not found, starting empty", "path", f.path)
		return []*models.LoanApplication{}, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("load", "failed to read loans file", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		log.Warn("loans file is empty, starting empty", "path", f.path)
		return []*models.LoanApplication{}, nil
	}

	var loans []*models.LoanApplication
	if err := json.Unmarshal(raw, &loans); err != nil {
		return nil, errs.NewDatabaseError("load", "failed to parse loans file "+f.path, err)
	}
	return loans, nil
}

// Save replaces the file atomically: write a sibling temp file, fsync, rename.
func (f *loanJSONFile) Save(ctx context.Context, loans []*models.LoanApplication) error {
	if loans == nil {
		loans = []*models.LoanApplication{}
	}
	b, err := json.MarshalIndent(loans, "", "  ")
	if err != nil {
		return errs.NewDatabaseError("save", "failed to encode loans", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.NewDatabaseError("save", "failed to create loans directory", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return errs.NewDatabaseError("save", "failed to create temp loans file", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(append(b, '\n')); err != nil {
		cleanup()
		return errs.NewDatabaseError("save", "failed to write loans file", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return errs.NewDatabaseError("save", "failed to sync loans file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errs.NewDatabaseError("save", "failed to close loans file", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return errs.NewDatabaseError("save", "failed to replace loans file", err)
	}

	logger.FromContext(ctx).Debug("loans file written", "path", f.path, "count", len(loans))
	return nil
}
