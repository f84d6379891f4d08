package bootstrap

import (
	"context"
	"fmt"

	"github.com/GregMSThompson/energyhub-backend/internal/config"
	"github.com/GregMSThompson/energyhub-backend/internal/crypto"
	"github.com/GregMSThompson/energyhub-backend/internal/models"
	"github.com/GregMSThompson/energyhub-backend/internal/store"
	"github.com/GregMSThompson/energyhub-backend/pkg/logger"
)

type LoanStore interface {
	Create(ctx context.Context, loan *models.LoanApplication) error
	List(ctx context.Context) ([]*models.LoanApplication, error)
	Get(ctx context.Context, id int64) (*models.LoanApplication, error)
}

// NewLoanStore opens the backend selected by cfg.LoanBackend. A file that
// exists but cannot be parsed is an error, never an empty store.
func NewLoanStore(ctx context.Context, cfg *config.Config, bs *Bootstrap) (LoanStore, error) {
	ctx = logger.ToContext(ctx, bs.Log.With("backend", string(cfg.LoanBackend)))

	switch cfg.LoanBackend {
	case config.LoanBackendFirestore:
		if bs.Firestore == nil {
			return nil, fmt.Errorf("firestore backend selected but no firestore client")
		}
		if bs.KMS == nil {
			return store.NewLoanFirestoreStore(bs.Firestore, nil), nil
		}
		return store.NewLoanFirestoreStore(bs.Firestore, crypto.NewKMS(bs.KMS, cfg.KMSKeyName)), nil

	case config.LoanBackendSQLite:
		if bs.SQLite == nil {
			return nil, fmt.Errorf("sqlite backend selected but no database")
		}
		return store.NewLoanSQLiteStore(ctx, bs.SQLite)

	default:
		return store.NewLoanMemoryStore(ctx, store.NewLoanJSONFile(cfg.LoansFile))
	}
}
