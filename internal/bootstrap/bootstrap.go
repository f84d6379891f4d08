package bootstrap

import (
	"context"
	"database/sql"
	"log/slog"

	"cloud.google.com/go/firestore"
	gcpkms "cloud.google.com/go/kms/apiv1"
	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/energyhub-backend/internal/config"
	"github.com/GregMSThompson/energyhub-backend/pkg/logger"
)

// Bootstrap holds the process-wide clients. Only the clients the
// configuration asks for are created; the rest stay nil.
type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	KMS       *gcpkms.KeyManagementClient
	SQLite    *sql.DB
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)

	switch cfg.LoanBackend {
	case config.LoanBackendFirestore:
		bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
		if cfg.KMSKeyName != "" {
			bs.KMS, err = InitKMS(applicationCtx)
			if err != nil {
				return bs, err
			}
		}
	case config.LoanBackendSQLite:
		bs.SQLite, err = InitSQLite(applicationCtx, cfg.SQLitePath)
		if err != nil {
			return bs, err
		}
	}

	if cfg.AuthEnabled {
		bs.Firebase, err = InitFirebase(applicationCtx)
		if err != nil {
			return bs, err
		}
	}

	return bs, nil
}

func (bs *Bootstrap) Close() {
	if bs.Firestore != nil {
		bs.Firestore.Close()
	}
	if bs.KMS != nil {
		bs.KMS.Close()
	}
	if bs.SQLite != nil {
		bs.SQLite.Close()
	}
}
