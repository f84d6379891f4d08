package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/GregMSThompson/energyhub-backend/internal/errs"
	"github.com/GregMSThompson/energyhub-backend/internal/models"
)

// LoanSQLiteMigrations returns the schema statements, one per Exec.
// Insertion order is the implicit rowid, so id only needs to be unique.
func LoanSQLiteMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS loan_applications (
			id         INTEGER NOT NULL UNIQUE,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL,
			product    TEXT NOT NULL,
			amount     TEXT NOT NULL,
			term       TEXT NOT NULL,
			notes      TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
	}
}

type loanSQLiteStore struct {
	db *sql.DB
}

func NewLoanSQLiteStore(ctx context.Context, db *sql.DB) (*loanSQLiteStore, error) {
	for _, stmt := range LoanSQLiteMigrations() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, errs.NewDatabaseError("load", "failed to migrate loan_applications", err)
		}
	}
	return &loanSQLiteStore{db: db}, nil
}

func (s *loanSQLiteStore) Create(ctx context.Context, loan *models.LoanApplication) error {
	amount, err := json.Marshal(loan.Amount)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to encode loan amount", err)
	}
	term, err := json.Marshal(loan.Term)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to encode loan term", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to begin transaction", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM loan_applications WHERE id = ?)`, loan.ID,
	).Scan(&exists); err != nil {
		return errs.NewDatabaseError("create", "failed to check loan id", err)
	}
	if exists {
		return errs.NewAlreadyExistsError(fmt.Sprintf("loan %d already exists", loan.ID))
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO loan_applications (id, name, email, product, amount, term, notes, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		loan.ID, loan.Name, loan.Email, loan.Product, string(amount), string(term),
		loan.Notes, string(loan.Status), loan.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to insert loan", err)
	}

	if err := tx.Commit(); err != nil {
		return errs.NewDatabaseError("create", "failed to commit loan", err)
	}
	return nil
}

const loanColumns = `id, name, email, product, amount, term, notes, status, created_at`

func (s *loanSQLiteStore) List(ctx context.Context) ([]*models.LoanApplication, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+loanColumns+` FROM loan_applications ORDER BY rowid`)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list loans", err)
	}
	defer rows.Close()

	loans := make([]*models.LoanApplication, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list loans", err)
	}
	return loans, nil
}

func (s *loanSQLiteStore) Get(ctx context.Context, id int64) (*models.LoanApplication, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+loanColumns+` FROM loan_applications WHERE id = ?`, id)
	l, err := scanLoan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFoundError("Loan not found")
	}
	return l, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (*models.LoanApplication, error) {
	var (
		l                 models.LoanApplication
		amount, term      string
		status, createdAt string
	)
	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Product, &amount, &term, &l.Notes, &status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to scan loan", err)
	}

	if err := json.Unmarshal([]byte(amount), &l.Amount); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to decode loan amount", err)
	}
	if err := json.Unmarshal([]byte(term), &l.Term); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to decode loan term", err)
	}
	l.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse loan createdAt", err)
	}
	l.Status = models.LoanStatus(status)
	return &l, nil
}
