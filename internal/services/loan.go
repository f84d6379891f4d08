package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/GregMSThompson/energyhub-backend/internal/dto"
	"github.com/GregMSThompson/energyhub-backend/internal/errs"
	"github.com/GregMSThompson/energyhub-backend/internal/metrics"
	"github.com/GregMSThompson/energyhub-backend/internal/models"
	"github.com/GregMSThompson/energyhub-backend/pkg/logger"
)

// maxIDAttempts bounds retries when an id is already taken in the store,
// e.g. by another instance writing to the same backend.
const maxIDAttempts = 5

type loanLSStore interface {
	Create(ctx context.Context, loan *models.LoanApplication) error
	List(ctx context.Context) ([]*models.LoanApplication, error)
	Get(ctx context.Context, id int64) (*models.LoanApplication, error)
}

type loanService struct {
	Store  loanLSStore
	now    func() time.Time
	lastID atomic.Int64
}

func NewLoanService(store loanLSStore) *loanService {
	return &loanService{
		Store: store,
		now:   time.Now,
	}
}

func (s *loanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest) (*models.LoanApplication, error) {
	log := logger.FromContext(ctx)

	if fields, err := validateCreateLoan(req); err != nil {
		metrics.LoanValidationFailures.Inc()
		log.Warn("loan application rejected", "fields", fields)
		return nil, err
	}

	// ids are millisecond timestamps, so keep createdAt at the same precision
	now := s.now().UTC().Truncate(time.Millisecond)
	loan := &models.LoanApplication{
		ID:        s.nextID(now),
		Name:      text(req.Name),
		Email:     text(req.Email),
		Product:   text(req.Product),
		Amount:    req.Amount,
		Term:      req.Term,
		Notes:     text(req.Notes),
		Status:    models.LoanStatusPending,
		CreatedAt: now,
	}

	for attempt := 1; ; attempt++ {
		err := s.Store.Create(ctx, loan)
		if err == nil {
			break
		}
		var exists *errs.AlreadyExistsError
		if errors.As(err, &exists) && attempt < maxIDAttempts {
			log.Debug("loan id collision, retrying", "loan_id", loan.ID, "attempt", attempt)
			loan.ID = s.nextID(now)
			continue
		}
		countStoreError(err)
		log.Error("failed to create loan in store", "error", err)
		return nil, err
	}

	metrics.LoansCreated.Inc()
	log.Info("loan application created", "loan_id", loan.ID, "product", loan.Product)
	log.Debug("loan application created with full details", "loan", loan)

	return loan, nil
}

func (s *loanService) ListLoans(ctx context.Context) ([]*models.LoanApplication, error) {
	loans, err := s.Store.List(ctx)
	if err != nil {
		countStoreError(err)
		logger.FromContext(ctx).Error("failed to list loans", "error", err)
		return nil, err
	}
	if loans == nil {
		loans = []*models.LoanApplication{}
	}
	return loans, nil
}

func (s *loanService) GetLoan(ctx context.Context, id int64) (*models.LoanApplication, error) {
	loan, err := s.Store.Get(ctx, id)
	if err != nil {
		var nf *errs.NotFoundError
		if !errors.As(err, &nf) {
			countStoreError(err)
			logger.FromContext(ctx).Error("failed to get loan", "loan_id", id, "error", err)
		}
		return nil, err
	}
	return loan, nil
}

// nextID returns the creation millisecond, moved forward past the last id this
// service handed out so creates within one millisecond still get distinct ids.
func (s *loanService) nextID(now time.Time) int64 {
	for {
		last := s.lastID.Load()
		id := now.UnixMilli()
		if id <= last {
			id = last + 1
		}
		if s.lastID.CompareAndSwap(last, id) {
			return id
		}
	}
}

func countStoreError(err error) {
	op := "unknown"
	var dbErr *errs.DatabaseError
	if errors.As(err, &dbErr) {
		op = dbErr.Operation
	}
	metrics.LoanStoreErrors.WithLabelValues(op).Inc()
}

// text renders a loosely typed JSON value as the string the record stores.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
