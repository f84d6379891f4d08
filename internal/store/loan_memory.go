package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/GregMSThompson/energyhub-backend/internal/errs"
	"github.com/GregMSThompson/energyhub-backend/internal/models"
	"github.com/GregMSThompson/energyhub-backend/pkg/logger"
)

// LoanSnapshot persists the whole loan collection at once.
type LoanSnapshot interface {
	Load(ctx context.Context) ([]*models.LoanApplication, error)
	Save(ctx context.Context, loans []*models.LoanApplication) error
}

// loanMemoryStore keeps loans in insertion order and mirrors every change
// through an optional snapshot. A nil snapshot gives a purely in-memory store.
type loanMemoryStore struct {
	mu       sync.RWMutex
	loans    []*models.LoanApplication
	index    map[int64]int
	snapshot LoanSnapshot
}

func NewLoanMemoryStore(ctx context.Context, snapshot LoanSnapshot) (*loanMemoryStore, error) {
	s := &loanMemoryStore{
		index:    make(map[int64]int),
		snapshot: snapshot,
	}
	if snapshot == nil {
		return s, nil
	}

	loans, err := snapshot.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range loans {
		if l == nil {
			continue
		}
		// first match wins on lookup, same as a linear scan
		if _, dup := s.index[l.ID]; !dup {
			s.index[l.ID] = len(s.loans)
		}
		s.loans = append(s.loans, l)
	}

	logger.FromContext(ctx).Info("loan store loaded", "count", len(s.loans))
	return s, nil
}

func (s *loanMemoryStore) Create(ctx context.Context, loan *models.LoanApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[loan.ID]; exists {
		return errs.NewAlreadyExistsError(fmt.Sprintf("loan %d already exists", loan.ID))
	}

	c := *loan
	s.loans = append(s.loans, &c)
	s.index[c.ID] = len(s.loans) - 1

	if s.snapshot == nil {
		return nil
	}
	if err := s.snapshot.Save(ctx, s.loans); err != nil {
		// keep memory identical to what is on disk
		s.loans = s.loans[:len(s.loans)-1]
		delete(s.index, c.ID)
		return err
	}
	return nil
}

func (s *loanMemoryStore) List(_ context.Context) ([]*models.LoanApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.LoanApplication, 0, len(s.loans))
	for _, l := range s.loans {
		c := *l
		out = append(out, &c)
	}
	return out, nil
}

func (s *loanMemoryStore) Get(_ context.Context, id int64) (*models.LoanApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return nil, errs.NewNotFoundError("Loan not found")
	}
	c := *s.loans[i]
	return &c, nil
}
