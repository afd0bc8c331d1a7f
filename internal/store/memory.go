package store

import (
	"context"
	"sync"

	"github.com/spendwise-app/spendwise/internal/apperrors"
	"github.com/spendwise-app/spendwise/internal/model"
)

// MemoryStore holds the list in memory with the same semantics as the
// SQLite store. Suitable for tests and throwaway sessions.
type MemoryStore struct {
	mu   sync.Mutex
	txns []model.Transaction
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) GetAll(_ context.Context) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Transaction, len(s.txns))
	copy(out, s.txns)
	return out, nil
}

func (s *MemoryStore) SaveAll(_ context.Context, txns []model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txns = make([]model.Transaction, len(txns))
	copy(s.txns, txns)
	return nil
}

func (s *MemoryStore) Add(_ context.Context, protos []model.ProtoTransaction) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := model.NewBatch(protos)
	s.txns = append(s.txns, records...)
	return records, nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]model.Transaction, 0, len(s.txns))
	for _, t := range s.txns {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(s.txns) {
		return apperrors.ErrTransactionNotFound
	}
	s.txns = kept
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txns = nil
	return nil
}

var _ Store = (*MemoryStore)(nil)
