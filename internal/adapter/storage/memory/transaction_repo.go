package memory

import (
	"context"

	"wallet-ledger-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository against a Store.
// Entries are append-only and keep insertion order.
type TransactionRepo struct {
	store *Store
}

// NewTransactionRepo creates a new in-memory TransactionRepo.
func NewTransactionRepo(store *Store) *TransactionRepo {
	return &TransactionRepo{store: store}
}

// Append stages a ledger entry inside the transaction.
func (r *TransactionRepo) Append(_ context.Context, tx pgx.Tx, t *domain.Transaction) error {
	mt, err := memTx(tx)
	if err != nil {
		return err
	}
	mt.entries = append(mt.entries, *t)
	return nil
}

// GetByID returns a single ledger entry, or nil when absent.
func (r *TransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	idx, ok := r.store.byID[id]
	if !ok {
		return nil, nil
	}
	cp := r.store.entries[idx]
	return &cp, nil
}

// ListByWallet returns the wallet's ledger entries oldest first.
func (r *TransactionRepo) ListByWallet(_ context.Context, walletID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matched []domain.Transaction
	for _, e := range r.store.entries {
		if e.WalletID == walletID {
			matched = append(matched, e)
		}
	}

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}
