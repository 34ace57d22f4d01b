package memory

import (
	"context"

	"wallet-ledger-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Tx stages writes against a Store. Nothing touches the canonical state
// until Commit; Rollback simply discards the staged writes. The embedded
// pgx.Tx supplies the interface surface the repositories never call here.
type Tx struct {
	pgx.Tx
	store   *Store
	staged  map[uuid.UUID]*domain.Wallet
	created map[uuid.UUID]bool
	entries []domain.Transaction
	done    bool
}

// Commit applies all staged writes atomically under the store mutex.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for id, w := range t.staged {
		cp := *w
		t.store.wallets[id] = &cp
	}
	for _, e := range t.entries {
		t.store.byID[e.ID] = len(t.store.entries)
		t.store.entries = append(t.store.entries, e)
	}
	return nil
}

// Rollback discards staged writes. Calling it after Commit is a no-op
// error, matching pgx semantics.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.staged = nil
	t.entries = nil
	return nil
}

// Transactor implements ports.DBTransactor against a Store.
type Transactor struct {
	store *Store
}

// NewTransactor creates a new in-memory Transactor.
func NewTransactor(store *Store) *Transactor {
	return &Transactor{store: store}
}

// Begin starts a staged transaction.
func (t *Transactor) Begin(_ context.Context) (pgx.Tx, error) {
	return &Tx{
		store:   t.store,
		staged:  make(map[uuid.UUID]*domain.Wallet),
		created: make(map[uuid.UUID]bool),
	}, nil
}
