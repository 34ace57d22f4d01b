package memory

import (
	"context"
	"fmt"

	"wallet-ledger-service/internal/core/domain"
	"wallet-ledger-service/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository against a Store.
type WalletRepo struct {
	store *Store
}

// NewWalletRepo creates a new in-memory WalletRepo.
func NewWalletRepo(store *Store) *WalletRepo {
	return &WalletRepo{store: store}
}

func memTx(tx pgx.Tx) (*Tx, error) {
	mt, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("unexpected transaction type %T", tx)
	}
	return mt, nil
}

// Create inserts a wallet directly into the canonical state.
func (r *WalletRepo) Create(_ context.Context, w *domain.Wallet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.wallets[w.ID]; exists {
		return ports.ErrDuplicateWallet
	}
	if w.OwnerID != nil && r.store.walletByOwner(*w.OwnerID) != nil {
		return ports.ErrDuplicateWallet
	}
	cp := *w
	r.store.wallets[w.ID] = &cp
	return nil
}

// CreateTx stages a wallet insert inside the transaction.
func (r *WalletRepo) CreateTx(_ context.Context, tx pgx.Tx, w *domain.Wallet) error {
	mt, err := memTx(tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	_, exists := r.store.wallets[w.ID]
	r.store.mu.Unlock()
	if exists || mt.staged[w.ID] != nil {
		return ports.ErrDuplicateWallet
	}

	cp := *w
	mt.staged[w.ID] = &cp
	mt.created[w.ID] = true
	return nil
}

// GetByID returns a copy of the wallet, or nil when absent.
func (r *WalletRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.walletCopy(id), nil
}

// GetByOwnerID returns the owner's wallet, or nil when absent.
func (r *WalletRepo) GetByOwnerID(_ context.Context, ownerID uuid.UUID) (*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.walletByOwner(ownerID), nil
}

// GetByIDForUpdate reads the wallet through the transaction's staged view.
// Row locking is the keyed lock's job here; the read just has to see
// writes staged earlier in the same transaction.
func (r *WalletRepo) GetByIDForUpdate(_ context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	mt, err := memTx(tx)
	if err != nil {
		return nil, err
	}
	if w, ok := mt.staged[id]; ok {
		cp := *w
		return &cp, nil
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.walletCopy(id), nil
}

// Save stages the wallet write after a version check against the
// canonical state, mirroring the SQL compare-and-swap.
func (r *WalletRepo) Save(_ context.Context, tx pgx.Tx, w *domain.Wallet) error {
	mt, err := memTx(tx)
	if err != nil {
		return err
	}

	if !mt.created[w.ID] {
		r.store.mu.Lock()
		current, exists := r.store.wallets[w.ID]
		r.store.mu.Unlock()
		if !exists || current.Version != w.Version {
			return ports.ErrVersionConflict
		}
	}

	w.Version++
	cp := *w
	mt.staged[w.ID] = &cp
	return nil
}
