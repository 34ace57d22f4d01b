// Package memory provides an in-process storage backend with the same
// transactional contract as the PostgreSQL adapter. It backs local runs
// and the API-level tests.
package memory

import (
	"sync"

	"wallet-ledger-service/internal/core/domain"

	"github.com/google/uuid"
)

// Store holds the canonical state. All access goes through its mutex;
// staged transaction writes only become visible on Commit.
type Store struct {
	mu      sync.Mutex
	wallets map[uuid.UUID]*domain.Wallet
	// entries keeps ledger insertion order; byID indexes it.
	entries []domain.Transaction
	byID    map[uuid.UUID]int
	owners  map[uuid.UUID]*domain.Owner
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		wallets: make(map[uuid.UUID]*domain.Wallet),
		byID:    make(map[uuid.UUID]int),
		owners:  make(map[uuid.UUID]*domain.Owner),
	}
}

func (s *Store) walletCopy(id uuid.UUID) *domain.Wallet {
	w, ok := s.wallets[id]
	if !ok {
		return nil
	}
	cp := *w
	return &cp
}

func (s *Store) ownerByUsername(username string) *domain.Owner {
	for _, o := range s.owners {
		if o.Username == username {
			cp := *o
			return &cp
		}
	}
	return nil
}

func (s *Store) walletByOwner(ownerID uuid.UUID) *domain.Wallet {
	for _, w := range s.wallets {
		if w.OwnerID != nil && *w.OwnerID == ownerID {
			cp := *w
			return &cp
		}
	}
	return nil
}
