package memory

import (
	"context"

	"wallet-ledger-service/internal/core/domain"
	"wallet-ledger-service/internal/core/ports"

	"github.com/google/uuid"
)

// OwnerRepo implements ports.OwnerRepository against a Store.
type OwnerRepo struct {
	store *Store
}

// NewOwnerRepo creates a new in-memory OwnerRepo.
func NewOwnerRepo(store *Store) *OwnerRepo {
	return &OwnerRepo{store: store}
}

// Create inserts a new owner; usernames are unique.
func (r *OwnerRepo) Create(_ context.Context, o *domain.Owner) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.owners[o.ID]; exists {
		return ports.ErrDuplicateOwner
	}
	if r.store.ownerByUsername(o.Username) != nil {
		return ports.ErrDuplicateOwner
	}
	cp := *o
	r.store.owners[o.ID] = &cp
	return nil
}

// GetByID returns a copy of the owner, or nil when absent.
func (r *OwnerRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Owner, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o, ok := r.store.owners[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

// GetByUsername returns the owner with that username, or nil.
func (r *OwnerRepo) GetByUsername(_ context.Context, username string) (*domain.Owner, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.ownerByUsername(username), nil
}
