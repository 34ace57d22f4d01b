package ports

import (
	"context"
	"errors"

	"wallet-ledger-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	// ErrDuplicateWallet is returned by wallet creation when a wallet
	// already exists for the identifier (or, owner-keyed, for the owner).
	ErrDuplicateWallet = errors.New("wallet already exists")

	// ErrVersionConflict is returned by Save when the wallet's optimistic
	// version no longer matches the stored row.
	ErrVersionConflict = errors.New("wallet version conflict")

	// ErrDuplicateOwner is returned by owner creation on a taken username.
	ErrDuplicateOwner = errors.New("owner already exists")
)

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx run inside transaction blocks so that the
// balance write and the ledger append share one commit boundary; the
// ForUpdate read additionally holds the store-level row lock for the
// transaction's duration. Reads return (nil, nil) when no wallet exists.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	CreateTx(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	// Save persists a mutated wallet, comparing-and-swapping the version
	// counter. A stale version yields ErrVersionConflict. On success the
	// wallet's Version reflects the bumped value.
	Save(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
}

// TransactionRepository is the append-only ledger store. Append runs inside
// the same transaction block as the wallet write it records.
type TransactionRepository interface {
	Append(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	// ListByWallet returns entries ordered by created_at (ties broken by id),
	// oldest first. Out of the mutation hot path.
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]domain.Transaction, error)
}

// OwnerRepository defines persistence operations for account holders.
type OwnerRepository interface {
	Create(ctx context.Context, owner *domain.Owner) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Owner, error)
	GetByUsername(ctx context.Context, username string) (*domain.Owner, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
