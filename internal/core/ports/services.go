package ports

import (
	"context"
	"time"

	"wallet-ledger-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletLocker grants at most one in-flight exclusive section per wallet
// identifier. Acquire blocks until the section is free, the context is
// cancelled, or the implementation's timeout elapses; it returns the release
// function for the section. Waiters for the same key are served FIFO;
// distinct keys never block one another.
type WalletLocker interface {
	Acquire(ctx context.Context, walletID uuid.UUID) (release func(), err error)
}

// OperationRequest holds validated input for a wallet mutation.
type OperationRequest struct {
	WalletID uuid.UUID
	Type     domain.OperationType
	Amount   decimal.Decimal
}

// OperationResult is the outcome of an accepted mutation.
type OperationResult struct {
	WalletID      uuid.UUID
	Balance       decimal.Decimal
	TransactionID uuid.UUID
}

// WalletService is the single entry point the HTTP layer calls for wallet
// state. Process serializes per-wallet mutation and couples the balance
// write with the ledger append atomically.
type WalletService interface {
	Process(ctx context.Context, req OperationRequest) (*OperationResult, error)
	GetBalance(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error)
	GetWalletByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error)
	// CreateWallet provisions a wallet. ownerID is nil for the id-keyed
	// variant; owner-keyed creation fails with Conflict when the owner
	// already has a wallet.
	CreateWallet(ctx context.Context, ownerID *uuid.UUID, initialBalance decimal.Decimal) (*domain.Wallet, error)
	ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]domain.Transaction, error)
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(ownerID uuid.UUID) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	OwnerID uuid.UUID
}

// AuthService resolves identity outside the mutation core.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.Owner, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// IdempotencyCache caches serialized responses keyed by the caller-supplied
// Idempotency-Key. Deduplication is a calling-layer concern; the mutation
// core itself never deduplicates.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
