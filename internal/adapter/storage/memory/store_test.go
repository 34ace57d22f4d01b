package memory

import (
	"context"
	"testing"
	"time"

	"wallet-ledger-service/internal/core/domain"
	"wallet-ledger-service/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedWallet(t *testing.T, store *Store, balance string) *domain.Wallet {
	t.Helper()
	w := &domain.Wallet{
		ID:        uuid.New(),
		Balance:   decimal.RequireFromString(balance),
		Version:   1,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, NewWalletRepo(store).Create(context.Background(), w))
	return w
}

func TestMemory_CommitAppliesStagedWrites(t *testing.T) {
	store := NewStore()
	wallets := NewWalletRepo(store)
	txns := NewTransactionRepo(store)
	transactor := NewTransactor(store)
	ctx := context.Background()

	w := seedWallet(t, store, "100.00")

	tx, err := transactor.Begin(ctx)
	require.NoError(t, err)

	locked, err := wallets.GetByIDForUpdate(ctx, tx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, locked)

	locked.Balance = decimal.RequireFromString("150.00")
	require.NoError(t, wallets.Save(ctx, tx, locked))
	require.NoError(t, txns.Append(ctx, tx, &domain.Transaction{
		ID:            uuid.New(),
		WalletID:      w.ID,
		OperationType: domain.OperationCredit,
		Amount:        decimal.RequireFromString("50.00"),
		BalanceBefore: decimal.RequireFromString("100.00"),
		BalanceAfter:  decimal.RequireFromString("150.00"),
		CreatedAt:     time.Now().UTC(),
	}))

	// Canonical state untouched before Commit.
	visible, err := wallets.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("100.00").Equal(visible.Balance))

	require.NoError(t, tx.Commit(ctx))

	visible, err = wallets.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("150.00").Equal(visible.Balance))
	assert.Equal(t, int64(2), visible.Version)

	entries, err := txns.ListByWallet(ctx, w.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMemory_RollbackDiscardsStagedWrites(t *testing.T) {
	store := NewStore()
	wallets := NewWalletRepo(store)
	txns := NewTransactionRepo(store)
	transactor := NewTransactor(store)
	ctx := context.Background()

	w := seedWallet(t, store, "100.00")

	tx, err := transactor.Begin(ctx)
	require.NoError(t, err)

	locked, err := wallets.GetByIDForUpdate(ctx, tx, w.ID)
	require.NoError(t, err)
	locked.Balance = decimal.RequireFromString("0.00")
	require.NoError(t, wallets.Save(ctx, tx, locked))
	require.NoError(t, tx.Rollback(ctx))

	visible, err := wallets.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("100.00").Equal(visible.Balance))
	assert.Equal(t, int64(1), visible.Version)

	entries, err := txns.ListByWallet(ctx, w.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMemory_RollbackAfterCommitIsClosed(t *testing.T) {
	store := NewStore()
	transactor := NewTransactor(store)
	ctx := context.Background()

	tx, err := transactor.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))
	assert.ErrorIs(t, tx.Rollback(ctx), pgx.ErrTxClosed)
}

func TestMemory_SaveVersionConflict(t *testing.T) {
	store := NewStore()
	wallets := NewWalletRepo(store)
	transactor := NewTransactor(store)
	ctx := context.Background()

	w := seedWallet(t, store, "100.00")

	tx, err := transactor.Begin(ctx)
	require.NoError(t, err)

	stale := *w
	stale.Version = 99
	err = wallets.Save(ctx, tx, &stale)
	assert.ErrorIs(t, err, ports.ErrVersionConflict)
}

func TestMemory_CreateTxVisibleInSameTransaction(t *testing.T) {
	store := NewStore()
	wallets := NewWalletRepo(store)
	transactor := NewTransactor(store)
	ctx := context.Background()

	tx, err := transactor.Begin(ctx)
	require.NoError(t, err)

	walletID := uuid.New()
	require.NoError(t, wallets.CreateTx(ctx, tx, &domain.Wallet{
		ID:      walletID,
		Balance: decimal.Zero,
		Version: 1,
	}))

	// Staged wallet readable inside the transaction, invisible outside.
	inside, err := wallets.GetByIDForUpdate(ctx, tx, walletID)
	require.NoError(t, err)
	require.NotNil(t, inside)

	outside, err := wallets.GetByID(ctx, walletID)
	require.NoError(t, err)
	assert.Nil(t, outside)

	require.NoError(t, tx.Commit(ctx))

	outside, err = wallets.GetByID(ctx, walletID)
	require.NoError(t, err)
	require.NotNil(t, outside)
}

func TestMemory_DuplicateWallet(t *testing.T) {
	store := NewStore()
	wallets := NewWalletRepo(store)
	ctx := context.Background()

	ownerID := uuid.New()
	w := &domain.Wallet{ID: uuid.New(), OwnerID: &ownerID, Balance: decimal.Zero, Version: 1}
	require.NoError(t, wallets.Create(ctx, w))

	same := &domain.Wallet{ID: w.ID, Balance: decimal.Zero, Version: 1}
	assert.ErrorIs(t, wallets.Create(ctx, same), ports.ErrDuplicateWallet)

	sameOwner := &domain.Wallet{ID: uuid.New(), OwnerID: &ownerID, Balance: decimal.Zero, Version: 1}
	assert.ErrorIs(t, wallets.Create(ctx, sameOwner), ports.ErrDuplicateWallet)
}

func TestMemory_ListByWalletPagination(t *testing.T) {
	store := NewStore()
	wallets := NewWalletRepo(store)
	txns := NewTransactionRepo(store)
	transactor := NewTransactor(store)
	ctx := context.Background()

	w := seedWallet(t, store, "0.00")

	tx, err := transactor.Begin(ctx)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, txns.Append(ctx, tx, &domain.Transaction{
			ID:       uuid.New(),
			WalletID: w.ID,
			Amount:   decimal.New(int64(i+1), 0),
		}))
	}
	require.NoError(t, tx.Commit(ctx))

	page, err := txns.ListByWallet(ctx, w.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, decimal.New(3, 0).Equal(page[0].Amount))
	assert.True(t, decimal.New(4, 0).Equal(page[1].Amount))

	past, err := wallets.GetByID(ctx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, past)

	empty, err := txns.ListByWallet(ctx, w.ID, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemory_OwnerRepo(t *testing.T) {
	store := NewStore()
	owners := NewOwnerRepo(store)
	ctx := context.Background()

	o := &domain.Owner{ID: uuid.New(), Username: "alice", PasswordHash: "h"}
	require.NoError(t, owners.Create(ctx, o))

	dup := &domain.Owner{ID: uuid.New(), Username: "alice", PasswordHash: "h2"}
	assert.ErrorIs(t, owners.Create(ctx, dup), ports.ErrDuplicateOwner)

	got, err := owners.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, o.ID, got.ID)

	missing, err := owners.GetByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
