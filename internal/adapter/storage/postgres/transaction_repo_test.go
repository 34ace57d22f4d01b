package postgres

import (
	"context"
	"testing"
	"time"

	"wallet-ledger-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction(walletID uuid.UUID) *domain.Transaction {
	return &domain.Transaction{
		ID:            uuid.New(),
		WalletID:      walletID,
		OperationType: domain.OperationCredit,
		Amount:        decimal.RequireFromString("50.00"),
		BalanceBefore: decimal.RequireFromString("100.00"),
		BalanceAfter:  decimal.RequireFromString("150.00"),
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func transactionColumnNames() []string {
	return []string{"id", "wallet_id", "operation_type", "amount", "balance_before", "balance_after", "created_at"}
}

func transactionRow(txn *domain.Transaction) *pgxmock.Rows {
	return pgxmock.NewRows(transactionColumnNames()).AddRow(
		txn.ID, txn.WalletID, txn.OperationType, txn.Amount,
		txn.BalanceBefore, txn.BalanceAfter, txn.CreatedAt,
	)
}

func TestTransactionRepo_Append(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txn.ID, txn.WalletID, txn.OperationType, txn.Amount,
			txn.BalanceBefore, txn.BalanceAfter, txn.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Append(context.Background(), tx, txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(txn.ID).
		WillReturnRows(transactionRow(txn))

	result, err := repo.GetByID(context.Background(), txn.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txn.ID, result.ID)
	assert.Equal(t, domain.OperationCredit, result.OperationType)
	assert.True(t, result.Consistent())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(transactionColumnNames()))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByWallet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	walletID := uuid.New()
	t1 := newTestTransaction(walletID)
	t2 := newTestTransaction(walletID)
	t2.OperationType = domain.OperationDebit
	t2.BalanceBefore = t1.BalanceAfter
	t2.BalanceAfter = t1.BalanceAfter.Sub(t2.Amount)

	rows := pgxmock.NewRows(transactionColumnNames()).
		AddRow(t1.ID, t1.WalletID, t1.OperationType, t1.Amount, t1.BalanceBefore, t1.BalanceAfter, t1.CreatedAt).
		AddRow(t2.ID, t2.WalletID, t2.OperationType, t2.Amount, t2.BalanceBefore, t2.BalanceAfter, t2.CreatedAt)

	mock.ExpectQuery("SELECT .+ FROM transactions .+ ORDER BY created_at, id").
		WithArgs(walletID, 50, 0).
		WillReturnRows(rows)

	entries, err := repo.ListByWallet(context.Background(), walletID, 50, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, t1.ID, entries[0].ID)
	assert.Equal(t, t2.ID, entries[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByWallet_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	walletID := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM transactions").
		WithArgs(walletID, 50, 0).
		WillReturnRows(pgxmock.NewRows(transactionColumnNames()))

	entries, err := repo.ListByWallet(context.Background(), walletID, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}
