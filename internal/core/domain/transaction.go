package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationType represents the kind of money movement.
type OperationType string

const (
	OperationCredit OperationType = "CREDIT"
	OperationDebit  OperationType = "DEBIT"
)

// Valid reports whether the operation type is one of the recognized kinds.
func (o OperationType) Valid() bool {
	return o == OperationCredit || o == OperationDebit
}

// Transaction represents an immutable ledger entry for a single
// balance-changing event. It is appended exactly once per accepted
// operation, in the same atomic unit as the wallet balance write, and is
// never mutated or deleted afterwards.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	WalletID      uuid.UUID       `json:"wallet_id"`
	OperationType OperationType   `json:"operation_type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Consistent checks the arithmetic invariant of the entry:
// balance_after = balance_before + amount for CREDIT,
// balance_after = balance_before - amount for DEBIT.
func (t *Transaction) Consistent() bool {
	switch t.OperationType {
	case OperationCredit:
		return t.BalanceAfter.Equal(t.BalanceBefore.Add(t.Amount))
	case OperationDebit:
		return t.BalanceAfter.Equal(t.BalanceBefore.Sub(t.Amount))
	default:
		return false
	}
}

// SignedAmount returns the amount with the sign of its effect on the balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.OperationType == OperationDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}
