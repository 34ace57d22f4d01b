package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet represents the mutable balance record for one account.
// Balance is a fixed-point decimal with two fractional digits and must
// never drop below zero. Version is bumped on every successful mutation
// and checked on save (optimistic concurrency, independent of the
// pessimistic per-wallet lock).
type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   *uuid.UUID      `json:"owner_id,omitempty"` // set in the owner-keyed variant, at most one wallet per owner
	Balance   decimal.Decimal `json:"balance"`
	Version   int64           `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CanDebit reports whether the wallet holds enough balance for the amount.
// A debit of exactly the full balance is allowed.
func (w *Wallet) CanDebit(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}

// Apply returns the balance after the given operation. The caller must have
// validated the operation first; Apply does not check for overdraft.
func (w *Wallet) Apply(op OperationType, amount decimal.Decimal) decimal.Decimal {
	if op == OperationCredit {
		return w.Balance.Add(amount)
	}
	return w.Balance.Sub(amount)
}
