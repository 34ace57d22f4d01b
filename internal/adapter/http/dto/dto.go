package dto

import (
	"wallet-ledger-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wire operation names. DEPOSIT and WITHDRAW are the external vocabulary;
// the ledger records CREDIT and DEBIT.
const (
	OpDeposit  = "DEPOSIT"
	OpWithdraw = "WITHDRAW"
)

// ToDomainOperation maps a wire operation name to its ledger type.
// Returns false for anything unrecognized.
func ToDomainOperation(op string) (domain.OperationType, bool) {
	switch op {
	case OpDeposit:
		return domain.OperationCredit, true
	case OpWithdraw:
		return domain.OperationDebit, true
	default:
		return "", false
	}
}

// FromDomainOperation maps a ledger type back to the wire vocabulary.
func FromDomainOperation(op domain.OperationType) string {
	if op == domain.OperationCredit {
		return OpDeposit
	}
	return OpWithdraw
}

// WalletOperationRequest is the request body for POST /api/v1/wallet.
type WalletOperationRequest struct {
	WalletID      uuid.UUID       `json:"walletId" binding:"required"`
	OperationType string          `json:"operationType" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// AmountRequest is the request body for the owner-keyed credit and debit
// endpoints, where the wallet is resolved from the JWT.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CreateWalletRequest is the request body for wallet creation.
// InitialBalance defaults to zero when omitted.
type CreateWalletRequest struct {
	InitialBalance *decimal.Decimal `json:"initial_balance,omitempty"`
}

// RegisterRequest is the request body for owner registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,safe_id"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for owner login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	OwnerID  string `json:"owner_id"`
	Username string `json:"username"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// OperationResponse is the response body for an accepted mutation.
type OperationResponse struct {
	WalletID      string `json:"wallet_id"`
	Balance       string `json:"balance"`
	TransactionID string `json:"transaction_id"`
}

// WalletResponse is the response body for wallet reads and creation.
type WalletResponse struct {
	WalletID  string `json:"wallet_id"`
	OwnerID   string `json:"owner_id,omitempty"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"created_at"`
}

// TransactionResponse is a single ledger entry on the wire.
type TransactionResponse struct {
	ID            string `json:"id"`
	WalletID      string `json:"wallet_id"`
	OperationType string `json:"operation_type"`
	Amount        string `json:"amount"`
	BalanceBefore string `json:"balance_before"`
	BalanceAfter  string `json:"balance_after"`
	CreatedAt     string `json:"created_at"`
}

// TransactionListResponse wraps a page of ledger entries.
type TransactionListResponse struct {
	Items  []TransactionResponse `json:"items"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}
