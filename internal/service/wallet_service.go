package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-ledger-service/internal/core/domain"
	"wallet-ledger-service/internal/core/ports"
	"wallet-ledger-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// balanceScale is the fixed number of fractional digits for amounts.
const balanceScale = 2

// WalletServiceImpl implements ports.WalletService. It owns no state of its
// own: it coordinates validation, the per-wallet exclusive section, the
// debit/credit arithmetic and the atomic balance+ledger commit.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	locker     ports.WalletLocker
	transactor ports.DBTransactor
	autoCreate bool
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl. autoCreate enables
// lazy wallet creation on the first accepted deposit.
func NewWalletService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	locker ports.WalletLocker,
	transactor ports.DBTransactor,
	autoCreate bool,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		locker:     locker,
		transactor: transactor,
		autoCreate: autoCreate,
		log:        log,
	}
}

// Process applies a single CREDIT or DEBIT to a wallet and records the
// matching ledger entry in the same commit. Operations on the same wallet
// are fully serialized; operations on distinct wallets run in parallel.
func (s *WalletServiceImpl) Process(ctx context.Context, req ports.OperationRequest) (*ports.OperationResult, error) {
	// Validation happens before any lock is taken.
	if err := validateOperation(req); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, req.WalletID)
	if err != nil {
		return nil, apperror.ErrLockTimeout(fmt.Errorf("acquire wallet lock: %w", err))
	}
	defer release()

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, req.WalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet row: %w", err))
	}
	if wallet == nil {
		if !s.autoCreate || req.Type != domain.OperationCredit {
			return nil, apperror.ErrWalletNotFound()
		}
		wallet, err = s.autoCreateWallet(ctx, dbTx, req.WalletID)
		if err != nil {
			return nil, err
		}
	}

	balanceBefore := wallet.Balance
	if req.Type == domain.OperationDebit && !wallet.CanDebit(req.Amount) {
		return nil, apperror.ErrInsufficientFunds(wallet.Balance, req.Amount)
	}
	newBalance := wallet.Apply(req.Type, req.Amount)

	now := time.Now().UTC()
	wallet.Balance = newBalance
	wallet.UpdatedAt = now
	if err := s.walletRepo.Save(ctx, dbTx, wallet); err != nil {
		if errors.Is(err, ports.ErrVersionConflict) {
			return nil, apperror.ErrWalletConflict("wallet was modified concurrently")
		}
		return nil, apperror.InternalError(fmt.Errorf("save wallet: %w", err))
	}

	txn := &domain.Transaction{
		ID:            uuid.New(),
		WalletID:      wallet.ID,
		OperationType: req.Type,
		Amount:        req.Amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  newBalance,
		CreatedAt:     now,
	}
	if err := s.txRepo.Append(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append ledger entry: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("operation", string(req.Type)).
		Str("amount", req.Amount.StringFixed(balanceScale)).
		Str("balance", newBalance.StringFixed(balanceScale)).
		Str("tx_id", txn.ID.String()).
		Msg("operation committed")

	return &ports.OperationResult{
		WalletID:      wallet.ID,
		Balance:       newBalance,
		TransactionID: txn.ID,
	}, nil
}

// autoCreateWallet springs a wallet into existence at balance 0 inside the
// current commit unit.
func (s *WalletServiceImpl) autoCreateWallet(ctx context.Context, dbTx pgx.Tx, walletID uuid.UUID) (*domain.Wallet, error) {
	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:        walletID,
		Balance:   decimal.Zero,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.walletRepo.CreateTx(ctx, dbTx, wallet); err != nil {
		if errors.Is(err, ports.ErrDuplicateWallet) {
			return nil, apperror.ErrWalletConflict("wallet already exists")
		}
		return nil, apperror.InternalError(fmt.Errorf("auto-create wallet: %w", err))
	}
	s.log.Info().Str("wallet_id", walletID.String()).Msg("wallet auto-created on first deposit")
	return wallet, nil
}

// GetBalance is a plain read with no exclusivity guarantee.
func (s *WalletServiceImpl) GetBalance(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return wallet, nil
}

// GetWalletByOwner resolves the wallet of an account holder.
func (s *WalletServiceImpl) GetWalletByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet by owner: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return wallet, nil
}

// CreateWallet provisions a wallet with the given starting balance.
// Owner-keyed creation is unique per owner; a duplicate yields Conflict
// and leaves the existing wallet untouched.
func (s *WalletServiceImpl) CreateWallet(ctx context.Context, ownerID *uuid.UUID, initialBalance decimal.Decimal) (*domain.Wallet, error) {
	if initialBalance.IsNegative() {
		return nil, apperror.ErrInvalidArgument("initial balance must not be negative")
	}
	if initialBalance.Exponent() < -balanceScale {
		return nil, apperror.ErrInvalidArgument("initial balance exceeds two decimal places")
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Balance:   initialBalance,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		if errors.Is(err, ports.ErrDuplicateWallet) {
			return nil, apperror.ErrWalletConflict("wallet already exists")
		}
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().Str("wallet_id", wallet.ID.String()).Msg("wallet created")
	return wallet, nil
}

// ListTransactions returns the wallet's ledger entries, oldest first.
func (s *WalletServiceImpl) ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	entries, err := s.txRepo.ListByWallet(ctx, walletID, limit, offset)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list ledger entries: %w", err))
	}
	return entries, nil
}

// validateOperation rejects malformed input with InvalidArgument before any
// state access.
func validateOperation(req ports.OperationRequest) error {
	if !req.Type.Valid() {
		return apperror.ErrInvalidArgument(fmt.Sprintf("unrecognized operation type %q", req.Type))
	}
	if !req.Amount.IsPositive() {
		return apperror.ErrInvalidArgument("amount must be positive")
	}
	if req.Amount.Exponent() < -balanceScale {
		return apperror.ErrInvalidArgument("amount exceeds two decimal places")
	}
	return nil
}
