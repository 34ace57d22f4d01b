package handler

import (
	"strconv"

	"wallet-ledger-service/internal/adapter/http/dto"
	"wallet-ledger-service/internal/adapter/http/middleware"
	"wallet-ledger-service/internal/core/domain"
	"wallet-ledger-service/internal/core/ports"
	"wallet-ledger-service/pkg/apperror"
	"wallet-ledger-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletHandler handles the wallet endpoints, both the id-keyed surface
// and the owner-keyed surface behind JWT.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// ProcessOperation handles POST /api/v1/wallet.
func (h *WalletHandler) ProcessOperation(c *gin.Context) {
	var req dto.WalletOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidArgument(err.Error()))
		return
	}

	opType, ok := dto.ToDomainOperation(req.OperationType)
	if !ok {
		response.Error(c, apperror.ErrInvalidArgument("operationType must be DEPOSIT or WITHDRAW"))
		return
	}

	result, err := h.walletSvc.Process(c.Request.Context(), ports.OperationRequest{
		WalletID: req.WalletID,
		Type:     opType,
		Amount:   req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toOperationResponse(result))
}

// GetWallet handles GET /api/v1/wallet/:id.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrInvalidArgument("wallet id must be a UUID"))
		return
	}

	wallet, err := h.walletSvc.GetBalance(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWalletResponse(wallet))
}

// CreateWallet handles POST /api/v1/wallet/create. With a valid bearer
// token the wallet is bound to the caller; without one it is anonymous.
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	var req dto.CreateWalletRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperror.ErrInvalidArgument(err.Error()))
			return
		}
	}

	initial := decimal.Zero
	if req.InitialBalance != nil {
		initial = *req.InitialBalance
	}

	var ownerID *uuid.UUID
	if v, ok := c.Get(middleware.CtxOwnerID); ok {
		id := v.(uuid.UUID)
		ownerID = &id
	}

	wallet, err := h.walletSvc.CreateWallet(c.Request.Context(), ownerID, initial)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toWalletResponse(wallet))
}

// ListTransactions handles GET /api/v1/wallet/:id/transactions.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrInvalidArgument("wallet id must be a UUID"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.walletSvc.ListTransactions(c.Request.Context(), walletID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(entries))
	for i := range entries {
		items = append(items, toTransactionResponse(&entries[i]))
	}
	response.OK(c, dto.TransactionListResponse{
		Items:  items,
		Limit:  limit,
		Offset: offset,
	})
}

// Credit handles POST /api/v1/wallet/credit (owner-keyed).
func (h *WalletHandler) Credit(c *gin.Context) {
	h.ownerOperation(c, domain.OperationCredit)
}

// Debit handles POST /api/v1/wallet/debit (owner-keyed).
func (h *WalletHandler) Debit(c *gin.Context) {
	h.ownerOperation(c, domain.OperationDebit)
}

func (h *WalletHandler) ownerOperation(c *gin.Context, opType domain.OperationType) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidArgument(err.Error()))
		return
	}

	wallet, err := h.walletSvc.GetWalletByOwner(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.walletSvc.Process(c.Request.Context(), ports.OperationRequest{
		WalletID: wallet.ID,
		Type:     opType,
		Amount:   req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toOperationResponse(result))
}

// OwnerBalance handles GET /api/v1/wallet/balance (owner-keyed).
func (h *WalletHandler) OwnerBalance(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	wallet, err := h.walletSvc.GetWalletByOwner(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWalletResponse(wallet))
}

func ownerFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.CtxOwnerID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func toOperationResponse(r *ports.OperationResult) dto.OperationResponse {
	return dto.OperationResponse{
		WalletID:      r.WalletID.String(),
		Balance:       r.Balance.StringFixed(2),
		TransactionID: r.TransactionID.String(),
	}
}

func toWalletResponse(w *domain.Wallet) dto.WalletResponse {
	resp := dto.WalletResponse{
		WalletID:  w.ID.String(),
		Balance:   w.Balance.StringFixed(2),
		CreatedAt: w.CreatedAt.UTC().Format(timeFormat),
	}
	if w.OwnerID != nil {
		resp.OwnerID = w.OwnerID.String()
	}
	return resp
}

func toTransactionResponse(t *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:            t.ID.String(),
		WalletID:      t.WalletID.String(),
		OperationType: dto.FromDomainOperation(t.OperationType),
		Amount:        t.Amount.StringFixed(2),
		BalanceBefore: t.BalanceBefore.StringFixed(2),
		BalanceAfter:  t.BalanceAfter.StringFixed(2),
		CreatedAt:     t.CreatedAt.UTC().Format(timeFormat),
	}
}
