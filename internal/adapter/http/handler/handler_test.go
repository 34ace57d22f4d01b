package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wallet-ledger-service/internal/adapter/http/dto"
	"wallet-ledger-service/internal/adapter/http/middleware"
	"wallet-ledger-service/internal/core/domain"
	"wallet-ledger-service/internal/core/ports"
	"wallet-ledger-service/internal/core/ports/mocks"
	"wallet-ledger-service/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postJSON(t *testing.T, path string, body any) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "missing data envelope: %s", w.Body.String())
	return data
}

// --- Wallet Handler Tests ---

func TestProcessOperation_Deposit(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockSvc)

	walletID := uuid.New()
	txID := uuid.New()
	mockSvc.EXPECT().Process(gomock.Any(), ports.OperationRequest{
		WalletID: walletID,
		Type:     domain.OperationCredit,
		Amount:   decimal.RequireFromString("1000"),
	}).Return(&ports.OperationResult{
		WalletID:      walletID,
		Balance:       decimal.RequireFromString("1000"),
		TransactionID: txID,
	}, nil)

	w, c := postJSON(t, "/api/v1/wallet", gin.H{
		"walletId":      walletID.String(),
		"operationType": "DEPOSIT",
		"amount":        1000,
	})
	h.ProcessOperation(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, walletID.String(), data["wallet_id"])
	assert.Equal(t, "1000.00", data["balance"])
	assert.Equal(t, txID.String(), data["transaction_id"])
}

func TestProcessOperation_UnknownType(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockSvc)

	w, c := postJSON(t, "/api/v1/wallet", gin.H{
		"walletId":      uuid.NewString(),
		"operationType": "TRANSFER",
		"amount":        100,
	})
	h.ProcessOperation(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ARGUMENT")
}

func TestProcessOperation_MalformedBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/wallet", bytes.NewReader([]byte("{not json")))
	c.Request.Header.Set("Content-Type", "application/json")

	h.ProcessOperation(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProcessOperation_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockSvc)

	mockSvc.EXPECT().Process(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInsufficientFunds(
			decimal.RequireFromString("10.00"),
			decimal.RequireFromString("50.00"),
		))

	w, c := postJSON(t, "/api/v1/wallet", gin.H{
		"walletId":      uuid.NewString(),
		"operationType": "WITHDRAW",
		"amount":        50,
	})
	h.ProcessOperation(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_FUNDS")
}

func TestGetWallet(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockSvc)

	walletID := uuid.New()
	mockSvc.EXPECT().GetBalance(gomock.Any(), walletID).Return(&domain.Wallet{
		ID:        walletID,
		Balance:   decimal.RequireFromString("42.50"),
		CreatedAt: time.Now().UTC(),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallet/"+walletID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: walletID.String()}}

	h.GetWallet(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "42.50", data["balance"])
}

func TestGetWallet_BadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallet/not-a-uuid", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.GetWallet(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetWallet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockSvc)

	walletID := uuid.New()
	mockSvc.EXPECT().GetBalance(gomock.Any(), walletID).Return(nil, apperror.ErrWalletNotFound())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallet/"+walletID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: walletID.String()}}

	h.GetWallet(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateWallet_Anonymous(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockSvc)

	walletID := uuid.New()
	mockSvc.EXPECT().CreateWallet(gomock.Any(), gomock.Nil(), decimal.Zero).Return(&domain.Wallet{
		ID:        walletID,
		Balance:   decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/wallet/create", nil)

	h.CreateWallet(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, walletID.String(), data["wallet_id"])
	assert.Equal(t, "0.00", data["balance"])
}

func TestCreateWallet_OwnerBound(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockSvc)

	ownerID := uuid.New()
	walletID := uuid.New()
	mockSvc.EXPECT().CreateWallet(gomock.Any(), gomock.Any(), decimal.Zero).DoAndReturn(
		func(_ any, gotOwner *uuid.UUID, _ decimal.Decimal) (*domain.Wallet, error) {
			require.NotNil(t, gotOwner)
			assert.Equal(t, ownerID, *gotOwner)
			return &domain.Wallet{
				ID:        walletID,
				OwnerID:   gotOwner,
				Balance:   decimal.Zero,
				CreatedAt: time.Now().UTC(),
			}, nil
		})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/wallet/create", nil)
	c.Set(middleware.CtxOwnerID, ownerID)

	h.CreateWallet(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, ownerID.String(), data["owner_id"])
}

func TestOwnerCredit(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockSvc)

	ownerID := uuid.New()
	walletID := uuid.New()
	mockSvc.EXPECT().GetWalletByOwner(gomock.Any(), ownerID).Return(&domain.Wallet{
		ID:      walletID,
		OwnerID: &ownerID,
		Balance: decimal.Zero,
	}, nil)
	mockSvc.EXPECT().Process(gomock.Any(), ports.OperationRequest{
		WalletID: walletID,
		Type:     domain.OperationCredit,
		Amount:   decimal.RequireFromString("25.00"),
	}).Return(&ports.OperationResult{
		WalletID:      walletID,
		Balance:       decimal.RequireFromString("25.00"),
		TransactionID: uuid.New(),
	}, nil)

	w, c := postJSON(t, "/api/v1/wallet/credit", gin.H{"amount": "25.00"})
	c.Set(middleware.CtxOwnerID, ownerID)

	h.Credit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "25.00", data["balance"])
}

func TestOwnerDebit_NoWallet(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockSvc)

	ownerID := uuid.New()
	mockSvc.EXPECT().GetWalletByOwner(gomock.Any(), ownerID).Return(nil, apperror.ErrWalletNotFound())

	w, c := postJSON(t, "/api/v1/wallet/debit", gin.H{"amount": "5.00"})
	c.Set(middleware.CtxOwnerID, ownerID)

	h.Debit(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOwnerBalance_MissingContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallet/balance", nil)

	h.OwnerBalance(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockSvc)

	walletID := uuid.New()
	mockSvc.EXPECT().ListTransactions(gomock.Any(), walletID, 10, 5).Return([]domain.Transaction{
		{
			ID:            uuid.New(),
			WalletID:      walletID,
			OperationType: domain.OperationCredit,
			Amount:        decimal.RequireFromString("1.00"),
			BalanceBefore: decimal.Zero,
			BalanceAfter:  decimal.RequireFromString("1.00"),
			CreatedAt:     time.Now().UTC(),
		},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet,
		"/api/v1/wallet/"+walletID.String()+"/transactions?limit=10&offset=5", nil)
	c.Params = gin.Params{{Key: "id", Value: walletID.String()}}

	h.ListTransactions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	entry := items[0].(map[string]interface{})
	assert.Equal(t, "DEPOSIT", entry["operation_type"])
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	ownerID := uuid.New()
	mockAuth.EXPECT().Register(gomock.Any(), "alice", "password123").
		Return(&domain.Owner{ID: ownerID, Username: "alice"}, nil)

	w, c := postJSON(t, "/api/v1/auth/register", dto.RegisterRequest{
		Username: "alice",
		Password: "password123",
	})
	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, ownerID.String(), data["owner_id"])
	assert.Equal(t, "alice", data["username"])
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	// Empty body => binding error
	w, c := postJSON(t, "/api/v1/auth/register", gin.H{})
	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_UsernameTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrUsernameExists())

	w, c := postJSON(t, "/api/v1/auth/register", dto.RegisterRequest{
		Username: "taken",
		Password: "password123",
	})
	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiry := time.Now().Add(time.Hour)
	mockAuth.EXPECT().Login(gomock.Any(), "alice", "password123").
		Return("jwt-token", expiry, nil)

	w, c := postJSON(t, "/api/v1/auth/login", dto.LoginRequest{
		Username: "alice",
		Password: "password123",
	})
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "jwt-token", data["token"])
	assert.Equal(t, float64(expiry.Unix()), data["expiry"])
}

func TestLogin_BadCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "alice", "wrong").
		Return("", time.Time{}, apperror.ErrInvalidCredentials())

	w, c := postJSON(t, "/api/v1/auth/login", dto.LoginRequest{
		Username: "alice",
		Password: "wrong",
	})
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Health Check ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(_ context.Context) error { return s.err }
func (s stubChecker) Name() string                 { return s.name }

func TestHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(stubChecker{name: "postgresql"}, stubChecker{name: "redis"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestHealthCheck_Degraded(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(stubChecker{name: "postgresql", err: errUnreachable})(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}

var errUnreachable = errors.New("connection refused")
