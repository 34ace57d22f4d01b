package handler

import (
	"time"

	"wallet-ledger-service/internal/adapter/http/middleware"
	"wallet-ledger-service/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc        ports.WalletService
	AuthSvc          ports.AuthService
	TokenSvc         ports.TokenService
	IdempotencyCache ports.IdempotencyCache // nil = idempotent replay disabled
	IdempotencyTTL   time.Duration
	HealthCheckers   []ports.HealthChecker
	Logger           zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check verifies PostgreSQL and Redis
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Idempotent replay for mutation routes.
	idem := func(c *gin.Context) { c.Next() }
	if deps.IdempotencyCache != nil {
		idem = middleware.Idempotency(deps.IdempotencyCache, deps.IdempotencyTTL, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	// --- Auth routes (public) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// --- Wallet routes ---
	walletHandler := NewWalletHandler(deps.WalletSvc)
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	optionalAuth := middleware.OptionalJWTAuth(deps.TokenSvc, deps.Logger)

	wallet := v1.Group("/wallet")
	{
		// Id-keyed surface: the caller names the wallet directly.
		wallet.POST("", idem, walletHandler.ProcessOperation)
		wallet.GET("/:id", walletHandler.GetWallet)
		wallet.GET("/:id/transactions", walletHandler.ListTransactions)
		wallet.POST("/create", optionalAuth, idem, walletHandler.CreateWallet)

		// Owner-keyed surface: the wallet is resolved from the JWT.
		wallet.POST("/credit", jwtAuth, idem, walletHandler.Credit)
		wallet.POST("/debit", jwtAuth, idem, walletHandler.Debit)
		wallet.GET("/balance", jwtAuth, walletHandler.OwnerBalance)
	}

	return r
}
