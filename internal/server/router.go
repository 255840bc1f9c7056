package server

import (
	"github.com/defilend/ledgerd/internal/cache"
	"github.com/defilend/ledgerd/internal/ledger"
	"github.com/defilend/ledgerd/internal/positions"
	"github.com/defilend/ledgerd/internal/solana"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler bundles the services behind the HTTP API.
type Handler struct {
	ledger    *ledger.Service
	positions *positions.Service
	store     ledger.Store
	solana    *solana.Client // nil when the RPC endpoint is unreachable
	cache     *cache.Client  // nil disables response caching
	logger    zerolog.Logger
}

// NewHandler creates the API handler set.
func NewHandler(
	ledgerService *ledger.Service,
	positionService *positions.Service,
	store ledger.Store,
	solanaClient *solana.Client,
	cacheClient *cache.Client,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		ledger:    ledgerService,
		positions: positionService,
		store:     store,
		solana:    solanaClient,
		cache:     cacheClient,
		logger:    logger.With().Str("component", "server").Logger(),
	}
}

// NewRouter builds the gin engine with all routes and middleware attached.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(h.logger), Recovery(h.logger))

	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.GET("/transactions/:userAddress", h.ListTransactions)
		api.POST("/transactions", h.RecordTransaction)
		api.GET("/positions/:userAddress", h.GetPositions)
		api.GET("/solana/test", h.SolanaTest)
		api.GET("/solana/wallet/:address", h.SolanaWallet)
	}

	router.NoRoute(h.NotFound)

	return router
}
