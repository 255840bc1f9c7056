package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/defilend/ledgerd/internal/cache"
	"github.com/defilend/ledgerd/internal/ledger"
	"github.com/defilend/ledgerd/internal/models"
	"github.com/gin-gonic/gin"
)

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Health reports process liveness and whether the database answers a ping.
func (h *Handler) Health(c *gin.Context) {
	database := "disconnected"
	if h.store.Healthy(c.Request.Context()) {
		database = "connected"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": timestamp(),
		"database":  database,
	})
}

// ListTransactions returns the most recent records for a user, newest first.
func (h *Handler) ListTransactions(c *gin.Context) {
	userAddress := c.Param("userAddress")
	if userAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User address is required"})
		return
	}

	ctx := c.Request.Context()
	key := cache.TransactionsKey(userAddress)

	cached := make([]models.Transaction, 0)
	if h.cache.Get(ctx, key, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	transactions, err := h.ledger.ListByUser(ctx, userAddress)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to fetch transactions",
			"message":   err.Error(),
			"timestamp": timestamp(),
		})
		return
	}

	h.cache.Set(ctx, key, transactions)
	c.JSON(http.StatusOK, transactions)
}

// RecordTransaction validates and appends one transaction record.
func (h *Handler) RecordTransaction(c *gin.Context) {
	var req ledger.AppendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	tx, message, err := h.ledger.Append(c.Request.Context(), &req)
	if err != nil {
		var verr *ledger.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to save transaction",
			"message":   err.Error(),
			"timestamp": timestamp(),
		})
		return
	}

	// The listing for this user changed; drop any cached copy.
	h.cache.Invalidate(c.Request.Context(), cache.TransactionsKey(tx.UserAddress))

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"transaction": tx,
		"message":     message,
	})
}

// GetPositions returns the derived position summary for a user. A storage
// failure degrades to placeholder rows rather than an error response.
func (h *Handler) GetPositions(c *gin.Context) {
	userAddress := c.Param("userAddress")
	if userAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User address is required"})
		return
	}

	summary := h.positions.Snapshot(c.Request.Context(), userAddress)
	c.JSON(http.StatusOK, summary)
}

// SolanaTest runs the RPC connectivity smoke test.
func (h *Handler) SolanaTest(c *gin.Context) {
	if h.solana == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success":   false,
			"error":     "Solana RPC client is not configured",
			"timestamp": timestamp(),
		})
		return
	}

	report, err := h.solana.TestConnection(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     err.Error(),
			"network":   h.solana.Endpoint(),
			"timestamp": timestamp(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"network":   report.Network,
		"slot":      report.Slot,
		"blockhash": report.Blockhash,
		"epoch":     report.Epoch,
		"timestamp": timestamp(),
	})
}

// SolanaWallet runs the wallet connectivity smoke test: lamport balance plus
// SPL token account count.
func (h *Handler) SolanaWallet(c *gin.Context) {
	if h.solana == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success":   false,
			"error":     "Solana RPC client is not configured",
			"timestamp": timestamp(),
		})
		return
	}

	report, err := h.solana.TestWallet(c.Request.Context(), c.Param("address"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     err.Error(),
			"timestamp": timestamp(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"publicKey":     report.PublicKey,
		"balance":       report.BalanceSOL,
		"tokenAccounts": report.TokenAccounts,
		"timestamp":     timestamp(),
	})
}

// NotFound is the catch-all for unmatched routes.
func (h *Handler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":     "Route not found",
		"path":      c.Request.URL.Path,
		"timestamp": timestamp(),
	})
}
