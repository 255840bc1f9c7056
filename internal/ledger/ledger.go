package ledger

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/defilend/ledgerd/internal/metrics"
	"github.com/defilend/ledgerd/internal/models"
	"github.com/rs/zerolog"
)

// ListLimit caps how many records a single listing returns. There is no
// pagination beyond the cap: older records for a prolific user are not
// reachable through this interface.
const ListLimit = 50

// Store is the capability the ledger needs from durable storage.
type Store interface {
	Append(ctx context.Context, tx *models.Transaction) error
	ListByUser(ctx context.Context, userAddress string) ([]models.Transaction, error)
	Healthy(ctx context.Context) bool
}

// AppendRequest carries the client-supplied fields of a new record. Timestamp
// is optional; the server assigns one when it is absent.
type AppendRequest struct {
	UserAddress string     `json:"userAddress"`
	Type        string     `json:"type"`
	Amount      float64    `json:"amount"`
	Token       string     `json:"token"`
	TxHash      string     `json:"txHash"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}

// Validate checks required fields in the order the API reports them:
// userAddress, type, amount, token, txHash. An amount of zero is rejected
// along with non-finite values.
func (r *AppendRequest) Validate() *ValidationError {
	if r.UserAddress == "" {
		return &ValidationError{Field: "userAddress", Message: "User address is required"}
	}
	if r.Type == "" {
		return &ValidationError{Field: "type", Message: "Transaction type is required"}
	}
	if r.Amount == 0 || math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
		return &ValidationError{Field: "amount", Message: "Valid amount is required"}
	}
	if r.Token == "" {
		return &ValidationError{Field: "token", Message: "Token is required"}
	}
	if r.TxHash == "" {
		return &ValidationError{Field: "txHash", Message: "Transaction hash is required"}
	}
	return nil
}

// Service validates and persists transaction records.
type Service struct {
	store  Store
	logger zerolog.Logger
}

// NewService creates a ledger service on top of the given store.
func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "ledger").Logger(),
	}
}

// Append validates req, assigns a server timestamp when none was supplied and
// writes the record as a single durable write. On success it returns the
// persisted record and the confirmation message for the client.
func (s *Service) Append(ctx context.Context, req *AppendRequest) (*models.Transaction, string, error) {
	if verr := req.Validate(); verr != nil {
		metrics.RecordLedgerAppend("rejected")
		return nil, "", verr
	}

	timestamp := time.Now().UTC()
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}

	tx := &models.Transaction{
		UserAddress: req.UserAddress,
		Type:        req.Type,
		Amount:      req.Amount,
		Token:       req.Token,
		TxHash:      req.TxHash,
		Timestamp:   timestamp,
	}

	if err := s.store.Append(ctx, tx); err != nil {
		metrics.RecordLedgerAppend("failed")
		s.logger.Error().Err(err).Str("user", req.UserAddress).Msg("Failed to save transaction")
		return nil, "", err
	}

	metrics.RecordLedgerAppend("success")
	s.logger.Info().
		Str("user", tx.UserAddress).
		Str("type", tx.Type).
		Str("token", tx.Token).
		Float64("amount", tx.Amount).
		Msg("Transaction recorded")

	message := fmt.Sprintf("%s transaction recorded successfully", tx.Type)
	return tx, message, nil
}

// ListByUser returns the user's most recent records, newest first, capped at
// ListLimit. A user with no records yields an empty slice, not an error.
func (s *Service) ListByUser(ctx context.Context, userAddress string) ([]models.Transaction, error) {
	if userAddress == "" {
		return nil, &ValidationError{Field: "userAddress", Message: "User address is required"}
	}
	return s.store.ListByUser(ctx, userAddress)
}
