package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/defilend/ledgerd/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStore counts writes so tests can verify validation rejects a
// request before storage is touched.
type recordingStore struct {
	appended []*models.Transaction
	listed   []models.Transaction
	listErr  error
}

func (s *recordingStore) Append(_ context.Context, tx *models.Transaction) error {
	s.appended = append(s.appended, tx)
	return nil
}

func (s *recordingStore) ListByUser(_ context.Context, _ string) ([]models.Transaction, error) {
	return s.listed, s.listErr
}

func (s *recordingStore) Healthy(_ context.Context) bool {
	return true
}

func validRequest() *AppendRequest {
	return &AppendRequest{
		UserAddress: "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		Type:        models.TypeSupply,
		Amount:      100,
		Token:       "USDC",
		TxHash:      "h1",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *AppendRequest)
		field   string
		message string
	}{
		{
			name:    "missing user address",
			mutate:  func(r *AppendRequest) { r.UserAddress = "" },
			field:   "userAddress",
			message: "User address is required",
		},
		{
			name:    "missing type",
			mutate:  func(r *AppendRequest) { r.Type = "" },
			field:   "type",
			message: "Transaction type is required",
		},
		{
			name:    "zero amount",
			mutate:  func(r *AppendRequest) { r.Amount = 0 },
			field:   "amount",
			message: "Valid amount is required",
		},
		{
			name:    "missing token",
			mutate:  func(r *AppendRequest) { r.Token = "" },
			field:   "token",
			message: "Token is required",
		},
		{
			name:    "missing tx hash",
			mutate:  func(r *AppendRequest) { r.TxHash = "" },
			field:   "txHash",
			message: "Transaction hash is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			verr := req.Validate()
			require.NotNil(t, verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
		})
	}

	t.Run("valid request passes", func(t *testing.T) {
		assert.Nil(t, validRequest().Validate())
	})

	t.Run("fields are checked in order", func(t *testing.T) {
		// Everything missing: the first check wins.
		verr := (&AppendRequest{}).Validate()
		require.NotNil(t, verr)
		assert.Equal(t, "userAddress", verr.Field)
	})
}

func TestServiceAppend(t *testing.T) {
	t.Run("valid append persists and reports success", func(t *testing.T) {
		store := &recordingStore{}
		svc := NewService(store, zerolog.Nop())

		before := time.Now().UTC()
		tx, message, err := svc.Append(context.Background(), validRequest())
		require.NoError(t, err)

		assert.Equal(t, "supply transaction recorded successfully", message)
		require.Len(t, store.appended, 1)
		assert.Equal(t, "USDC", tx.Token)
		assert.Equal(t, float64(100), tx.Amount)
		assert.False(t, tx.Timestamp.Before(before))
	})

	t.Run("supplied timestamp is preserved", func(t *testing.T) {
		store := &recordingStore{}
		svc := NewService(store, zerolog.Nop())

		ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		req := validRequest()
		req.Timestamp = &ts

		tx, _, err := svc.Append(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, ts, tx.Timestamp)
	})

	t.Run("message follows the recorded type", func(t *testing.T) {
		store := &recordingStore{}
		svc := NewService(store, zerolog.Nop())

		req := validRequest()
		req.Type = models.TypeBorrow

		_, message, err := svc.Append(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "borrow transaction recorded successfully", message)
	})

	t.Run("invalid request performs no write", func(t *testing.T) {
		store := &recordingStore{}
		svc := NewService(store, zerolog.Nop())

		req := validRequest()
		req.Amount = 0

		_, _, err := svc.Append(context.Background(), req)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Valid amount is required", verr.Message)
		assert.Empty(t, store.appended)
	})
}

func TestServiceListByUser(t *testing.T) {
	t.Run("empty address is rejected before storage", func(t *testing.T) {
		svc := NewService(&recordingStore{}, zerolog.Nop())

		_, err := svc.ListByUser(context.Background(), "")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "User address is required", verr.Message)
	})

	t.Run("storage error is passed through", func(t *testing.T) {
		store := &recordingStore{listErr: &StorageError{Op: "list", Err: ErrUnavailable}}
		svc := NewService(store, zerolog.Nop())

		_, err := svc.ListByUser(context.Background(), "U1")
		var serr *StorageError
		require.ErrorAs(t, err, &serr)
	})
}
