package positions

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/defilend/ledgerd/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	records []models.Transaction
	err     error
}

func (s *stubStore) Append(_ context.Context, _ *models.Transaction) error {
	return nil
}

func (s *stubStore) ListByUser(_ context.Context, _ string) ([]models.Transaction, error) {
	return s.records, s.err
}

func (s *stubStore) Healthy(_ context.Context) bool {
	return s.err == nil
}

func tx(txType, token string, amount float64) models.Transaction {
	return models.Transaction{UserAddress: "U1", Type: txType, Token: token, Amount: amount}
}

func TestFold(t *testing.T) {
	t.Run("supply and borrow accumulate per token", func(t *testing.T) {
		records := []models.Transaction{
			tx(models.TypeSupply, "USDC", 100),
			tx(models.TypeSupply, "USDC", 50),
			tx(models.TypeBorrow, "USDC", 40),
			tx(models.TypeSupply, "SOL", 2),
		}

		positions := Fold(records, StaticRates{})
		require.Len(t, positions, 2)

		// Sorted by token: SOL before USDC.
		assert.Equal(t, "SOL", positions[0].Token)
		assert.Equal(t, float64(2), positions[0].Supplied)
		assert.Equal(t, float64(0), positions[0].Borrowed)

		assert.Equal(t, "USDC", positions[1].Token)
		assert.Equal(t, float64(150), positions[1].Supplied)
		assert.Equal(t, float64(40), positions[1].Borrowed)
	})

	t.Run("fold is commutative", func(t *testing.T) {
		records := []models.Transaction{
			tx(models.TypeSupply, "USDC", 100),
			tx(models.TypeBorrow, "USDC", 40),
			tx(models.TypeSupply, "SOL", 3),
			tx(models.TypeBorrow, "SOL", 1),
			tx(models.TypeSupply, "USDC", 25),
		}
		want := Fold(records, StaticRates{})

		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 10; i++ {
			shuffled := make([]models.Transaction, len(records))
			copy(shuffled, records)
			rng.Shuffle(len(shuffled), func(a, b int) {
				shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
			})
			assert.Equal(t, want, Fold(shuffled, StaticRates{}))
		}
	})

	t.Run("unrecognized types are dropped silently", func(t *testing.T) {
		records := []models.Transaction{
			tx(models.TypeSupply, "USDC", 100),
			tx(models.TypeRepay, "USDC", 60),
			tx(models.TypeWithdraw, "SOL", 1),
		}

		positions := Fold(records, StaticRates{})
		require.Len(t, positions, 2)

		// A repay-only or withdraw-only token still claims a zeroed row.
		assert.Equal(t, "SOL", positions[0].Token)
		assert.Zero(t, positions[0].Supplied)
		assert.Zero(t, positions[0].Borrowed)

		assert.Equal(t, float64(100), positions[1].Supplied)
		assert.Equal(t, float64(0), positions[1].Borrowed)
	})

	t.Run("rates come from the table", func(t *testing.T) {
		positions := Fold([]models.Transaction{
			tx(models.TypeSupply, "USDC", 1),
			tx(models.TypeSupply, "SOL", 1),
		}, StaticRates{})
		require.Len(t, positions, 2)

		assert.Equal(t, 6.2, positions[0].APY) // SOL falls into the default bucket
		assert.Equal(t, 9.8, positions[0].APR)
		assert.Equal(t, 8.5, positions[1].APY) // USDC has its own rates
		assert.Equal(t, 12.3, positions[1].APR)
	})

	t.Run("empty input yields no positions", func(t *testing.T) {
		assert.Empty(t, Fold(nil, StaticRates{}))
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		supplied float64
		borrowed float64
		factor   string
		label    string
	}{
		{"nothing borrowed", 0, 0, "∞", models.HealthSafe},
		{"supplied with nothing borrowed", 500, 0, "∞", models.HealthSafe},
		{"comfortably collateralized", 250, 100, "2.50", models.HealthSafe},
		{"boundary ratio is warning", 150, 100, "1.50", models.HealthWarning},
		{"between one and threshold", 120, 100, "1.20", models.HealthWarning},
		{"ratio of one is danger", 100, 100, "1.00", models.HealthDanger},
		{"undercollateralized", 50, 100, "0.50", models.HealthDanger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.supplied, tt.borrowed)
			assert.Equal(t, tt.factor, got.Factor)
			assert.Equal(t, tt.label, got.Label)
		})
	}
}

func TestSnapshot(t *testing.T) {
	t.Run("totals and health from the record log", func(t *testing.T) {
		store := &stubStore{records: []models.Transaction{
			tx(models.TypeSupply, "USDC", 100),
			tx(models.TypeBorrow, "USDC", 40),
		}}
		svc := NewService(store, StaticRates{}, zerolog.Nop())

		summary := svc.Snapshot(context.Background(), "U1")
		assert.Equal(t, "U1", summary.UserAddress)
		assert.Equal(t, float64(100), summary.TotalSupplied)
		assert.Equal(t, float64(40), summary.TotalBorrowed)
		assert.Equal(t, "2.50", summary.Health.Factor)
		assert.Equal(t, models.HealthSafe, summary.Health.Label)
		assert.False(t, summary.Degraded)
	})

	t.Run("fetch failure degrades to placeholder rows", func(t *testing.T) {
		store := &stubStore{err: errors.New("connection refused")}
		svc := NewService(store, StaticRates{}, zerolog.Nop())

		summary := svc.Snapshot(context.Background(), "U1")
		require.Len(t, summary.Positions, 2)

		assert.Equal(t, "USDC", summary.Positions[0].Token)
		assert.Equal(t, 8.5, summary.Positions[0].APY)
		assert.Equal(t, "SOL", summary.Positions[1].Token)
		assert.Equal(t, 6.2, summary.Positions[1].APY)
		for _, p := range summary.Positions {
			assert.Zero(t, p.Supplied)
			assert.Zero(t, p.Borrowed)
		}

		assert.Zero(t, summary.TotalSupplied)
		assert.Zero(t, summary.TotalBorrowed)
		assert.Equal(t, "∞", summary.Health.Factor)
		assert.True(t, summary.Degraded)
	})

	t.Run("no records yields empty positions and infinite health", func(t *testing.T) {
		svc := NewService(&stubStore{}, StaticRates{}, zerolog.Nop())

		summary := svc.Snapshot(context.Background(), "U1")
		assert.Empty(t, summary.Positions)
		assert.Equal(t, "∞", summary.Health.Factor)
		assert.Equal(t, models.HealthSafe, summary.Health.Label)
	})
}
