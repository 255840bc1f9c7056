package positions

import (
	"context"
	"sort"
	"strconv"

	"github.com/defilend/ledgerd/internal/ledger"
	"github.com/defilend/ledgerd/internal/models"
	"github.com/rs/zerolog"
)

// placeholderTokens are the rows shown when the ledger cannot be read, so the
// dashboard always has something to render.
var placeholderTokens = []string{"USDC", "SOL"}

type bucket struct {
	supplied float64
	borrowed float64
}

// Fold reduces a transaction log to per-token positions with display rates
// attached. The fold is commutative: record order never changes the result.
// Only supply and borrow accumulate; any other type still claims a token row
// but is otherwise dropped without error. Results are sorted by token for a
// stable output.
func Fold(records []models.Transaction, rates RateTable) []models.Position {
	totals := make(map[string]*bucket)
	for _, rec := range records {
		b, ok := totals[rec.Token]
		if !ok {
			b = &bucket{}
			totals[rec.Token] = b
		}
		switch rec.Type {
		case models.TypeSupply:
			b.supplied += rec.Amount
		case models.TypeBorrow:
			b.borrowed += rec.Amount
		}
	}

	positions := make([]models.Position, 0, len(totals))
	for token, b := range totals {
		apy, apr := rates.Rates(token)
		positions = append(positions, models.Position{
			Token:    token,
			Supplied: b.supplied,
			Borrowed: b.borrowed,
			APY:      apy,
			APR:      apr,
		})
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Token < positions[j].Token
	})

	return positions
}

// Classify labels the supplied/borrowed ratio. Nothing borrowed is "∞". The
// 1.5 boundary itself is Warning: Safe requires a ratio strictly above it.
func Classify(totalSupplied, totalBorrowed float64) models.HealthFactor {
	if totalBorrowed == 0 {
		return models.HealthFactor{Factor: "∞", Label: models.HealthSafe}
	}

	ratio := totalSupplied / totalBorrowed
	factor := models.HealthFactor{Factor: strconv.FormatFloat(ratio, 'f', 2, 64)}
	switch {
	case ratio > 1.5:
		factor.Label = models.HealthSafe
	case ratio > 1.0:
		factor.Label = models.HealthWarning
	default:
		factor.Label = models.HealthDanger
	}
	return factor
}

// Service derives position summaries from the transaction ledger.
type Service struct {
	store  ledger.Store
	rates  RateTable
	logger zerolog.Logger
}

// NewService creates an aggregator reading from store with rates from rates.
func NewService(store ledger.Store, rates RateTable, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		rates:  rates,
		logger: logger.With().Str("component", "positions").Logger(),
	}
}

// Snapshot folds the user's recent transaction log into per-token positions
// plus dashboard totals. A failed fetch never surfaces as an error: the
// snapshot degrades to a fixed placeholder set instead, keeping the fallback
// policy behind this interface.
func (s *Service) Snapshot(ctx context.Context, userAddress string) models.Summary {
	records, err := s.store.ListByUser(ctx, userAddress)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userAddress).Msg("Ledger fetch failed, falling back to placeholder positions")
		return s.placeholder(userAddress)
	}

	positions := Fold(records, s.rates)

	var totalSupplied, totalBorrowed float64
	for _, p := range positions {
		totalSupplied += p.Supplied
		totalBorrowed += p.Borrowed
	}

	return models.Summary{
		UserAddress:   userAddress,
		Positions:     positions,
		TotalSupplied: totalSupplied,
		TotalBorrowed: totalBorrowed,
		Health:        Classify(totalSupplied, totalBorrowed),
	}
}

func (s *Service) placeholder(userAddress string) models.Summary {
	positions := make([]models.Position, 0, len(placeholderTokens))
	for _, token := range placeholderTokens {
		apy, apr := s.rates.Rates(token)
		positions = append(positions, models.Position{Token: token, APY: apy, APR: apr})
	}
	return models.Summary{
		UserAddress: userAddress,
		Positions:   positions,
		Health:      models.HealthFactor{Factor: "∞", Label: models.HealthSafe},
		Degraded:    true,
	}
}
