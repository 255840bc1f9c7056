package positions

// RateTable resolves the display APY/APR for a token. Rates are attached to
// derived positions for display only; they feed no computation.
type RateTable interface {
	Rates(token string) (apy, apr float64)
}

// StaticRates is the current two-bucket policy: USDC has its own rates and
// every other token shares the default bucket.
type StaticRates struct{}

func (StaticRates) Rates(token string) (float64, float64) {
	if token == "USDC" {
		return 8.5, 12.3
	}
	return 6.2, 9.8
}
