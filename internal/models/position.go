package models

// Position is the per-token view derived from a user's transaction log. It is
// recomputed from scratch on every fetch and never persisted.
type Position struct {
	Token    string  `json:"token"`
	Supplied float64 `json:"supplied"`
	Borrowed float64 `json:"borrowed"`
	APY      float64 `json:"apy"`
	APR      float64 `json:"apr"`
}

// Health factor labels shown on the dashboard. The classification is
// advisory only: it never blocks a supply or borrow action.
const (
	HealthSafe    = "Safe"
	HealthWarning = "Warning"
	HealthDanger  = "Danger"
)

// HealthFactor is the supplied/borrowed ratio with its risk label. Factor
// holds the formatted ratio, or "∞" when nothing is borrowed.
type HealthFactor struct {
	Factor string `json:"factor"`
	Label  string `json:"label"`
}

// Summary is the full dashboard view for a user: per-token positions plus
// scalar totals and the health classification. Degraded marks a summary built
// from placeholder rows after a failed ledger fetch.
type Summary struct {
	UserAddress   string       `json:"userAddress"`
	Positions     []Position   `json:"positions"`
	TotalSupplied float64      `json:"totalSupplied"`
	TotalBorrowed float64      `json:"totalBorrowed"`
	Health        HealthFactor `json:"healthFactor"`
	Degraded      bool         `json:"degraded,omitempty"`
}
