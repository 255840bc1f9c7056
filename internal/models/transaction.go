package models

import "time"

// Transaction type values produced by the dashboard flows. Repay and withdraw
// are declared for the client's dropdowns but no current flow records them.
const (
	TypeSupply   = "supply"
	TypeBorrow   = "borrow"
	TypeRepay    = "repay"
	TypeWithdraw = "withdraw"
)

// Transaction is a single recorded lending action for a wallet. Records are
// append-only: nothing updates or deletes them once written. TxHash carries
// no uniqueness constraint, so a duplicate submission persists as a second
// row.
type Transaction struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserAddress string    `gorm:"size:44;index;not null" json:"userAddress"`
	Type        string    `gorm:"size:16;not null" json:"type"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Token       string    `gorm:"size:16;not null" json:"token"`
	TxHash      string    `gorm:"size:88;index" json:"txHash"`
	Timestamp   time.Time `gorm:"index" json:"timestamp"`
	CreatedAt   time.Time `json:"-"`
}
