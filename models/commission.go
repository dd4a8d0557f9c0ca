package models

import "time"

// Commission ledger entry kinds and pay states. The ledger is append-only:
// postings are inserted, reversals are inserted with negated amounts, and the
// monthly close bulk-flips pending entries to paid. Rows are never deleted.
const (
	EntryPosting  = "posting"
	EntryReversal = "reversal"

	PayPending = "pending"
	PayPaid    = "paid"
)

// CommissionEntry is one (order, beneficiary) posting in the commission ledger
type CommissionEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OrderID       uint      `gorm:"not null;index" json:"order_id"`
	SellerID      uint      `gorm:"not null;index" json:"seller_id"`
	BaseUSD       float64   `gorm:"default:0" json:"base_usd"`
	CommissionUSD float64   `gorm:"default:0" json:"commission_usd"`
	Kind          string    `gorm:"not null;default:'posting';size:20" json:"kind"`
	PayState      string    `gorm:"not null;default:'pending';size:20;index" json:"pay_state"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for the CommissionEntry model
func (CommissionEntry) TableName() string {
	return "commission_entries"
}

// Prize states mirror the ledger pay states: a prize adjudicated during one
// monthly close is paid out by the next one.
const (
	PrizeTopVolume = "Top Volume"
	PrizeTopCount  = "Top Count"

	// Fixed payout for the two computed monthly awards
	ComputedPrizeAmountUSD = 20.00
)

// MonthlyPrize records a gamification award for a seller and period, either
// computed during the monthly close or assigned manually by an elevated role
type MonthlyPrize struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SellerID  uint      `gorm:"not null;index" json:"seller_id"`
	Month     int       `gorm:"not null;index:idx_prize_period" json:"month"`
	Year      int       `gorm:"not null;index:idx_prize_period" json:"year"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	AmountUSD float64   `gorm:"default:0" json:"amount_usd"`
	Manual    bool      `gorm:"default:false" json:"manual"`
	State     string    `gorm:"not null;default:'pending';size:20" json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the MonthlyPrize model
func (MonthlyPrize) TableName() string {
	return "monthly_prizes"
}
