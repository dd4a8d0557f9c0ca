package services

import (
	"fmt"
	"math"
	"time"

	"github.com/acroscarlos/suite-erp-api/models"
	"gorm.io/gorm"
)

// CommissionRate is the fixed commission on every closed sale
const CommissionRate = 0.015

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// monthWindow returns [start, end) bounds for a calendar month. Queries filter
// by range instead of MONTH()/YEAR() SQL functions so they run unchanged on
// Postgres and the sqlite test databases.
func monthWindow(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, 0)
}

// PostCommission inserts one pending ledger posting per beneficiary of a sale.
// Base and commission are split equally across the primary seller and the
// deduplicated, validated collaborators; each share is rounded to 2 decimals
// independently, so the shares may not sum back to the original total.
// Returns false when the computed commission is zero or negative (no rows).
func PostCommission(db *gorm.DB, orderID, sellerID uint, totalUSD float64, collaborators []uint) (bool, error) {
	commissionTotal := totalUSD * CommissionRate
	if commissionTotal <= 0 {
		return false, nil
	}

	beneficiaries := []uint{sellerID}
	if len(collaborators) > 0 {
		var valid []uint
		if err := db.Model(&models.Employee{}).
			Where("id IN ?", collaborators).
			Pluck("id", &valid).Error; err != nil {
			return false, fmt.Errorf("failed to validate collaborators: %w", err)
		}
		seen := map[uint]bool{sellerID: true}
		for _, id := range valid {
			if id > 0 && !seen[id] {
				seen[id] = true
				beneficiaries = append(beneficiaries, id)
			}
		}
	}

	baseShare := round2(totalUSD / float64(len(beneficiaries)))
	commissionShare := round2(commissionTotal / float64(len(beneficiaries)))

	entries := make([]models.CommissionEntry, 0, len(beneficiaries))
	for _, id := range beneficiaries {
		entries = append(entries, models.CommissionEntry{
			OrderID:       orderID,
			SellerID:      id,
			BaseUSD:       baseShare,
			CommissionUSD: commissionShare,
			Kind:          models.EntryPosting,
			PayState:      models.PayPending,
		})
	}
	if err := db.Create(&entries).Error; err != nil {
		return false, fmt.Errorf("failed to insert commission postings: %w", err)
	}

	return true, nil
}

// ReverseCommission inserts offsetting negative entries for an order's ledger
// rows, netting each beneficiary back to their pre-posting balance. Existing
// rows are never updated or deleted. Returns false when there is nothing left
// to reverse.
func ReverseCommission(db *gorm.DB, orderID uint) (bool, error) {
	var entries []models.CommissionEntry
	if err := db.Where("order_id = ?", orderID).Find(&entries).Error; err != nil {
		return false, fmt.Errorf("failed to load ledger entries: %w", err)
	}
	if len(entries) == 0 {
		return false, nil
	}

	// Net per seller across postings and earlier reversals so repeated
	// reverse/repost cycles stay balanced.
	type net struct{ base, commission float64 }
	nets := make(map[uint]net)
	var order []uint
	for _, e := range entries {
		if _, ok := nets[e.SellerID]; !ok {
			order = append(order, e.SellerID)
		}
		n := nets[e.SellerID]
		n.base += e.BaseUSD
		n.commission += e.CommissionUSD
		nets[e.SellerID] = n
	}

	var reversals []models.CommissionEntry
	for _, sellerID := range order {
		n := nets[sellerID]
		if n.commission <= 0 && n.base <= 0 {
			continue
		}
		reversals = append(reversals, models.CommissionEntry{
			OrderID:       orderID,
			SellerID:      sellerID,
			BaseUSD:       -round2(n.base),
			CommissionUSD: -round2(n.commission),
			Kind:          models.EntryReversal,
			PayState:      models.PayPending,
		})
	}
	if len(reversals) == 0 {
		return false, nil
	}
	if err := db.Create(&reversals).Error; err != nil {
		return false, fmt.Errorf("failed to insert reversal entries: %w", err)
	}

	return true, nil
}

// FreezeMonth performs the monthly accounting close: every pending ledger
// entry created at or before the cutoff flips to paid, then gamification
// prizes for the cutoff's month are adjudicated. Prizes enter as pending and
// are paid out by the next freeze cycle. Irreversible by design.
func FreezeMonth(db *gorm.DB, actor Actor, cutoff time.Time) (int64, error) {
	if err := Authorize(actor, CapCloseLedger); err != nil {
		return 0, err
	}
	if cutoff.IsZero() {
		cutoff = time.Now()
	}

	result := db.Model(&models.CommissionEntry{}).
		Where("pay_state = ? AND created_at <= ?", models.PayPending, cutoff).
		Update("pay_state", models.PayPaid)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to freeze ledger: %w", result.Error)
	}

	if err := adjudicatePrizes(db, int(cutoff.Month()), cutoff.Year()); err != nil {
		return result.RowsAffected, err
	}

	GetAuditLogger().Record(actor.SellerID, "ledger_freeze",
		fmt.Sprintf("froze %d pending entries up to %s", result.RowsAffected, cutoff.Format("2006-01-02 15:04:05")), "")

	return result.RowsAffected, nil
}

// adjudicatePrizes pays out prizes from earlier periods and records the
// current period's computed winners as pending
func adjudicatePrizes(db *gorm.DB, month, year int) error {
	// 1. Pay out pending prizes from any earlier period
	if err := db.Model(&models.MonthlyPrize{}).
		Where("state = ? AND (year < ? OR (year = ? AND month < ?))", models.PayPending, year, year, month).
		Update("state", models.PayPaid).Error; err != nil {
		return fmt.Errorf("failed to pay out earlier prizes: %w", err)
	}

	// 2. Record this period's computed winners (idempotent per period+name)
	winners, err := GamificationWinners(db, month, year)
	if err != nil {
		return err
	}

	record := func(sellerID uint, name string) error {
		var count int64
		if err := db.Model(&models.MonthlyPrize{}).
			Where("month = ? AND year = ? AND name = ? AND manual = ?", month, year, name, false).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return db.Create(&models.MonthlyPrize{
			SellerID:  sellerID,
			Month:     month,
			Year:      year,
			Name:      name,
			AmountUSD: models.ComputedPrizeAmountUSD,
			Manual:    false,
			State:     models.PayPending,
		}).Error
	}

	if winners.TopVolume != nil {
		if err := record(winners.TopVolume.SellerID, models.PrizeTopVolume); err != nil {
			return fmt.Errorf("failed to record top volume prize: %w", err)
		}
	}
	if winners.TopCount != nil {
		if err := record(winners.TopCount.SellerID, models.PrizeTopCount); err != nil {
			return fmt.Errorf("failed to record top count prize: %w", err)
		}
	}
	return nil
}

// Winner is one gamification category leader for a period
type Winner struct {
	SellerID   uint    `json:"seller_id"`
	SellerName string  `json:"seller_name"`
	TotalUSD   float64 `json:"total_usd"`
	SalesCount int64   `json:"sales_count"`
}

// Winners holds at most one leader per category; a nil entry means no
// qualifying sales in the period
type Winners struct {
	TopVolume *Winner `json:"top_volume"`
	TopCount  *Winner `json:"top_count"`
}

// GamificationWinners aggregates closed sales (paid or dispatched) for a
// month and returns the highest-volume and highest-count sellers. Ties break
// by natural row order.
func GamificationWinners(db *gorm.DB, month, year int) (*Winners, error) {
	start, end := monthWindow(month, year)
	closed := []string{models.StatusPaid, models.StatusDispatched}

	var topVolume []Winner
	err := db.Model(&models.Order{}).
		Select("orders.seller_id, employees.name AS seller_name, SUM(orders.total_usd) AS total_usd, COUNT(orders.id) AS sales_count").
		Joins("INNER JOIN employees ON employees.id = orders.seller_id").
		Where("orders.issued_at >= ? AND orders.issued_at < ? AND orders.status IN ?", start, end, closed).
		Group("orders.seller_id, employees.name").
		Order("total_usd DESC").
		Limit(1).
		Scan(&topVolume).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute top volume: %w", err)
	}

	var topCount []Winner
	err = db.Model(&models.Order{}).
		Select("orders.seller_id, employees.name AS seller_name, SUM(orders.total_usd) AS total_usd, COUNT(orders.id) AS sales_count").
		Joins("INNER JOIN employees ON employees.id = orders.seller_id").
		Where("orders.issued_at >= ? AND orders.issued_at < ? AND orders.status IN ?", start, end, closed).
		Group("orders.seller_id, employees.name").
		Order("sales_count DESC").
		Limit(1).
		Scan(&topCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute top count: %w", err)
	}

	winners := &Winners{}
	if len(topVolume) > 0 {
		winners.TopVolume = &topVolume[0]
	}
	if len(topCount) > 0 {
		winners.TopCount = &topCount[0]
	}
	return winners, nil
}

// AssignManualPrize records an admin-assigned, named prize for an arbitrary
// seller and period, independent of the computed awards
func AssignManualPrize(db *gorm.DB, actor Actor, sellerID uint, name string, amount float64, month, year int) (uint, error) {
	if err := Authorize(actor, CapAssignPrize); err != nil {
		return 0, err
	}
	if sellerID == 0 || name == "" || month < 1 || month > 12 {
		return 0, newError(CodeValidation, "seller, prize name and a valid month are required")
	}

	prize := models.MonthlyPrize{
		SellerID:  sellerID,
		Month:     month,
		Year:      year,
		Name:      name,
		AmountUSD: amount,
		Manual:    true,
		State:     models.PayPending,
	}
	if err := db.Create(&prize).Error; err != nil {
		return 0, fmt.Errorf("failed to record manual prize: %w", err)
	}

	GetAuditLogger().Record(actor.SellerID, "manual_prize",
		fmt.Sprintf("assigned %q ($%.2f) to seller %d for %d/%d", name, amount, sellerID, month, year), "")

	return prize.ID, nil
}

// WalletEntry is one recent ledger movement in a seller's wallet view
type WalletEntry struct {
	CommissionUSD float64   `json:"commission_usd"`
	Kind          string    `json:"kind"`
	PayState      string    `json:"pay_state"`
	CreatedAt     time.Time `json:"created_at"`
	OrderCode     string    `json:"order_code"`
	OrderTotalUSD float64   `json:"order_total_usd"`
}

// Wallet summarizes a seller's commission position for a month
type Wallet struct {
	PendingUSD float64       `json:"pending_usd"`
	PaidUSD    float64       `json:"paid_usd"`
	History    []WalletEntry `json:"history"`
}

// SellerWallet returns a seller's month totals grouped by pay state plus the
// last 10 ledger movements. Sellers may only see their own wallet; elevated
// roles may inspect anyone's.
func SellerWallet(db *gorm.DB, actor Actor, sellerID uint, month, year int) (*Wallet, error) {
	if sellerID != actor.SellerID && !actor.IsElevated() {
		return nil, newError(CodeIDOR, "cannot inspect another seller's wallet")
	}
	start, end := monthWindow(month, year)

	var totals []struct {
		PayState string
		Total    float64
	}
	err := db.Model(&models.CommissionEntry{}).
		Select("pay_state, SUM(commission_usd) AS total").
		Where("seller_id = ? AND created_at >= ? AND created_at < ?", sellerID, start, end).
		Group("pay_state").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to total wallet: %w", err)
	}

	wallet := &Wallet{}
	for _, t := range totals {
		switch t.PayState {
		case models.PayPending:
			wallet.PendingUSD = t.Total
		case models.PayPaid:
			wallet.PaidUSD = t.Total
		}
	}

	err = db.Model(&models.CommissionEntry{}).
		Select("commission_entries.commission_usd, commission_entries.kind, commission_entries.pay_state, commission_entries.created_at, orders.code AS order_code, orders.total_usd AS order_total_usd").
		Joins("LEFT JOIN orders ON orders.id = commission_entries.order_id").
		Where("commission_entries.seller_id = ? AND commission_entries.created_at >= ? AND commission_entries.created_at < ?", sellerID, start, end).
		Order("commission_entries.id DESC").
		Limit(10).
		Scan(&wallet.History).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet history: %w", err)
	}

	return wallet, nil
}
