package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/acroscarlos/suite-erp-api/models"
	"gorm.io/gorm"
)

// StockLine is a (SKU, quantity) pair belonging to one order
type StockLine struct {
	SKU      string
	Quantity int
}

// FloorPrices resolves the resale floor price for a batch of SKUs in a single
// query. Keys of the returned map are uppercased SKUs; a SKU absent from the
// map is not in the catalog.
func FloorPrices(db *gorm.DB, skus []string) (map[string]float64, error) {
	prices := make(map[string]float64)
	if len(skus) == 0 {
		return prices, nil
	}

	var records []models.InventoryRecord
	if err := db.Where("sku IN ?", skus).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load floor prices: %w", err)
	}

	for _, rec := range records {
		prices[strings.ToUpper(rec.SKU)] = rec.Price
	}
	return prices, nil
}

// DiscountStock executes a blind atomic decrement for every catalog line with
// a positive quantity. The subtraction happens in SQL (stock = stock - qty) so
// concurrent decrements from different orders cannot lose updates. There is no
// floor check: stock can go negative.
func DiscountStock(db *gorm.DB, actorID uint, lines []StockLine) {
	audit := GetAuditLogger()

	for _, line := range lines {
		sku := strings.TrimSpace(line.SKU)
		if sku == "" || line.Quantity <= 0 || !models.IsCatalogSKU(sku) {
			continue
		}

		result := db.Model(&models.InventoryRecord{}).
			Where("sku = ?", sku).
			UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
		if result.Error != nil {
			log.Printf("inventory: failed to discount %d x %s: %v", line.Quantity, sku, result.Error)
			continue
		}

		audit.Record(actorID, "inventory_discount",
			fmt.Sprintf("discounted %d units of SKU %s", line.Quantity, sku), "")
	}
}

// snapshotChunkSize bounds memory while walking the inventory cache
const snapshotChunkSize = 500

// DailyInventorySnapshot copies the current inventory cache into the
// historical time-series table. Idempotent per calendar day: a second run on
// the same date is a no-op.
func DailyInventorySnapshot(db *gorm.DB) error {
	today := time.Now().Format("2006-01-02")

	var existing int64
	if err := db.Model(&models.InventorySnapshot{}).
		Where("snapshot_date = ?", today).
		Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to check existing snapshot: %w", err)
	}
	if existing > 0 {
		return nil
	}

	offset := 0
	for {
		var batch []models.InventoryRecord
		if err := db.Order("id").Limit(snapshotChunkSize).Offset(offset).Find(&batch).Error; err != nil {
			return fmt.Errorf("failed to read inventory batch: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		snapshots := make([]models.InventorySnapshot, 0, len(batch))
		for _, rec := range batch {
			sku := strings.ToUpper(rec.SKU)
			snapshots = append(snapshots, models.InventorySnapshot{
				SnapshotDate: today,
				SKU:          sku,
				Stock:        rec.Stock,
				Price:        rec.Price,
				Category:     models.CategoryForSKU(sku),
			})
		}
		if err := db.Create(&snapshots).Error; err != nil {
			return fmt.Errorf("failed to insert snapshot batch: %w", err)
		}

		offset += snapshotChunkSize
	}

	GetAuditLogger().Record(0, "inventory_snapshot", fmt.Sprintf("time series captured for %s", today), "")
	return nil
}
