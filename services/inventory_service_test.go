package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/acroscarlos/suite-erp-api/models"
)

func TestFloorPrices(t *testing.T) {
	db := setupOrderTestDB(t)
	createTestInventory(t, db, "UT-890C", 50, 25.00)
	createTestInventory(t, db, "HM-TS001", 10, 100.00)

	t.Run("resolves a batch in one map", func(t *testing.T) {
		prices, err := FloorPrices(db, []string{"UT-890C", "HM-TS001", "UT-MISSING"})
		assert.NoError(t, err)
		assert.Equal(t, 25.00, prices["UT-890C"])
		assert.Equal(t, 100.00, prices["HM-TS001"])
		_, found := prices["UT-MISSING"]
		assert.False(t, found)
	})

	t.Run("empty input returns an empty map", func(t *testing.T) {
		prices, err := FloorPrices(db, nil)
		assert.NoError(t, err)
		assert.Empty(t, prices)
	})
}

func TestDiscountStock(t *testing.T) {
	t.Run("decrements each catalog line", func(t *testing.T) {
		db := setupOrderTestDB(t)
		mockAudit := NewMockAuditLogger()
		mockAudit.SetAsMockForTesting()
		defer SetAuditLogger(nil)

		createTestInventory(t, db, "UT-890C", 10, 25.00)
		createTestInventory(t, db, "HM-TS001", 5, 100.00)

		DiscountStock(db, 1, []StockLine{
			{SKU: "UT-890C", Quantity: 3},
			{SKU: "HM-TS001", Quantity: 2},
		})

		var a, b models.InventoryRecord
		db.Where("sku = ?", "UT-890C").First(&a)
		db.Where("sku = ?", "HM-TS001").First(&b)
		assert.Equal(t, 7, a.Stock)
		assert.Equal(t, 3, b.Stock)
		assert.Len(t, mockAudit.EventsByAction("inventory_discount"), 2)
	})

	t.Run("stock can go negative", func(t *testing.T) {
		db := setupOrderTestDB(t)
		createTestInventory(t, db, "UT-890C", 2, 25.00)

		DiscountStock(db, 1, []StockLine{{SKU: "UT-890C", Quantity: 5}})

		var record models.InventoryRecord
		db.Where("sku = ?", "UT-890C").First(&record)
		assert.Equal(t, -3, record.Stock)
	})

	t.Run("skips sentinels, blanks and non-positive quantities", func(t *testing.T) {
		db := setupOrderTestDB(t)
		createTestInventory(t, db, "UT-890C", 10, 25.00)

		DiscountStock(db, 1, []StockLine{
			{SKU: models.SKUManual, Quantity: 3},
			{SKU: models.SKUGeneric, Quantity: 3},
			{SKU: "", Quantity: 3},
			{SKU: "UT-890C", Quantity: 0},
			{SKU: "UT-890C", Quantity: -1},
		})

		var record models.InventoryRecord
		db.Where("sku = ?", "UT-890C").First(&record)
		assert.Equal(t, 10, record.Stock)
	})
}

func TestDailyInventorySnapshot(t *testing.T) {
	t.Run("captures the cache with category mapping", func(t *testing.T) {
		db := setupOrderTestDB(t)
		createTestInventory(t, db, "UT-890C", 50, 25.00)
		createTestInventory(t, db, "HM-TS001", 10, 100.00)
		createTestInventory(t, db, "HIK-E1L", 8, 250.00)
		createTestInventory(t, db, "DS-2CD2043", 4, 80.00)
		createTestInventory(t, db, "RV-PANEL", 6, 40.00)
		createTestInventory(t, db, "XX-OTHER", 2, 10.00)

		assert.NoError(t, DailyInventorySnapshot(db))

		today := time.Now().Format("2006-01-02")
		var snapshots []models.InventorySnapshot
		db.Where("snapshot_date = ?", today).Find(&snapshots)
		assert.Len(t, snapshots, 6)

		categories := map[string]string{}
		for _, s := range snapshots {
			categories[s.SKU] = s.Category
		}
		assert.Equal(t, "UNI-T", categories["UT-890C"])
		assert.Equal(t, "HIKMICRO", categories["HM-TS001"])
		assert.Equal(t, "HIKMICRO", categories["HIK-E1L"])
		assert.Equal(t, "HIKMICRO", categories["DS-2CD2043"])
		assert.Equal(t, "RV TECH", categories["RV-PANEL"])
		assert.Equal(t, "General", categories["XX-OTHER"])
	})

	t.Run("a second run on the same day is a no-op", func(t *testing.T) {
		db := setupOrderTestDB(t)
		createTestInventory(t, db, "UT-890C", 50, 25.00)

		assert.NoError(t, DailyInventorySnapshot(db))
		assert.NoError(t, DailyInventorySnapshot(db))

		var count int64
		db.Model(&models.InventorySnapshot{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("an empty inventory snapshots nothing", func(t *testing.T) {
		db := setupOrderTestDB(t)
		assert.NoError(t, DailyInventorySnapshot(db))

		var count int64
		db.Model(&models.InventorySnapshot{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}
