package models

import (
	"strings"
	"time"
)

// InventoryRecord caches per-SKU stock and the resale floor price. Stock is
// only mutated by the blind decrement fired on order fulfillment; there is no
// negative-stock guard at this layer.
type InventoryRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SKU         string    `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	ProductName string    `json:"product_name"`
	Stock       int       `gorm:"default:0" json:"stock"`
	Price       float64   `gorm:"default:0" json:"price"` // resale floor price in USD
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the InventoryRecord model
func (InventoryRecord) TableName() string {
	return "inventory_records"
}

// InventorySnapshot is one row of the daily stock time series
type InventorySnapshot struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	SnapshotDate string  `gorm:"size:10;not null;index" json:"snapshot_date"` // YYYY-MM-DD
	SKU          string  `gorm:"size:100;not null;index" json:"sku"`
	Stock        int     `gorm:"default:0" json:"stock"`
	Price        float64 `gorm:"default:0" json:"price"`
	Category     string  `gorm:"size:100;default:'General'" json:"category"`
}

// TableName specifies the table name for the InventorySnapshot model
func (InventorySnapshot) TableName() string {
	return "inventory_snapshots"
}

// CategoryForSKU maps a SKU prefix to its product category for the snapshot
// time series
func CategoryForSKU(sku string) string {
	upper := strings.ToUpper(sku)
	switch {
	case strings.HasPrefix(upper, "UT"):
		return "UNI-T"
	case strings.HasPrefix(upper, "HM"), strings.HasPrefix(upper, "HIK"), strings.HasPrefix(upper, "DS"):
		return "HIKMICRO"
	case strings.HasPrefix(upper, "RV"):
		return "RV TECH"
	}
	return "General"
}
