package models

import (
	"strings"
	"time"
)

// Order lifecycle statuses. An order is created as "emitted" and moves forward
// through the pipeline; "paid" and "dispatched" are protected: once reached,
// only an elevated role may move the order again.
const (
	StatusEmitted    = "emitted"
	StatusInProcess  = "in_process"
	StatusPaid       = "paid"
	StatusToShip     = "to_ship"
	StatusCanceled   = "canceled"
	StatusDispatched = "dispatched"
	StatusArchived   = "archived" // set by the weekly maintenance sweep only
)

// Sentinel SKUs for off-catalog line items. They carry no floor price and are
// skipped by inventory decrements.
const (
	SKUManual  = "MANUAL"
	SKUGeneric = "GENERIC"
)

// IsProtectedStatus reports whether a status locks the order against
// non-elevated mutation
func IsProtectedStatus(status string) bool {
	return status == StatusPaid || status == StatusDispatched
}

// IsValidTransitionTarget reports whether a status may be requested through
// the transition endpoint. "archived" is deliberately excluded.
func IsValidTransitionTarget(status string) bool {
	switch status {
	case StatusEmitted, StatusInProcess, StatusPaid, StatusToShip, StatusCanceled, StatusDispatched:
		return true
	}
	return false
}

// IsCatalogSKU reports whether a SKU is backed by the inventory ledger
func IsCatalogSKU(sku string) bool {
	upper := strings.ToUpper(sku)
	return upper != SKUManual && upper != SKUGeneric
}

// Order represents a quote/sale header. The client name, tax ID and address
// are snapshotted at creation time so later client edits do not rewrite
// history. Totals are always the sum of line subtotals, with
// total_local = total_usd * exchange_rate at creation.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	Code            string      `gorm:"not null;size:20;index" json:"code"`
	ClientID        uint        `gorm:"not null;index" json:"client_id"`
	ClientName      string      `json:"client_name"`
	ClientTaxID     string      `gorm:"size:50" json:"client_tax_id"`
	DeliveryAddress string      `gorm:"type:text" json:"delivery_address"`
	SellerID        uint        `gorm:"not null;index" json:"seller_id"`
	Currency        string      `gorm:"size:5;default:'USD'" json:"currency"`
	ExchangeRate    float64     `json:"exchange_rate"`
	ValidityDays    int         `gorm:"default:10" json:"validity_days"`
	TotalUSD        float64     `json:"total_usd"`
	TotalLocal      float64     `json:"total_local"`
	Status          string      `gorm:"not null;default:'emitted';size:20;index" json:"status"`
	SaleChannel     string      `gorm:"size:100" json:"sale_channel"`
	PaymentMethod   string      `gorm:"size:100" json:"payment_method"`
	DeliveryMethod  string      `gorm:"size:100" json:"delivery_method"`
	PaymentProofURL string      `gorm:"type:text" json:"payment_proof_url"`
	ReceiptNumber   string      `gorm:"size:100" json:"receipt_number"`
	PODKey          *string     `json:"pod_key,omitempty"` // storage key of the proof-of-delivery image
	IssuedAt        time.Time   `gorm:"index" json:"issued_at"`
	ArchivedAt      *time.Time  `json:"archived_at,omitempty"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Client          *Client     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a single line of an order. Items are immutable once the order
// exists; the UI replaces an order wholesale by cloning instead of editing.
type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"not null;index" json:"order_id"`
	SKU          string  `gorm:"size:100" json:"sku"`
	ProductName  string  `json:"product_name"`
	Quantity     int     `gorm:"not null" json:"quantity"`
	UnitPriceUSD float64 `json:"unit_price_usd"`
	LeadTime     string  `gorm:"size:100;default:'Immediate'" json:"lead_time"`
	SubtotalUSD  float64 `json:"subtotal_usd"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
