package models

import (
	"strings"
	"time"
)

// Client represents a customer record keyed by its normalized tax ID.
// Clients are created explicitly or upserted on their first order; a client
// with purchase history is never deleted.
type Client struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	TaxID         string    `gorm:"uniqueIndex;not null;size:50" json:"tax_id"`
	Address       string    `gorm:"type:text" json:"address"`
	City          string    `gorm:"size:100" json:"city"`
	State         string    `gorm:"size:100" json:"state"`
	Phone         string    `gorm:"size:50" json:"phone"`
	Email         string    `gorm:"size:100" json:"email"`
	ContactPerson string    `gorm:"size:150" json:"contact_person"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for the Client model
func (Client) TableName() string {
	return "clients"
}

// NormalizeTaxID strips everything but letters and digits and uppercases the
// rest, so "J-12345678" and "j12345678" resolve to the same client.
func NormalizeTaxID(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
