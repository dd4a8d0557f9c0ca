package services

import (
	"errors"
	"fmt"

	"github.com/acroscarlos/suite-erp-api/models"
	"gorm.io/gorm"
)

// SearchClients finds clients by legal name or tax ID. The term is matched
// against names as typed and against tax IDs with punctuation stripped, so
// "J-505" still finds "J505...".
func SearchClients(db *gorm.DB, term string) ([]models.Client, error) {
	cleanTerm := models.NormalizeTaxID(term)

	var clients []models.Client
	query := db.Limit(10)
	if cleanTerm != "" {
		query = query.Where("name LIKE ? OR tax_id LIKE ?", "%"+term+"%", "%"+cleanTerm+"%")
	} else {
		query = query.Where("name LIKE ?", "%"+term+"%")
	}
	if err := query.Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	return clients, nil
}

// ClientStats summarizes a client's purchase behavior
type ClientStats struct {
	TotalUSD      float64 `json:"total_usd"`
	PurchaseCount int64   `json:"purchase_count"`
	FirstPurchase string  `json:"first_purchase"`
	LastPurchase  string  `json:"last_purchase"`
}

// GetClientStats aggregates a client's order totals
func GetClientStats(db *gorm.DB, clientID uint) (*ClientStats, error) {
	var stats ClientStats
	err := db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_usd), 0) AS total_usd, COUNT(id) AS purchase_count, COALESCE(MIN(issued_at), '') AS first_purchase, COALESCE(MAX(issued_at), '') AS last_purchase").
		Where("client_id = ?", clientID).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load client stats: %w", err)
	}
	return &stats, nil
}

// GetClientHistory lists a client's most recent orders
func GetClientHistory(db *gorm.DB, clientID uint) ([]models.Order, error) {
	var orders []models.Order
	err := db.Where("client_id = ?", clientID).
		Order("id DESC").
		Limit(10).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load client history: %w", err)
	}
	return orders, nil
}

// UpdateClient updates a client's profile fields. The tax ID is normalized
// again on the way in; an empty result rejects the update.
func UpdateClient(db *gorm.DB, clientID uint, in ClientInput) error {
	var client models.Client
	if err := db.First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(CodeNotFound, "the client does not exist")
		}
		return fmt.Errorf("failed to load client: %w", err)
	}

	taxID := models.NormalizeTaxID(in.TaxID)
	if taxID == "" {
		return newError(CodeValidation, "the provided tax ID is not valid")
	}

	updates := map[string]interface{}{
		"name":           in.Name,
		"tax_id":         taxID,
		"address":        in.Address,
		"city":           in.City,
		"state":          in.State,
		"phone":          in.Phone,
		"email":          in.Email,
		"contact_person": in.ContactPerson,
		"notes":          in.Notes,
	}
	if err := db.Model(&client).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return nil
}

// DeleteClient removes a client, refusing while any purchase history exists
func DeleteClient(db *gorm.DB, actor Actor, clientID uint) error {
	if !actor.IsElevated() {
		return newError(CodeForbidden, "deleting clients requires an elevated role")
	}

	var orderCount int64
	if err := db.Model(&models.Order{}).Where("client_id = ?", clientID).Count(&orderCount).Error; err != nil {
		return fmt.Errorf("failed to check client history: %w", err)
	}
	if orderCount > 0 {
		return newError(CodeValidation, "the client has purchase history and cannot be deleted")
	}

	result := db.Delete(&models.Client{}, clientID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete client: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return newError(CodeNotFound, "the client does not exist")
	}
	return nil
}
