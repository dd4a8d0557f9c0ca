package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/acroscarlos/suite-erp-api/models"
)

func createTestClient(t *testing.T, db *gorm.DB, name, taxID string) models.Client {
	client := models.Client{Name: name, TaxID: models.NormalizeTaxID(taxID)}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}
	return client
}

func TestSearchClients(t *testing.T) {
	db := setupOrderTestDB(t)
	createTestClient(t, db, "Comercial Andina C.A.", "J-12345678")
	createTestClient(t, db, "Ferreteria El Tornillo", "J-87654321")

	t.Run("matches by name fragment", func(t *testing.T) {
		clients, err := SearchClients(db, "Andina")
		assert.NoError(t, err)
		assert.Len(t, clients, 1)
		assert.Equal(t, "Comercial Andina C.A.", clients[0].Name)
	})

	t.Run("matches by punctuated tax ID", func(t *testing.T) {
		clients, err := SearchClients(db, "J-8765")
		assert.NoError(t, err)
		assert.Len(t, clients, 1)
		assert.Equal(t, "J87654321", clients[0].TaxID)
	})

	t.Run("no match returns an empty list", func(t *testing.T) {
		clients, err := SearchClients(db, "nothing-here")
		assert.NoError(t, err)
		assert.Empty(t, clients)
	})
}

func TestGetClientStats(t *testing.T) {
	db := setupOrderTestDB(t)
	seller := createTestEmployee(t, db, "seller1", models.RoleSeller)
	client := createTestClient(t, db, "Comercial Andina C.A.", "J-12345678")

	for _, total := range []float64{100.00, 250.00} {
		order := createTestOrder(t, db, seller.ID, models.StatusPaid, total)
		db.Model(&order).Update("client_id", client.ID)
	}

	stats, err := GetClientStats(db, client.ID)
	assert.NoError(t, err)
	assert.Equal(t, 350.00, stats.TotalUSD)
	assert.Equal(t, int64(2), stats.PurchaseCount)

	history, err := GetClientHistory(db, client.ID)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestUpdateClient(t *testing.T) {
	db := setupOrderTestDB(t)
	client := createTestClient(t, db, "Comercial Andina C.A.", "J-12345678")

	t.Run("updates and renormalizes the tax ID", func(t *testing.T) {
		err := UpdateClient(db, client.ID, ClientInput{Name: "Comercial Andina 2024", TaxID: "j-1234.5678"})
		assert.NoError(t, err)

		var updated models.Client
		db.First(&updated, client.ID)
		assert.Equal(t, "Comercial Andina 2024", updated.Name)
		assert.Equal(t, "J12345678", updated.TaxID)
	})

	t.Run("rejects a tax ID that normalizes to nothing", func(t *testing.T) {
		err := UpdateClient(db, client.ID, ClientInput{Name: "X", TaxID: "---"})
		assert.Equal(t, CodeValidation, ErrCode(err))
	})

	t.Run("missing clients are not found", func(t *testing.T) {
		err := UpdateClient(db, 9999, ClientInput{Name: "X", TaxID: "J-1"})
		assert.Equal(t, CodeNotFound, ErrCode(err))
	})
}

func TestDeleteClient(t *testing.T) {
	t.Run("only elevated roles may delete", func(t *testing.T) {
		db := setupOrderTestDB(t)
		seller := createTestEmployee(t, db, "seller1", models.RoleSeller)
		client := createTestClient(t, db, "Comercial Andina C.A.", "J-12345678")

		err := DeleteClient(db, NewActor(&seller), client.ID)
		assert.Equal(t, CodeForbidden, ErrCode(err))
	})

	t.Run("refuses while purchase history exists", func(t *testing.T) {
		db := setupOrderTestDB(t)
		manager := createTestEmployee(t, db, "manager1", models.RoleManager)
		client := createTestClient(t, db, "Comercial Andina C.A.", "J-12345678")
		order := createTestOrder(t, db, manager.ID, models.StatusPaid, 100.00)
		db.Model(&order).Update("client_id", client.ID)

		err := DeleteClient(db, NewActor(&manager), client.ID)
		assert.Equal(t, CodeValidation, ErrCode(err))
	})

	t.Run("deletes a clean client", func(t *testing.T) {
		db := setupOrderTestDB(t)
		manager := createTestEmployee(t, db, "manager1", models.RoleManager)
		client := createTestClient(t, db, "Comercial Andina C.A.", "J-12345678")

		err := DeleteClient(db, NewActor(&manager), client.ID)
		assert.NoError(t, err)

		err = DeleteClient(db, NewActor(&manager), client.ID)
		assert.Equal(t, CodeNotFound, ErrCode(err))
	})
}
