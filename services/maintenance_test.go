package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/acroscarlos/suite-erp-api/models"
)

func TestWeeklyArchiveDispatchedOrders(t *testing.T) {
	t.Run("sweeps only old dispatched orders", func(t *testing.T) {
		db := setupOrderTestDB(t)
		seller := createTestEmployee(t, db, "seller1", models.RoleSeller)

		old := createTestOrder(t, db, seller.ID, models.StatusDispatched, 100.00)
		db.Model(&old).Update("issued_at", time.Now().AddDate(0, 0, -90))

		recent := createTestOrder(t, db, seller.ID, models.StatusDispatched, 100.00)

		oldButOpen := createTestOrder(t, db, seller.ID, models.StatusPaid, 100.00)
		db.Model(&oldButOpen).Update("issued_at", time.Now().AddDate(0, 0, -90))

		count, err := WeeklyArchiveDispatchedOrders(db, 60)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)

		var archived models.Order
		db.First(&archived, old.ID)
		assert.Equal(t, models.StatusArchived, archived.Status)
		assert.NotNil(t, archived.ArchivedAt)

		var untouched models.Order
		db.First(&untouched, recent.ID)
		assert.Equal(t, models.StatusDispatched, untouched.Status)
		untouched = models.Order{}
		db.First(&untouched, oldButOpen.ID)
		assert.Equal(t, models.StatusPaid, untouched.Status)
	})

	t.Run("a non-positive horizon falls back to 60 days", func(t *testing.T) {
		db := setupOrderTestDB(t)
		seller := createTestEmployee(t, db, "seller1", models.RoleSeller)

		borderline := createTestOrder(t, db, seller.ID, models.StatusDispatched, 100.00)
		db.Model(&borderline).Update("issued_at", time.Now().AddDate(0, 0, -30))

		count, err := WeeklyArchiveDispatchedOrders(db, 0)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("an idle sweep records no audit event", func(t *testing.T) {
		db := setupOrderTestDB(t)
		mockAudit := NewMockAuditLogger()
		mockAudit.SetAsMockForTesting()
		defer SetAuditLogger(nil)

		count, err := WeeklyArchiveDispatchedOrders(db, 60)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), count)
		assert.Empty(t, mockAudit.EventsByAction("order_archive"))
	})
}

func TestScheduler(t *testing.T) {
	t.Run("start runs the snapshot immediately and stop halts the loops", func(t *testing.T) {
		db := setupOrderTestDB(t)
		createTestInventory(t, db, "UT-890C", 50, 25.00)

		scheduler := NewScheduler(db, 60)
		scheduler.Start()

		// The startup snapshot is asynchronous; poll briefly for it
		deadline := time.Now().Add(2 * time.Second)
		var count int64
		for time.Now().Before(deadline) {
			db.Model(&models.InventorySnapshot{}).Count(&count)
			if count > 0 {
				break
			}
			time.Sleep(10 * time.Millisecond)
		}
		assert.Equal(t, int64(1), count)

		scheduler.Stop()
	})
}
