package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appConfig "github.com/acroscarlos/suite-erp-api/config"
	"github.com/acroscarlos/suite-erp-api/services"
)

// RunInventorySnapshot handles POST /api/v1/maintenance/snapshot - triggers
// the daily inventory snapshot on demand. The per-day idempotency guard makes
// repeated calls harmless.
func RunInventorySnapshot(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := services.Authorize(actor, services.CapRunMaintenance); err != nil {
		respondServiceError(c, err)
		return
	}

	db := appConfig.GetDB()
	if err := services.DailyInventorySnapshot(db); err != nil {
		respondServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"job": "inventory_snapshot",
		},
	})
}

// RunArchiveSweep handles POST /api/v1/maintenance/archive - triggers the
// weekly archive sweep on demand
func RunArchiveSweep(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := services.Authorize(actor, services.CapRunMaintenance); err != nil {
		respondServiceError(c, err)
		return
	}

	cfg := appConfig.GetConfig()
	archiveAfterDays := 60
	if cfg != nil {
		archiveAfterDays = cfg.ArchiveAfterDays
	}

	db := appConfig.GetDB()
	count, err := services.WeeklyArchiveDispatchedOrders(db, archiveAfterDays)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"job":             "order_archive",
			"archived_orders": count,
		},
	})
}
