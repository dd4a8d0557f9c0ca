package services

import (
	"fmt"
	"log"
	"time"

	"github.com/acroscarlos/suite-erp-api/models"
	"gorm.io/gorm"
)

// WeeklyArchiveDispatchedOrders moves dispatched orders older than the horizon
// into the archived status and reports how many rows were swept
func WeeklyArchiveDispatchedOrders(db *gorm.DB, archiveAfterDays int) (int64, error) {
	if archiveAfterDays <= 0 {
		archiveAfterDays = 60
	}
	now := time.Now()
	cutoff := now.AddDate(0, 0, -archiveAfterDays)

	result := db.Model(&models.Order{}).
		Where("status = ? AND issued_at < ?", models.StatusDispatched, cutoff).
		Updates(map[string]interface{}{
			"status":      models.StatusArchived,
			"archived_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to archive dispatched orders: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		GetAuditLogger().Record(0, "order_archive",
			fmt.Sprintf("archived %d dispatched orders older than %d days", result.RowsAffected, archiveAfterDays), "")
	}
	return result.RowsAffected, nil
}

// Scheduler runs the maintenance jobs on real timers instead of piggybacking
// on incoming requests. Both jobs are idempotent, so firing them again after
// a restart is harmless.
type Scheduler struct {
	db               *gorm.DB
	archiveAfterDays int
	stop             chan struct{}
}

// NewScheduler creates a maintenance scheduler
func NewScheduler(db *gorm.DB, archiveAfterDays int) *Scheduler {
	return &Scheduler{
		db:               db,
		archiveAfterDays: archiveAfterDays,
		stop:             make(chan struct{}),
	}
}

// Start launches the daily snapshot and weekly archive loops in the
// background. The snapshot runs immediately on startup; its per-day
// idempotency guard makes that safe.
func (s *Scheduler) Start() {
	go s.runDaily()
	go s.runWeekly()
	log.Println("Maintenance scheduler started (daily snapshot, weekly archive)")
}

// Stop halts both loops
func (s *Scheduler) Stop() {
	close(s.stop)
}

func (s *Scheduler) runDaily() {
	if err := DailyInventorySnapshot(s.db); err != nil {
		log.Printf("scheduler: inventory snapshot failed: %v", err)
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := DailyInventorySnapshot(s.db); err != nil {
				log.Printf("scheduler: inventory snapshot failed: %v", err)
			}
		case <-s.stop:
			return
		}
	}
}

func (s *Scheduler) runWeekly() {
	ticker := time.NewTicker(7 * 24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			count, err := WeeklyArchiveDispatchedOrders(s.db, s.archiveAfterDays)
			if err != nil {
				log.Printf("scheduler: archive sweep failed: %v", err)
				continue
			}
			log.Printf("scheduler: archive sweep moved %d orders", count)
		case <-s.stop:
			return
		}
	}
}
