package services

import (
	"log"

	"github.com/acroscarlos/suite-erp-api/models"
	"gorm.io/gorm"
)

// AuditLogger records append-only security and operations events. Recording is
// best-effort: implementations must never return an error to the caller or
// block the primary operation.
type AuditLogger interface {
	Record(actorID uint, action, detail, ip string)
}

var auditLoggerInstance AuditLogger

// InitAuditLogger initializes the audit logger with a database backend
func InitAuditLogger(db *gorm.DB) AuditLogger {
	auditLoggerInstance = &DBAuditLogger{db: db}
	return auditLoggerInstance
}

// GetAuditLogger returns the audit logger, falling back to a no-op when none
// is configured so core code can call it unconditionally
func GetAuditLogger() AuditLogger {
	if auditLoggerInstance == nil {
		return noopAuditLogger{}
	}
	return auditLoggerInstance
}

// SetAuditLogger sets the audit logger instance (primarily for testing)
func SetAuditLogger(l AuditLogger) {
	auditLoggerInstance = l
}

// DBAuditLogger persists audit events to the audit_logs table
type DBAuditLogger struct {
	db *gorm.DB
}

// Record inserts one audit row. Failures are logged and swallowed.
func (l *DBAuditLogger) Record(actorID uint, action, detail, ip string) {
	entry := models.AuditLog{ActorID: actorID, Action: action, Detail: detail, IP: ip}
	if err := l.db.Create(&entry).Error; err != nil {
		log.Printf("audit: failed to record %q: %v", action, err)
	}
}

type noopAuditLogger struct{}

func (noopAuditLogger) Record(actorID uint, action, detail, ip string) {}
