package models

import "time"

// Audit logging
type AuditLog struct {
	ID         uint   `gorm:"primaryKey"`
	EntityType string // "Budget", "Settings"
	EntityID   uint
	Action     string // "save", "status:APPROVED", "delete", ...
	CreatedAt  time.Time
}
