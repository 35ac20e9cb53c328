package models

import "time"

// AuditLog records who changed what from the admin dashboard. Rows are
// written best-effort; a failed audit insert never fails the request.
type AuditLog struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"index"`
	EntityType string // "Tariff", "Mission", "Invoice", ...
	EntityID   uint   `gorm:"index"`
	Action     string // "create", "update", "delete"
	Field      string // optionnel
	OldValue   string // optionnel
	NewValue   string // optionnel
	CreatedAt  time.Time
}
