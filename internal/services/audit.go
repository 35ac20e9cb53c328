package services

import (
	"gorm.io/gorm"

	"github.com/adelineb/nounou-app/internal/models"
)

// Audit records an admin mutation. Failures are swallowed: audit rows are
// diagnostics, not part of the request outcome.
func Audit(db *gorm.DB, userID uint, entityType string, entityID uint, action string) {
	_ = db.Create(&models.AuditLog{
		UserID:     userID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
	}).Error
}
