package models

import (
	"time"

	"gorm.io/gorm"
)

// Day-type applicability of a tariff.
const (
	DayTypeWeekday = "weekday"
	DayTypeWeekend = "weekend"
	DayTypeAny     = "any"
)

// Tariff is a named hourly rate from the agency catalog.
type Tariff struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Nom         string         `gorm:"not null;index" json:"nom"`
	PrixHoraire float64        `gorm:"not null" json:"prix_horaire"`
	TypeJour    string         `gorm:"not null;default:'any'" json:"type_jour"` // weekday, weekend, any
	Actif       bool           `gorm:"not null" json:"actif"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ValidDayType reports whether s is one of the known day types.
func ValidDayType(s string) bool {
	return s == DayTypeWeekday || s == DayTypeWeekend || s == DayTypeAny
}
