package models

import "time"

// Sitter is a nanny/babysitter employed or contracted by the agency.
type Sitter struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Nom         string    `gorm:"not null;index" json:"nom"`
	Prenom      string    `json:"prenom"`
	Email       string    `gorm:"index" json:"email"`
	Telephone   string    `json:"telephone"`
	PrixHoraire float64   `gorm:"not null;default:0" json:"prix_horaire"` // taux horaire versé à la nounou
	Actif       bool      `gorm:"not null" json:"actif"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
