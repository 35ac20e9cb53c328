package models

import "time"

// AgencySettings is the single-row configuration of the agency: identity,
// contact coordinates, and the default VAT percent applied to new documents.
type AgencySettings struct {
	ID              uint    `gorm:"primaryKey"`
	Nom             string  `gorm:"not null"`
	SIRET           string  `gorm:"size:14"`
	Adresse         string
	CodePostal      string
	Ville           string
	Telephone       string
	Email           string
	TVADefaut       float64 `gorm:"default:20"` // pourcentage
	AgrementSAP     bool    // agrément Services à la Personne
	MentionsLegales string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
