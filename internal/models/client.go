package models

import "time"

// Client is a family the agency works for.
type Client struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Nom        string    `gorm:"not null;index" json:"nom"`
	Prenom     string    `json:"prenom"`
	Email      string    `gorm:"index" json:"email"`
	Telephone  string    `json:"telephone"`
	Adresse    string    `json:"adresse"`
	CodePostal string    `json:"code_postal"`
	Ville      string    `json:"ville"`
	Notes      string    `json:"notes"` // enfants, consignes, etc.
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
