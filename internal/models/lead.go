package models

import "time"

// Lead statuses.
const (
	LeadNew       = "new"
	LeadContacted = "contacted"
	LeadConverted = "converted"
	LeadDiscarded = "discarded"
)

// Lead is a prospect captured through the public contact form.
type Lead struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"token"` // référence publique opaque
	Nom       string    `gorm:"not null" json:"nom"`
	Email     string    `gorm:"not null;index" json:"email"`
	Telephone string    `json:"telephone"`
	Message   string    `json:"message"`
	Statut    string    `gorm:"not null;default:'new'" json:"statut"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidLeadStatus reports whether s is a known lead status.
func ValidLeadStatus(s string) bool {
	switch s {
	case LeadNew, LeadContacted, LeadConverted, LeadDiscarded:
		return true
	}
	return false
}
