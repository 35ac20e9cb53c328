package models

import "time"

// Mission statuses.
const (
	MissionPlanned   = "planifiee"
	MissionDone      = "terminee"
	MissionCancelled = "annulee"
)

// Mission is a scheduled or completed childcare booking.
// Date is "YYYY-MM-DD", HeureDebut/HeureFin are "HH:mm"; the wire keeps them
// as strings because that is the stored calendar format.
type Mission struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ClientID   uint      `gorm:"not null;index" json:"client_id"`
	Client     Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	SitterID   *uint     `gorm:"index" json:"sitter_id"` // nil tant qu'aucune nounou n'est affectée
	Sitter     *Sitter   `gorm:"foreignKey:SitterID" json:"sitter,omitempty"`
	Date       string    `gorm:"not null;index" json:"date"`
	HeureDebut string    `gorm:"not null" json:"heure_debut"`
	HeureFin   string    `gorm:"not null" json:"heure_fin"`
	Statut     string    `gorm:"not null;default:'planifiee'" json:"statut"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ValidMissionStatus reports whether s is a known mission status.
func ValidMissionStatus(s string) bool {
	return s == MissionPlanned || s == MissionDone || s == MissionCancelled
}
