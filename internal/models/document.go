package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// LineItem is one billable row of a quote or invoice. Key names are the
// stable storage format shared with the dashboard front-end.
type LineItem struct {
	Date        string  `json:"date"`        // YYYY-MM-DD
	HeureDebut  string  `json:"heure_debut"` // HH:mm
	HeureFin    string  `json:"heure_fin"`   // HH:mm
	Description string  `json:"description"`
	PrixHoraire float64 `json:"prix_horaire"`
	Total       float64 `json:"total"` // dérivé, recalculé côté serveur
}

// Lignes stores an ordered list of line items as a JSON column.
type Lignes []LineItem

// Value implements driver.Valuer for gorm persistence.
func (l Lignes) Value() (driver.Value, error) {
	if l == nil {
		l = Lignes{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *Lignes) Scan(value any) error {
	if value == nil {
		*l = Lignes{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("lignes: unsupported column type")
	}
}

// Quote statuses.
const (
	QuoteDraft    = "draft"
	QuoteSent     = "sent"
	QuoteAccepted = "accepted"
	QuoteRejected = "rejected"
	QuoteInvoiced = "invoiced"
)

// Invoice statuses.
const (
	InvoiceDraft     = "draft"
	InvoiceSent      = "sent"
	InvoicePaid      = "paid"
	InvoiceCancelled = "cancelled"
)

// Quote (devis). MontantHT/MontantTTC are derived from Lignes and TVA and
// recomputed on every mutation; stored values are never authoritative.
type Quote struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Numero               string    `gorm:"uniqueIndex;not null" json:"numero"`
	ClientID             uint      `gorm:"not null;index" json:"client_id"`
	Client               Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Statut               string    `gorm:"not null;default:'draft'" json:"statut"`
	Lignes               Lignes    `gorm:"type:text" json:"lignes"`
	TVA                  float64   `json:"tva"` // pourcentage, ex: 20
	MontantHT            float64   `json:"montant_ht"`
	MontantTTC           float64   `json:"montant_ttc"`
	ConvertedToInvoiceID *uint     `json:"converted_to_invoice_id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Invoice (facture).
type Invoice struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Numero     string     `gorm:"uniqueIndex;not null" json:"numero"`
	ClientID   uint       `gorm:"not null;index" json:"client_id"`
	Client     Client     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	QuoteID    *uint      `gorm:"index" json:"quote_id"` // devis d'origine, le cas échéant
	Statut     string     `gorm:"not null;default:'draft'" json:"statut"`
	Lignes     Lignes     `gorm:"type:text" json:"lignes"`
	TVA        float64    `json:"tva"`
	MontantHT  float64    `json:"montant_ht"`
	MontantTTC float64    `json:"montant_ttc"`
	PaidAt     *time.Time `json:"paid_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ValidQuoteStatus reports whether s is a known quote status.
func ValidQuoteStatus(s string) bool {
	switch s {
	case QuoteDraft, QuoteSent, QuoteAccepted, QuoteRejected, QuoteInvoiced:
		return true
	}
	return false
}

// ValidInvoiceStatus reports whether s is a known invoice status.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceCancelled:
		return true
	}
	return false
}
