package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/adelineb/nounou-app/internal/models"
	"github.com/adelineb/nounou-app/internal/pricing"
)

// DocumentService drives quote/invoice pricing: tariff lookup, line
// recomputation and totals, plus numbering and quote conversion.
type DocumentService struct{ DB *gorm.DB }

func NewDocumentService(db *gorm.DB) *DocumentService { return &DocumentService{DB: db} }

var ErrAlreadyConverted = errors.New("quote_already_converted")

// ActiveCatalog returns the active tariffs ordered by nom, the order the
// resolver uses to break ties.
func (s *DocumentService) ActiveCatalog() ([]models.Tariff, error) {
	var tariffs []models.Tariff
	if err := s.DB.Where("actif = ?", true).Order("nom").Find(&tariffs).Error; err != nil {
		return nil, err
	}
	return tariffs, nil
}

// PrepareLines derives every line total and the document amounts from
// client-submitted lines. Client-sent totals are discarded.
func (s *DocumentService) PrepareLines(lines models.Lignes, taxPercent float64) (models.Lignes, float64, float64, float64) {
	lines = pricing.RecomputeAll(lines)
	ht, tva, ttc := pricing.ComputeTotals(lines, taxPercent)
	return lines, ht, tva, ttc
}

// EditLine applies one field edit to a line, re-resolving the tariff on a
// date change. Used by the line-edit endpoint backing the document forms.
func (s *DocumentService) EditLine(line models.LineItem, trigger pricing.Trigger) (models.LineItem, error) {
	catalog, err := s.ActiveCatalog()
	if err != nil {
		return line, err
	}
	return pricing.RecomputeLine(line, trigger, catalog), nil
}

// NextNumber produces a yearly sequential document number, e.g. DEV-2026-0007.
func (s *DocumentService) NextNumber(prefix string, model any) (string, error) {
	return nextNumber(s.DB, prefix, model)
}

func nextNumber(db *gorm.DB, prefix string, model any) (string, error) {
	year := time.Now().Year()
	like := fmt.Sprintf("%s-%d-%%", prefix, year)
	var count int64
	if err := db.Model(model).Where("numero LIKE ?", like).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, count+1), nil
}

// ConvertQuote turns an accepted quote into a draft invoice carrying the
// same client, lines and tax. The quote is marked invoiced and linked to the
// new invoice; converting twice is refused.
func (s *DocumentService) ConvertQuote(quoteID uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var q models.Quote
		if err := tx.First(&q, quoteID).Error; err != nil {
			return err
		}
		if q.ConvertedToInvoiceID != nil {
			return ErrAlreadyConverted
		}
		numero, err := nextNumber(tx, "FAC", &models.Invoice{})
		if err != nil {
			return err
		}
		lines, ht, _, ttc := s.PrepareLines(q.Lignes, q.TVA)
		inv = models.Invoice{
			Numero:     numero,
			ClientID:   q.ClientID,
			QuoteID:    &q.ID,
			Statut:     models.InvoiceDraft,
			Lignes:     lines,
			TVA:        q.TVA,
			MontantHT:  ht,
			MontantTTC: ttc,
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		q.Statut = models.QuoteInvoiced
		q.ConvertedToInvoiceID = &inv.ID
		return tx.Save(&q).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
