package services

import (
	"gorm.io/gorm"

	"github.com/adelineb/nounou-app/internal/models"
	"github.com/adelineb/nounou-app/internal/planning"
)

// PayoutService produces the per-sitter payout report for a period.
type PayoutService struct{ DB *gorm.DB }

func NewPayoutService(db *gorm.DB) *PayoutService { return &PayoutService{DB: db} }

// Report sums payouts for completed missions with date in [from, to]
// (inclusive, "YYYY-MM-DD" strings).
func (s *PayoutService) Report(from, to string) (planning.Report, error) {
	var missions []models.Mission
	err := s.DB.Preload("Sitter").
		Where("statut = ? AND date >= ? AND date <= ?", models.MissionDone, from, to).
		Order("date, heure_debut").
		Find(&missions).Error
	if err != nil {
		return planning.Report{}, err
	}
	return planning.BuildReport(missions), nil
}
