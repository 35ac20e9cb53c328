package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/adelineb/nounou-app/internal/models"
)

// SettingsInput carries the agency setup/update form.
type SettingsInput struct {
	Nom         string
	SIRET       string
	Adresse     string
	CodePostal  string
	Ville       string
	Telephone   string
	Email       string
	TVADefaut   float64
	AgrementSAP bool
}

// SettingsService manages the single AgencySettings row.
type SettingsService struct{ DB *gorm.DB }

func NewSettingsService(db *gorm.DB) *SettingsService { return &SettingsService{DB: db} }

// Get returns the settings row if present, otherwise nil.
func (s *SettingsService) Get() (*models.AgencySettings, error) {
	var as models.AgencySettings
	if err := s.DB.First(&as).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &as, nil
}

// Save creates the row on first call and updates it afterwards.
func (s *SettingsService) Save(in SettingsInput) (*models.AgencySettings, error) {
	existing, err := s.Get()
	if err != nil {
		return nil, err
	}
	as := models.AgencySettings{
		Nom: in.Nom, SIRET: in.SIRET, Adresse: in.Adresse,
		CodePostal: in.CodePostal, Ville: in.Ville,
		Telephone: in.Telephone, Email: in.Email,
		TVADefaut: in.TVADefaut, AgrementSAP: in.AgrementSAP,
	}
	if existing != nil {
		as.ID = existing.ID
		as.CreatedAt = existing.CreatedAt
	}
	if err := s.DB.Save(&as).Error; err != nil {
		return nil, err
	}
	return &as, nil
}

// DefaultTVA returns the configured default VAT percent, or 20 when the
// agency is not configured yet.
func (s *SettingsService) DefaultTVA() float64 {
	as, err := s.Get()
	if err != nil || as == nil {
		return 20
	}
	return as.TVADefaut
}
