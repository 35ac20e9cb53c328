package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adelineb/nounou-app/internal/models"
	"github.com/adelineb/nounou-app/internal/pricing"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Tariff{}, &models.Client{}, &models.Quote{}, &models.Invoice{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestPrepareLinesDerivesTotals(t *testing.T) {
	svc := NewDocumentService(setupServiceTestDB(t))
	lines := models.Lignes{
		{Date: "2024-06-17", HeureDebut: "09:00", HeureFin: "17:00", PrixHoraire: 12.5, Total: 1},
		{Date: "2024-06-18", HeureDebut: "14:00", HeureFin: "18:00", PrixHoraire: 12.5, Total: 2},
	}
	got, ht, tva, ttc := svc.PrepareLines(lines, 20)
	if got[0].Total != 100 || got[1].Total != 50 {
		t.Fatalf("line totals: %v %v", got[0].Total, got[1].Total)
	}
	if ht != 150 || tva != 30 || ttc != 180 {
		t.Fatalf("totals: ht=%v tva=%v ttc=%v", ht, tva, ttc)
	}
}

func TestEditLineResolvesTariffFromDB(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewDocumentService(db)
	tariffs := []models.Tariff{
		{Nom: "Heure standard", PrixHoraire: 10, TypeJour: models.DayTypeAny, Actif: true},
		{Nom: "Heure week-end", PrixHoraire: 15, TypeJour: models.DayTypeWeekend, Actif: true},
		{Nom: "Ancien tarif", PrixHoraire: 99, TypeJour: models.DayTypeWeekend, Actif: false},
	}
	if err := db.Create(&tariffs).Error; err != nil {
		t.Fatalf("seed tariffs: %v", err)
	}

	// Saturday: the active weekend tariff wins, not the inactive one.
	line := models.LineItem{Date: "2024-06-15", HeureDebut: "10:00", HeureFin: "12:00", PrixHoraire: 8}
	got, err := svc.EditLine(line, pricing.TriggerDate)
	if err != nil {
		t.Fatalf("edit line: %v", err)
	}
	if got.Description != "Heure week-end" || got.PrixHoraire != 15 || got.Total != 30 {
		t.Fatalf("unexpected line: %+v", got)
	}
}

func TestNextNumberIncrementsPerYear(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewDocumentService(db)
	year := time.Now().Year()

	n, err := svc.NextNumber("DEV", &models.Quote{})
	if err != nil {
		t.Fatalf("next number: %v", err)
	}
	want := fmt.Sprintf("DEV-%d-0001", year)
	if n != want {
		t.Fatalf("expected %s got %s", want, n)
	}

	if err := db.Create(&models.Quote{Numero: n, ClientID: 1, Statut: models.QuoteDraft}).Error; err != nil {
		t.Fatalf("create quote: %v", err)
	}
	n2, err := svc.NextNumber("DEV", &models.Quote{})
	if err != nil {
		t.Fatalf("next number: %v", err)
	}
	if !strings.HasSuffix(n2, "-0002") {
		t.Fatalf("expected -0002 suffix got %s", n2)
	}
}

func TestConvertQuoteNumbersStaySequential(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewDocumentService(db)
	client := models.Client{Nom: "Famille Durand"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	quotes := []models.Quote{
		{Numero: "DEV-2024-0001", ClientID: client.ID, Statut: models.QuoteAccepted, TVA: 20,
			Lignes: models.Lignes{{Date: "2024-06-17", HeureDebut: "09:00", HeureFin: "12:00", PrixHoraire: 12}}},
		{Numero: "DEV-2024-0002", ClientID: client.ID, Statut: models.QuoteAccepted, TVA: 20,
			Lignes: models.Lignes{{Date: "2024-06-18", HeureDebut: "09:00", HeureFin: "12:00", PrixHoraire: 12}}},
	}
	if err := db.Create(&quotes).Error; err != nil {
		t.Fatalf("quotes: %v", err)
	}

	first, err := svc.ConvertQuote(quotes[0].ID)
	if err != nil {
		t.Fatalf("convert first: %v", err)
	}
	second, err := svc.ConvertQuote(quotes[1].ID)
	if err != nil {
		t.Fatalf("convert second: %v", err)
	}
	year := time.Now().Year()
	if want := fmt.Sprintf("FAC-%d-0001", year); first.Numero != want {
		t.Fatalf("expected %s got %s", want, first.Numero)
	}
	if want := fmt.Sprintf("FAC-%d-0002", year); second.Numero != want {
		t.Fatalf("expected %s got %s", want, second.Numero)
	}
}

func TestConvertQuote(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewDocumentService(db)
	client := models.Client{Nom: "Famille Petit"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	q := models.Quote{
		Numero:   "DEV-2024-0001",
		ClientID: client.ID,
		Statut:   models.QuoteAccepted,
		TVA:      20,
		Lignes: models.Lignes{
			{Date: "2024-06-17", HeureDebut: "09:00", HeureFin: "12:00", Description: "Garde", PrixHoraire: 12},
		},
	}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("quote: %v", err)
	}

	inv, err := svc.ConvertQuote(q.ID)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if inv.ClientID != client.ID || inv.QuoteID == nil || *inv.QuoteID != q.ID {
		t.Fatalf("unexpected invoice: %+v", inv)
	}
	if inv.MontantHT != 36 || inv.MontantTTC != 43.2 {
		t.Fatalf("totals: ht=%v ttc=%v", inv.MontantHT, inv.MontantTTC)
	}

	var reloaded models.Quote
	if err := db.First(&reloaded, q.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Statut != models.QuoteInvoiced || reloaded.ConvertedToInvoiceID == nil {
		t.Fatalf("quote not marked converted: %+v", reloaded)
	}

	// Second conversion is refused.
	if _, err := svc.ConvertQuote(q.ID); err != ErrAlreadyConverted {
		t.Fatalf("expected ErrAlreadyConverted, got %v", err)
	}
}
