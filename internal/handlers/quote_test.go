package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adelineb/nounou-app/internal/models"
	"github.com/adelineb/nounou-app/internal/services"
)

func setupQuoteTest(t *testing.T) (*gorm.DB, *QuoteHandler, *InvoiceHandler, models.Client) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	models2 := []any{&models.Client{}, &models.Tariff{}, &models.Quote{}, &models.Invoice{}, &models.AgencySettings{}}
	if err := db.AutoMigrate(models2...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	client := models.Client{Nom: "Durand", Email: "durand@example.com"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	svc := services.NewDocumentService(db)
	settings := services.NewSettingsService(db)
	return db, NewQuoteHandler(db, svc, settings), NewInvoiceHandler(db, svc, settings), client
}

func TestQuoteCreateDerivesTotals(t *testing.T) {
	_, qh, _, client := setupQuoteTest(t)

	// Client-sent total and amounts are lies; the server must recompute.
	body := fmt.Sprintf(`{
		"client_id": %d,
		"tva": 20,
		"lignes": [
			{"date":"2026-03-02","heure_debut":"09:00","heure_fin":"12:00","description":"Heure semaine","prix_horaire":12,"total":9999},
			{"date":"2026-03-07","heure_debut":"20:00","heure_fin":"23:30","description":"Heure week-end","prix_horaire":15,"total":-5}
		]
	}`, client.ID)
	w := httptest.NewRecorder()
	qh.Create(w, httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var q models.Quote
	if err := json.Unmarshal(w.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if q.Numero == "" || !strings.HasPrefix(q.Numero, "DEV-") {
		t.Fatalf("unexpected numero %q", q.Numero)
	}
	if q.Lignes[0].Total != 36 || q.Lignes[1].Total != 52.5 {
		t.Fatalf("line totals not derived: %v / %v", q.Lignes[0].Total, q.Lignes[1].Total)
	}
	if q.MontantHT != 88.5 || q.MontantTTC != 106.2 {
		t.Fatalf("unexpected amounts ht=%v ttc=%v", q.MontantHT, q.MontantTTC)
	}
}

func TestQuoteUpdateOnlyDrafts(t *testing.T) {
	db, qh, _, client := setupQuoteTest(t)
	q := models.Quote{Numero: "DEV-2026-0001", ClientID: client.ID, Statut: models.QuoteSent, TVA: 20}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	body := fmt.Sprintf(`{"client_id":%d,"lignes":[]}`, client.ID)
	w := httptest.NewRecorder()
	qh.Update(w, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/quotes/update?id=%d", q.ID), strings.NewReader(body)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on non-draft got %d", w.Code)
	}
}

func TestQuoteStatusCannotReachInvoiced(t *testing.T) {
	db, qh, _, client := setupQuoteTest(t)
	q := models.Quote{Numero: "DEV-2026-0001", ClientID: client.ID, Statut: models.QuoteDraft, TVA: 20}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := httptest.NewRecorder()
	qh.Status(w, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/quotes/status?id=%d&statut=invoiced", q.ID), nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invoiced must only come from conversion, got %d", w.Code)
	}

	okW := httptest.NewRecorder()
	qh.Status(okW, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/quotes/status?id=%d&statut=accepted", q.ID), nil))
	if okW.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", okW.Code)
	}
}

func TestQuoteConvertFlow(t *testing.T) {
	db, qh, _, client := setupQuoteTest(t)
	q := models.Quote{
		Numero: "DEV-2026-0001", ClientID: client.ID, Statut: models.QuoteAccepted, TVA: 20,
		Lignes: models.Lignes{
			{Date: "2026-03-02", HeureDebut: "09:00", HeureFin: "12:00", Description: "Heure semaine", PrixHoraire: 12},
		},
	}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := httptest.NewRecorder()
	qh.Convert(w, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/quotes/convert?id=%d", q.ID), nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var inv models.Invoice
	if err := json.Unmarshal(w.Body.Bytes(), &inv); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(inv.Numero, "FAC-") || inv.QuoteID == nil || *inv.QuoteID != q.ID {
		t.Fatalf("unexpected invoice: %#v", inv)
	}
	if inv.MontantHT != 36 || inv.MontantTTC != 43.2 {
		t.Fatalf("unexpected amounts ht=%v ttc=%v", inv.MontantHT, inv.MontantTTC)
	}

	var reloaded models.Quote
	if err := db.First(&reloaded, q.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Statut != models.QuoteInvoiced || reloaded.ConvertedToInvoiceID == nil {
		t.Fatalf("quote not marked invoiced: %#v", reloaded)
	}

	againW := httptest.NewRecorder()
	qh.Convert(againW, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/quotes/convert?id=%d", q.ID), nil))
	if againW.Code != http.StatusBadRequest {
		t.Fatalf("double convert: expected 400 got %d", againW.Code)
	}
}

func TestInvoiceStatusPaidSetsPaidAt(t *testing.T) {
	db, _, ih, client := setupQuoteTest(t)
	inv := models.Invoice{Numero: "FAC-2026-0001", ClientID: client.ID, Statut: models.InvoiceSent, TVA: 20}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := httptest.NewRecorder()
	ih.Status(w, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/invoices/status?id=%d&statut=paid", inv.ID), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var reloaded models.Invoice
	if err := db.First(&reloaded, inv.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Statut != models.InvoicePaid || reloaded.PaidAt == nil {
		t.Fatalf("expected paid with timestamp: %#v", reloaded)
	}
}
