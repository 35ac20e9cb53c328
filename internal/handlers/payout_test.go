package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adelineb/nounou-app/internal/models"
	"github.com/adelineb/nounou-app/internal/planning"
	"github.com/adelineb/nounou-app/internal/services"
)

func setupPayoutTest(t *testing.T) (*gorm.DB, *PayoutHandler) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Client{}, &models.Sitter{}, &models.Mission{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db, NewPayoutHandler(services.NewPayoutService(db))
}

func TestPayoutReportValidation(t *testing.T) {
	_, h := setupPayoutTest(t)

	w := httptest.NewRecorder()
	h.Report(w, httptest.NewRequest(http.MethodGet, "/payouts?from=2026-03-01", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing to: expected 400 got %d", w.Code)
	}

	w2 := httptest.NewRecorder()
	h.Report(w2, httptest.NewRequest(http.MethodGet, "/payouts?from=01/03/2026&to=2026-03-31", nil))
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("bad date: expected 400 got %d", w2.Code)
	}
}

func TestPayoutReportEmptyPeriod(t *testing.T) {
	_, h := setupPayoutTest(t)

	w := httptest.NewRecorder()
	h.Report(w, httptest.NewRequest(http.MethodGet, "/payouts?from=2026-03-01&to=2026-03-31", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	// Empty period still returns rows as [], not null.
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(resp["rows"]) != "[]" {
		t.Fatalf("expected empty rows array, got %s", resp["rows"])
	}
}

func TestPayoutReport(t *testing.T) {
	db, h := setupPayoutTest(t)
	client := models.Client{Nom: "Durand"}
	sitter := models.Sitter{Nom: "Martin", Prenom: "Anna", PrixHoraire: 12, Actif: true}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	if err := db.Create(&sitter).Error; err != nil {
		t.Fatalf("seed sitter: %v", err)
	}
	missions := []models.Mission{
		// 2h50 billed as 3h, 2h billed as 2h: 5h * 12 = 60.
		{ClientID: client.ID, SitterID: &sitter.ID, Date: "2026-03-02", HeureDebut: "09:00", HeureFin: "11:50", Statut: models.MissionDone},
		{ClientID: client.ID, SitterID: &sitter.ID, Date: "2026-03-03", HeureDebut: "14:00", HeureFin: "16:00", Statut: models.MissionDone},
		// Planned missions and missions outside the range don't count.
		{ClientID: client.ID, SitterID: &sitter.ID, Date: "2026-03-04", HeureDebut: "09:00", HeureFin: "12:00", Statut: models.MissionPlanned},
		{ClientID: client.ID, SitterID: &sitter.ID, Date: "2026-04-01", HeureDebut: "09:00", HeureFin: "12:00", Statut: models.MissionDone},
		// Unassigned missions are skipped.
		{ClientID: client.ID, Date: "2026-03-05", HeureDebut: "09:00", HeureFin: "12:00", Statut: models.MissionDone},
	}
	for i := range missions {
		if err := db.Create(&missions[i]).Error; err != nil {
			t.Fatalf("seed mission: %v", err)
		}
	}

	w := httptest.NewRecorder()
	h.Report(w, httptest.NewRequest(http.MethodGet, "/payouts?from=2026-03-01&to=2026-03-31", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Rows  []planning.ReportRow `json:"rows"`
		Total float64              `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Rows) != 1 {
		t.Fatalf("expected 1 row got %d", len(resp.Rows))
	}
	row := resp.Rows[0]
	if row.SitterID != sitter.ID || row.Missions != 2 || row.Heures != 5 || row.Montant != 60 {
		t.Fatalf("unexpected row: %#v", row)
	}
	if resp.Total != 60 {
		t.Fatalf("expected total 60 got %v", resp.Total)
	}
}
