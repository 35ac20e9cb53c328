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
	"github.com/adelineb/nounou-app/internal/planning"
)

func setupMissionTestDB(t *testing.T) (*gorm.DB, models.Client) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Client{}, &models.Sitter{}, &models.Mission{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	client := models.Client{Nom: "Durand", Email: "durand@example.com"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return db, client
}

func TestMissionCreateValidation(t *testing.T) {
	db, client := setupMissionTestDB(t)
	h := NewMissionHandler(db)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"bad time", fmt.Sprintf(`{"client_id":%d,"date":"2026-03-02","heure_debut":"25:00","heure_fin":"12:00"}`, client.ID), "validation_failed"},
		{"bad date", fmt.Sprintf(`{"client_id":%d,"date":"02/03/2026","heure_debut":"09:00","heure_fin":"12:00"}`, client.ID), "validation_failed"},
		{"unknown client", `{"client_id":999,"date":"2026-03-02","heure_debut":"09:00","heure_fin":"12:00"}`, "invalid_client"},
		{"unknown sitter", fmt.Sprintf(`{"client_id":%d,"sitter_id":999,"date":"2026-03-02","heure_debut":"09:00","heure_fin":"12:00"}`, client.ID), "invalid_sitter"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Create(w, httptest.NewRequest(http.MethodPost, "/missions", strings.NewReader(tc.body)))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", w.Code)
			}
			var resp struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Error != tc.want {
				t.Fatalf("expected %q got %q", tc.want, resp.Error)
			}
		})
	}
}

func TestMissionListRange(t *testing.T) {
	db, client := setupMissionTestDB(t)
	h := NewMissionHandler(db)
	for _, date := range []string{"2026-03-01", "2026-03-05", "2026-03-10"} {
		m := models.Mission{ClientID: client.ID, Date: date, HeureDebut: "09:00", HeureFin: "12:00", Statut: models.MissionPlanned}
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/missions?from=2026-03-02&to=2026-03-09", nil))
	var resp struct {
		Items []models.Mission `json:"items"`
		Total int              `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Items[0].Date != "2026-03-05" {
		t.Fatalf("unexpected range result: %#v", resp)
	}
}

func TestMissionCalendarColorBands(t *testing.T) {
	db, client := setupMissionTestDB(t)
	h := NewMissionHandler(db)

	// Three missions on one day: B overlaps A, C overlaps B. Expect the
	// alternation false, true, false. A cancelled mission in the middle of
	// the day must not appear at all.
	seed := []models.Mission{
		{ClientID: client.ID, Date: "2026-03-02", HeureDebut: "09:00", HeureFin: "12:00", Statut: models.MissionPlanned},
		{ClientID: client.ID, Date: "2026-03-02", HeureDebut: "10:00", HeureFin: "13:00", Statut: models.MissionPlanned},
		{ClientID: client.ID, Date: "2026-03-02", HeureDebut: "11:00", HeureFin: "14:00", Statut: models.MissionPlanned},
		{ClientID: client.ID, Date: "2026-03-02", HeureDebut: "11:30", HeureFin: "15:00", Statut: models.MissionCancelled},
		{ClientID: client.ID, Date: "2026-03-03", HeureDebut: "09:00", HeureFin: "10:00", Statut: models.MissionPlanned},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	w := httptest.NewRecorder()
	h.Calendar(w, httptest.NewRequest(http.MethodGet, "/calendar", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var resp struct {
		Days []planning.Day `json:"days"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Days) != 2 {
		t.Fatalf("expected 2 days got %d", len(resp.Days))
	}
	first := resp.Days[0]
	if first.Date != "2026-03-02" || len(first.Entries) != 3 {
		t.Fatalf("unexpected first day: %#v", first)
	}
	want := []bool{false, true, false}
	for i, e := range first.Entries {
		if e.ColorAlt != want[i] {
			t.Fatalf("entry %d: expected color_alt=%v got %v", i, want[i], e.ColorAlt)
		}
	}
	if resp.Days[1].Entries[0].ColorAlt {
		t.Fatalf("next day must restart on the primary band")
	}
}

func TestMissionUpdateAndDelete(t *testing.T) {
	db, client := setupMissionTestDB(t)
	h := NewMissionHandler(db)
	m := models.Mission{ClientID: client.ID, Date: "2026-03-02", HeureDebut: "09:00", HeureFin: "12:00", Statut: models.MissionPlanned}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	body := fmt.Sprintf(`{"client_id":%d,"date":"2026-03-02","heure_debut":"09:00","heure_fin":"12:00","statut":"terminee"}`, client.ID)
	w := httptest.NewRecorder()
	h.Update(w, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/missions/update?id=%d", m.ID), strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var reloaded models.Mission
	if err := db.First(&reloaded, m.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Statut != models.MissionDone {
		t.Fatalf("expected terminee got %s", reloaded.Statut)
	}

	delW := httptest.NewRecorder()
	h.Delete(delW, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/missions/delete?id=%d", m.ID), nil))
	if delW.Code != http.StatusOK {
		t.Fatalf("delete: expected 200 got %d", delW.Code)
	}
	var count int64
	db.Model(&models.Mission{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no missions, got %d", count)
	}
}
