package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/adelineb/nounou-app/auth"
	"github.com/adelineb/nounou-app/httpx"
	"github.com/adelineb/nounou-app/internal/models"
	"github.com/adelineb/nounou-app/internal/planning"
	"github.com/adelineb/nounou-app/internal/services"
	"github.com/adelineb/nounou-app/validation"
)

type MissionHandler struct{ DB *gorm.DB }

func NewMissionHandler(db *gorm.DB) *MissionHandler { return &MissionHandler{DB: db} }

type missionReq struct {
	ClientID   uint   `json:"client_id"`
	SitterID   *uint  `json:"sitter_id"`
	Date       string `json:"date"`
	HeureDebut string `json:"heure_debut"`
	HeureFin   string `json:"heure_fin"`
	Statut     string `json:"statut"`
	Notes      string `json:"notes"`
}

func (req *missionReq) validate() validation.Violations {
	v := validation.Violations{}
	if req.ClientID == 0 {
		v["client_id"] = "required"
	}
	validation.Required("date", req.Date, v)
	validation.Date("date", req.Date, v)
	validation.Required("heure_debut", req.HeureDebut, v)
	validation.ClockTime("heure_debut", req.HeureDebut, v)
	validation.Required("heure_fin", req.HeureFin, v)
	validation.ClockTime("heure_fin", req.HeureFin, v)
	if req.Statut != "" && !models.ValidMissionStatus(req.Statut) {
		v["statut"] = "invalid_status"
	}
	return v
}

// checkRefs verifies the client and, when set, the sitter exist.
func (h *MissionHandler) checkRefs(req *missionReq) (string, bool) {
	var count int64
	h.DB.Model(&models.Client{}).Where("id = ?", req.ClientID).Count(&count)
	if count == 0 {
		return "invalid_client", false
	}
	if req.SitterID != nil {
		h.DB.Model(&models.Sitter{}).Where("id = ?", *req.SitterID).Count(&count)
		if count == 0 {
			return "invalid_sitter", false
		}
	}
	return "", true
}

// missionRange applies the from/to date filter shared by the list, calendar
// and payout views.
func missionRange(dbq *gorm.DB, r *http.Request) *gorm.DB {
	if from := r.URL.Query().Get("from"); from != "" {
		dbq = dbq.Where("date >= ?", from)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		dbq = dbq.Where("date <= ?", to)
	}
	return dbq
}

// List: GET /missions?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *MissionHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := missionRange(h.DB.Preload("Client").Preload("Sitter"), r)
	var missions []models.Mission
	if err := dbq.Order("date, heure_debut").Find(&missions).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_missions", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": missions, "total": len(missions)})
}

// Calendar: GET /calendar?from=...&to=... returns missions grouped per day with
// alternating color bands on overlapping entries.
func (h *MissionHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	dbq := missionRange(h.DB.Preload("Client").Preload("Sitter"), r)
	dbq = dbq.Where("statut <> ?", models.MissionCancelled)
	var missions []models.Mission
	if err := dbq.Order("date, heure_debut").Find(&missions).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_calendar", nil)
		return
	}
	days := planning.GroupByDay(planning.AssignColorBands(missions))
	if days == nil {
		days = []planning.Day{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"days": days})
}

// Create: POST /missions
func (h *MissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req missionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if msg, ok := h.checkRefs(&req); !ok {
		httpx.JSONError(w, http.StatusBadRequest, msg, nil)
		return
	}
	m := models.Mission{
		ClientID: req.ClientID, SitterID: req.SitterID,
		Date: req.Date, HeureDebut: req.HeureDebut, HeureFin: req.HeureFin,
		Statut: models.MissionPlanned, Notes: req.Notes,
	}
	if req.Statut != "" {
		m.Statut = req.Statut
	}
	if err := h.DB.Create(&m).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_mission", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Mission", m.ID, "create")
	}
	httpx.JSON(w, http.StatusCreated, m)
}

// Update: POST /missions/update?id=...
func (h *MissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var m models.Mission
	if err := h.DB.First(&m, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var req missionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if msg, ok := h.checkRefs(&req); !ok {
		httpx.JSONError(w, http.StatusBadRequest, msg, nil)
		return
	}
	m.ClientID = req.ClientID
	m.SitterID = req.SitterID
	m.Date = req.Date
	m.HeureDebut = req.HeureDebut
	m.HeureFin = req.HeureFin
	if req.Statut != "" {
		m.Statut = req.Statut
	}
	m.Notes = req.Notes
	if err := h.DB.Save(&m).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_mission", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Mission", m.ID, "update")
	}
	httpx.JSON(w, http.StatusOK, m)
}

// Delete: POST /missions/delete?id=...
func (h *MissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res := h.DB.Delete(&models.Mission{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_mission", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Mission", uint(id), "delete")
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
