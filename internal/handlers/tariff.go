package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/adelineb/nounou-app/auth"
	"github.com/adelineb/nounou-app/httpx"
	"github.com/adelineb/nounou-app/internal/models"
	"github.com/adelineb/nounou-app/internal/services"
	"github.com/adelineb/nounou-app/validation"
)

// TariffHandler manages the hourly-rate catalog feeding the quote/invoice
// auto-pricing.
type TariffHandler struct{ DB *gorm.DB }

func NewTariffHandler(db *gorm.DB) *TariffHandler { return &TariffHandler{DB: db} }

type tariffReq struct {
	Nom         string  `json:"nom"`
	PrixHoraire float64 `json:"prix_horaire"`
	TypeJour    string  `json:"type_jour"`
	Actif       *bool   `json:"actif"`
}

func (req *tariffReq) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("nom", req.Nom, v)
	validation.NonNegativeFloat("prix_horaire", req.PrixHoraire, v)
	if !models.ValidDayType(req.TypeJour) {
		v["type_jour"] = "invalid_day_type"
	}
	return v
}

// List: GET /tariffs, ordered by nom (the resolver's tie-break order).
// ?all=1 includes inactive tariffs for catalog management.
func (h *TariffHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.DB.Order("nom")
	if r.URL.Query().Get("all") != "1" {
		q = q.Where("actif = ?", true)
	}
	var tariffs []models.Tariff
	if err := q.Find(&tariffs).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_tariffs", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": tariffs, "total": len(tariffs)})
}

// Create: POST /tariffs
func (h *TariffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req tariffReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	tf := models.Tariff{Nom: req.Nom, PrixHoraire: req.PrixHoraire, TypeJour: req.TypeJour, Actif: true}
	if req.Actif != nil {
		tf.Actif = *req.Actif
	}
	if err := h.DB.Create(&tf).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_tariff", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Tariff", tf.ID, "create")
	}
	httpx.JSON(w, http.StatusCreated, tf)
}

// Update: POST /tariffs/update?id=...
func (h *TariffHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var tf models.Tariff
	if err := h.DB.First(&tf, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var req tariffReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	tf.Nom = req.Nom
	tf.PrixHoraire = req.PrixHoraire
	tf.TypeJour = req.TypeJour
	if req.Actif != nil {
		tf.Actif = *req.Actif
	}
	if err := h.DB.Save(&tf).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_tariff", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Tariff", tf.ID, "update")
	}
	httpx.JSON(w, http.StatusOK, tf)
}

// Delete: POST /tariffs/delete?id=... is a soft delete; existing document lines
// keep the rate they were priced at.
func (h *TariffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res := h.DB.Delete(&models.Tariff{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_tariff", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Tariff", uint(id), "delete")
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// idParam parses the id query parameter shared by update/delete endpoints.
func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return 0, false
	}
	return id, true
}
