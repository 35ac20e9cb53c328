package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/adelineb/nounou-app/auth"
	"github.com/adelineb/nounou-app/httpx"
	"github.com/adelineb/nounou-app/internal/models"
	"github.com/adelineb/nounou-app/internal/services"
	"github.com/adelineb/nounou-app/validation"
)

type SitterHandler struct{ DB *gorm.DB }

func NewSitterHandler(db *gorm.DB) *SitterHandler { return &SitterHandler{DB: db} }

type sitterReq struct {
	Nom         string  `json:"nom"`
	Prenom      string  `json:"prenom"`
	Email       string  `json:"email"`
	Telephone   string  `json:"telephone"`
	PrixHoraire float64 `json:"prix_horaire"`
	Actif       *bool   `json:"actif"`
}

func (req *sitterReq) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("nom", req.Nom, v)
	validation.Email("email", req.Email, v)
	validation.NonNegativeFloat("prix_horaire", req.PrixHoraire, v)
	return v
}

// List: GET /sitters; ?all=1 includes inactive sitters.
func (h *SitterHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.DB.Order("nom, prenom")
	if r.URL.Query().Get("all") != "1" {
		q = q.Where("actif = ?", true)
	}
	var sitters []models.Sitter
	if err := q.Find(&sitters).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_sitters", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": sitters, "total": len(sitters)})
}

// Create: POST /sitters
func (h *SitterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sitterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	s := models.Sitter{Nom: req.Nom, Prenom: req.Prenom, Email: req.Email, Telephone: req.Telephone, PrixHoraire: req.PrixHoraire, Actif: true}
	if req.Actif != nil {
		s.Actif = *req.Actif
	}
	if err := h.DB.Create(&s).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_sitter", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Sitter", s.ID, "create")
	}
	httpx.JSON(w, http.StatusCreated, s)
}

// Update: POST /sitters/update?id=...
func (h *SitterHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var s models.Sitter
	if err := h.DB.First(&s, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var req sitterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	s.Nom = req.Nom
	s.Prenom = req.Prenom
	s.Email = req.Email
	s.Telephone = req.Telephone
	s.PrixHoraire = req.PrixHoraire
	if req.Actif != nil {
		s.Actif = *req.Actif
	}
	if err := h.DB.Save(&s).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_sitter", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Sitter", s.ID, "update")
	}
	httpx.JSON(w, http.StatusOK, s)
}

// Delete: POST /sitters/delete?id=..., refused while missions reference
// the sitter; deactivate instead to keep the payout history intact.
func (h *SitterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var refs int64
	h.DB.Model(&models.Mission{}).Where("sitter_id = ?", id).Count(&refs)
	if refs > 0 {
		httpx.JSONError(w, http.StatusBadRequest, "sitter_in_use", nil)
		return
	}
	res := h.DB.Delete(&models.Sitter{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_sitter", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Sitter", uint(id), "delete")
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
