package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/adelineb/nounou-app/auth"
	"github.com/adelineb/nounou-app/httpx"
	"github.com/adelineb/nounou-app/internal/models"
	"github.com/adelineb/nounou-app/internal/services"
	"github.com/adelineb/nounou-app/validation"
)

type ClientHandler struct{ DB *gorm.DB }

func NewClientHandler(db *gorm.DB) *ClientHandler { return &ClientHandler{DB: db} }

type clientReq struct {
	Nom        string `json:"nom"`
	Prenom     string `json:"prenom"`
	Email      string `json:"email"`
	Telephone  string `json:"telephone"`
	Adresse    string `json:"adresse"`
	CodePostal string `json:"code_postal"`
	Ville      string `json:"ville"`
	Notes      string `json:"notes"`
}

func (req *clientReq) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("nom", req.Nom, v)
	validation.Email("email", req.Email, v)
	return v
}

func (req *clientReq) apply(c *models.Client) {
	c.Nom = req.Nom
	c.Prenom = req.Prenom
	c.Email = req.Email
	c.Telephone = req.Telephone
	c.Adresse = req.Adresse
	c.CodePostal = req.CodePostal
	c.Ville = req.Ville
	c.Notes = req.Notes
}

var searchSanitizer = regexp.MustCompile(`[^a-zA-Z0-9àâäéèêëîïôöùûüç \-_@.]`)

// List: GET /clients, paginated; ?q= filters on nom/email.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	dbq := h.DB.Model(&models.Client{})
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		safe := searchSanitizer.ReplaceAllString(q, "")
		like := "%" + strings.ToLower(safe) + "%"
		dbq = dbq.Where("lower(nom) LIKE ? OR lower(email) LIKE ?", like, like)
	}
	var total int64
	dbq.Count(&total)
	var clients []models.Client
	if err := dbq.Order("nom, prenom").Limit(limit).Offset(offset).Find(&clients).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_clients", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": clients, "total": total, "limit": limit, "offset": offset})
}

// Create: POST /clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req clientReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var c models.Client
	req.apply(&c)
	if err := h.DB.Create(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_client", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Client", c.ID, "create")
	}
	httpx.JSON(w, http.StatusCreated, c)
}

// Update: POST /clients/update?id=...
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var c models.Client
	if err := h.DB.First(&c, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var req clientReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	req.apply(&c)
	if err := h.DB.Save(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_client", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Client", c.ID, "update")
	}
	httpx.JSON(w, http.StatusOK, c)
}

// Delete: POST /clients/delete?id=..., refused while missions or documents
// still reference the family.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var refs int64
	h.DB.Model(&models.Mission{}).Where("client_id = ?", id).Count(&refs)
	if refs == 0 {
		h.DB.Model(&models.Invoice{}).Where("client_id = ?", id).Count(&refs)
	}
	if refs == 0 {
		h.DB.Model(&models.Quote{}).Where("client_id = ?", id).Count(&refs)
	}
	if refs > 0 {
		httpx.JSONError(w, http.StatusBadRequest, "client_in_use", nil)
		return
	}
	res := h.DB.Delete(&models.Client{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_client", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Client", uint(id), "delete")
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
