package handlers

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adelineb/nounou-app/httpx"
	"github.com/adelineb/nounou-app/internal/middleware"
	"github.com/adelineb/nounou-app/internal/models"
	"github.com/adelineb/nounou-app/internal/ratelimit"
	"github.com/adelineb/nounou-app/validation"
)

// LeadHandler serves the public contact form and the admin lead list. The
// submit endpoint is the only unauthenticated write in the app, hence the
// injected rate limiter.
type LeadHandler struct {
	DB      *gorm.DB
	Limiter *ratelimit.Limiter
}

func NewLeadHandler(db *gorm.DB, limiter *ratelimit.Limiter) *LeadHandler {
	return &LeadHandler{DB: db, Limiter: limiter}
}

// clientIP prefers X-Forwarded-For (first hop) since the app usually sits
// behind a reverse proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.Index(fwd, ","); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Submit: POST /contact. Public, form-encoded, rate limited per IP.
func (h *LeadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.MethodNotAllowed(w, "POST")
		return
	}
	if !h.Limiter.Allow(r.Context(), "lead:"+clientIP(r)) {
		httpx.JSONError(w, http.StatusTooManyRequests, "too_many_requests", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	nom := strings.TrimSpace(r.FormValue("nom"))
	email := strings.TrimSpace(r.FormValue("email"))
	telephone := strings.TrimSpace(r.FormValue("telephone"))
	message := strings.TrimSpace(r.FormValue("message"))
	// Honeypot field: bots fill it, humans never see it.
	if r.FormValue("website") != "" {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "received"})
		return
	}
	v := validation.Violations{}
	validation.Required("nom", nom, v)
	validation.Required("email", email, v)
	validation.Email("email", email, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	lead := models.Lead{
		Token: uuid.NewString(), Nom: nom, Email: email,
		Telephone: telephone, Message: message, Statut: models.LeadNew,
	}
	if err := h.DB.Create(&lead).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_save_lead", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, map[string]string{"status": "received", "token": lead.Token})
		return
	}
	middleware.Flash(w, r, "lead_received")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// List: GET /leads. Admin side, newest first, ?statut= filter.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Order("id desc")
	if s := r.URL.Query().Get("statut"); s != "" && models.ValidLeadStatus(s) {
		dbq = dbq.Where("statut = ?", s)
	}
	var leads []models.Lead
	if err := dbq.Find(&leads).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_leads", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": leads, "total": len(leads)})
}

// Status: POST /leads/status?id=...&statut=contacted
func (h *LeadHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	statut := r.URL.Query().Get("statut")
	if !models.ValidLeadStatus(statut) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_status", nil)
		return
	}
	var lead models.Lead
	if err := h.DB.First(&lead, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	lead.Statut = statut
	if err := h.DB.Save(&lead).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_lead", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, lead)
}
