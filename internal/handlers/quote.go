package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/adelineb/nounou-app/auth"
	"github.com/adelineb/nounou-app/httpx"
	"github.com/adelineb/nounou-app/internal/models"
	"github.com/adelineb/nounou-app/internal/services"
	pdfgen "github.com/adelineb/nounou-app/pdf"
	"github.com/adelineb/nounou-app/validation"
)

type QuoteHandler struct {
	DB       *gorm.DB
	Svc      *services.DocumentService
	Settings *services.SettingsService
}

func NewQuoteHandler(db *gorm.DB, svc *services.DocumentService, settings *services.SettingsService) *QuoteHandler {
	return &QuoteHandler{DB: db, Svc: svc, Settings: settings}
}

// documentReq is the shared create/update payload for quotes and invoices.
// Line totals and document amounts in the payload are ignored and derived
// server-side.
type documentReq struct {
	ClientID uint          `json:"client_id"`
	TVA      *float64      `json:"tva"`
	Lignes   models.Lignes `json:"lignes"`
}

func (req *documentReq) validate(db *gorm.DB) validation.Violations {
	v := validation.Violations{}
	if req.ClientID == 0 {
		v["client_id"] = "required"
	} else {
		var count int64
		db.Model(&models.Client{}).Where("id = ?", req.ClientID).Count(&count)
		if count == 0 {
			v["client_id"] = "unknown_client"
		}
	}
	if req.TVA != nil {
		validation.RangeFloat("tva", *req.TVA, 0, 100, v)
	}
	for _, l := range req.Lignes {
		validation.Date("lignes.date", l.Date, v)
		validation.ClockTime("lignes.heure_debut", l.HeureDebut, v)
		validation.ClockTime("lignes.heure_fin", l.HeureFin, v)
	}
	return v
}

// List: GET /quotes
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	var quotes []models.Quote
	if err := h.DB.Preload("Client").Order("id desc").Find(&quotes).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_quotes", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": quotes, "total": len(quotes)})
}

// Create: POST /quotes
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req documentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(h.DB); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	tva := h.Settings.DefaultTVA()
	if req.TVA != nil {
		tva = *req.TVA
	}
	numero, err := h.Svc.NextNumber("DEV", &models.Quote{})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_number_quote", nil)
		return
	}
	lines, ht, _, ttc := h.Svc.PrepareLines(req.Lignes, tva)
	q := models.Quote{
		Numero: numero, ClientID: req.ClientID, Statut: models.QuoteDraft,
		Lignes: lines, TVA: tva, MontantHT: ht, MontantTTC: ttc,
	}
	if err := h.DB.Create(&q).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_quote", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Quote", q.ID, "create")
	}
	httpx.JSON(w, http.StatusCreated, q)
}

// Update: POST /quotes/update?id=... replaces client, TVA and lines; all
// derived amounts recomputed. Only drafts can be edited.
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var q models.Quote
	if err := h.DB.First(&q, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if q.Statut != models.QuoteDraft {
		httpx.JSONError(w, http.StatusBadRequest, "quote_not_editable", nil)
		return
	}
	var req documentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(h.DB); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if req.TVA != nil {
		q.TVA = *req.TVA
	}
	q.ClientID = req.ClientID
	q.Lignes, q.MontantHT, _, q.MontantTTC = h.Svc.PrepareLines(req.Lignes, q.TVA)
	if err := h.DB.Save(&q).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_quote", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Quote", q.ID, "update")
	}
	httpx.JSON(w, http.StatusOK, q)
}

// Status: POST /quotes/status?id=...&statut=sent
func (h *QuoteHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	statut := r.URL.Query().Get("statut")
	if !models.ValidQuoteStatus(statut) || statut == models.QuoteInvoiced {
		// invoiced is only reachable through conversion
		httpx.JSONError(w, http.StatusBadRequest, "invalid_status", nil)
		return
	}
	var q models.Quote
	if err := h.DB.First(&q, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if q.Statut == models.QuoteInvoiced {
		httpx.JSONError(w, http.StatusBadRequest, "quote_already_converted", nil)
		return
	}
	q.Statut = statut
	if err := h.DB.Save(&q).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_quote", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Quote", q.ID, "status")
	}
	httpx.JSON(w, http.StatusOK, q)
}

// Convert: POST /quotes/convert?id=... creates the draft invoice.
func (h *QuoteHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	inv, err := h.Svc.ConvertQuote(uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyConverted):
			httpx.JSONError(w, http.StatusBadRequest, "quote_already_converted", nil)
		case errors.Is(err, gorm.ErrRecordNotFound):
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_convert_quote", nil)
		}
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Quote", uint(id), "convert")
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

// PDF: GET /quotes/pdf?id=...
func (h *QuoteHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var q models.Quote
	if err := h.DB.Preload("Client").First(&q, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	agency, _ := h.Settings.Get()
	doc := pdfgen.Document{
		Kind: "Devis", Numero: q.Numero, Date: q.CreatedAt,
		Client: q.Client, Lignes: q.Lignes,
		TVA: q.TVA, MontantHT: q.MontantHT, MontantTTC: q.MontantTTC,
	}
	out, err := pdfgen.Render(doc, agency)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_render_pdf", nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+q.Numero+`.pdf"`)
	_, _ = w.Write(out)
}
