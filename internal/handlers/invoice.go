package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/adelineb/nounou-app/auth"
	"github.com/adelineb/nounou-app/httpx"
	"github.com/adelineb/nounou-app/internal/models"
	"github.com/adelineb/nounou-app/internal/services"
	pdfgen "github.com/adelineb/nounou-app/pdf"
)

type InvoiceHandler struct {
	DB       *gorm.DB
	Svc      *services.DocumentService
	Settings *services.SettingsService
}

func NewInvoiceHandler(db *gorm.DB, svc *services.DocumentService, settings *services.SettingsService) *InvoiceHandler {
	return &InvoiceHandler{DB: db, Svc: svc, Settings: settings}
}

// List: GET /invoices
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Preload("Client")
	if s := r.URL.Query().Get("statut"); s != "" && models.ValidInvoiceStatus(s) {
		dbq = dbq.Where("statut = ?", s)
	}
	var invoices []models.Invoice
	if err := dbq.Order("id desc").Find(&invoices).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": invoices, "total": len(invoices)})
}

// Create: POST /invoices, a direct invoice without a quote.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
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
	numero, err := h.Svc.NextNumber("FAC", &models.Invoice{})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_number_invoice", nil)
		return
	}
	lines, ht, _, ttc := h.Svc.PrepareLines(req.Lignes, tva)
	inv := models.Invoice{
		Numero: numero, ClientID: req.ClientID, Statut: models.InvoiceDraft,
		Lignes: lines, TVA: tva, MontantHT: ht, MontantTTC: ttc,
	}
	if err := h.DB.Create(&inv).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_invoice", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Invoice", inv.ID, "create")
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

// Update: POST /invoices/update?id=..., drafts only; amounts recomputed.
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var inv models.Invoice
	if err := h.DB.First(&inv, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if inv.Statut != models.InvoiceDraft {
		httpx.JSONError(w, http.StatusBadRequest, "invoice_not_editable", nil)
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
		inv.TVA = *req.TVA
	}
	inv.ClientID = req.ClientID
	inv.Lignes, inv.MontantHT, _, inv.MontantTTC = h.Svc.PrepareLines(req.Lignes, inv.TVA)
	if err := h.DB.Save(&inv).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_invoice", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Invoice", inv.ID, "update")
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// Status: POST /invoices/status?id=...&statut=paid. A paid invoice records
// its payment time.
func (h *InvoiceHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	statut := r.URL.Query().Get("statut")
	if !models.ValidInvoiceStatus(statut) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_status", nil)
		return
	}
	var inv models.Invoice
	if err := h.DB.First(&inv, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	inv.Statut = statut
	if statut == models.InvoicePaid && inv.PaidAt == nil {
		now := time.Now()
		inv.PaidAt = &now
	}
	if err := h.DB.Save(&inv).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_invoice", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		services.Audit(h.DB, uid, "Invoice", inv.ID, "status")
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// PDF: GET /invoices/pdf?id=...
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var inv models.Invoice
	if err := h.DB.Preload("Client").First(&inv, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	agency, _ := h.Settings.Get()
	doc := pdfgen.Document{
		Kind: "Facture", Numero: inv.Numero, Date: inv.CreatedAt,
		Client: inv.Client, Lignes: inv.Lignes,
		TVA: inv.TVA, MontantHT: inv.MontantHT, MontantTTC: inv.MontantTTC,
	}
	out, err := pdfgen.Render(doc, agency)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_render_pdf", nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+inv.Numero+`.pdf"`)
	_, _ = w.Write(out)
}
