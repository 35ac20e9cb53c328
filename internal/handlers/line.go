package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adelineb/nounou-app/httpx"
	"github.com/adelineb/nounou-app/internal/models"
	"github.com/adelineb/nounou-app/internal/pricing"
	"github.com/adelineb/nounou-app/internal/services"
)

// LineHandler backs the document forms' per-field edits: the front-end sends
// the edited line plus which field changed and gets back the recomputed line
// (tariff re-resolved on a date change).
type LineHandler struct{ Svc *services.DocumentService }

func NewLineHandler(svc *services.DocumentService) *LineHandler { return &LineHandler{Svc: svc} }

type lineEditReq struct {
	Line    models.LineItem `json:"line"`
	Trigger string          `json:"trigger"`
}

var validTriggers = map[string]pricing.Trigger{
	"date":         pricing.TriggerDate,
	"heure_debut":  pricing.TriggerStart,
	"heure_fin":    pricing.TriggerEnd,
	"prix_horaire": pricing.TriggerRate,
	"description":  pricing.TriggerDescription,
}

// Edit: POST /documents/line
func (h *LineHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.MethodNotAllowed(w, "POST")
		return
	}
	var req lineEditReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	trigger, ok := validTriggers[req.Trigger]
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_trigger", nil)
		return
	}
	line, err := h.Svc.EditLine(req.Line, trigger)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_recompute_line", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"line": line})
}
