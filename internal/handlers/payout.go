package handlers

import (
	"net/http"

	"github.com/adelineb/nounou-app/httpx"
	"github.com/adelineb/nounou-app/internal/planning"
	"github.com/adelineb/nounou-app/internal/services"
	"github.com/adelineb/nounou-app/validation"
)

type PayoutHandler struct{ Svc *services.PayoutService }

func NewPayoutHandler(svc *services.PayoutService) *PayoutHandler { return &PayoutHandler{Svc: svc} }

// Report: GET /payouts?from=YYYY-MM-DD&to=YYYY-MM-DD returns per-sitter amounts
// owed for completed missions in the period.
func (h *PayoutHandler) Report(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	v := validation.Violations{}
	validation.Required("from", from, v)
	validation.Date("from", from, v)
	validation.Required("to", to, v)
	validation.Date("to", to, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	rep, err := h.Svc.Report(from, to)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_build_report", nil)
		return
	}
	if rep.Rows == nil {
		rep.Rows = []planning.ReportRow{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"from": from, "to": to, "rows": rep.Rows, "total": rep.Total})
}
