package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adelineb/nounou-app/auth"
	"github.com/adelineb/nounou-app/httpx"
	"github.com/adelineb/nounou-app/internal/services"
	"github.com/adelineb/nounou-app/validation"
)

// SetupHandler exposes the agency settings: GET returns the current row
// (null before first setup), POST creates or updates it.
type SetupHandler struct{ Svc *services.SettingsService }

func NewSetupHandler(svc *services.SettingsService) *SetupHandler { return &SetupHandler{Svc: svc} }

type setupReq struct {
	Nom         string  `json:"nom"`
	SIRET       string  `json:"siret"`
	Adresse     string  `json:"adresse"`
	CodePostal  string  `json:"code_postal"`
	Ville       string  `json:"ville"`
	Telephone   string  `json:"telephone"`
	Email       string  `json:"email"`
	TVADefaut   float64 `json:"tva_defaut"`
	AgrementSAP bool    `json:"agrement_sap"`
}

func (h *SetupHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		as, err := h.Svc.Get()
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_settings", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, as)
	case http.MethodPost:
		var req setupReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		v := validation.Violations{}
		validation.Required("nom", req.Nom, v)
		validation.RangeFloat("tva_defaut", req.TVADefaut, 0, 100, v)
		validation.Email("email", req.Email, v)
		if !v.Empty() {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		as, err := h.Svc.Save(services.SettingsInput{
			Nom: req.Nom, SIRET: req.SIRET, Adresse: req.Adresse,
			CodePostal: req.CodePostal, Ville: req.Ville,
			Telephone: req.Telephone, Email: req.Email,
			TVADefaut: req.TVADefaut, AgrementSAP: req.AgrementSAP,
		})
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_save_settings", nil)
			return
		}
		if uid, ok := auth.UserIDFromContext(r.Context()); ok {
			services.Audit(h.Svc.DB, uid, "AgencySettings", as.ID, "update")
		}
		httpx.JSON(w, http.StatusOK, as)
	default:
		httpx.MethodNotAllowed(w, "GET,POST")
	}
}
