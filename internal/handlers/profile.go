package handlers

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/adelineb/nounou-app/auth"
	"github.com/adelineb/nounou-app/httpx"
	"github.com/adelineb/nounou-app/internal/models"
	"github.com/adelineb/nounou-app/internal/services"
)

type ProfileHandler struct{ DB *gorm.DB }

func NewProfileHandler(db *gorm.DB) *ProfileHandler { return &ProfileHandler{DB: db} }

// ChangePassword: POST /profile/password with current_password/new_password.
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.MethodNotAllowed(w, "POST")
		return
	}
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	current := r.FormValue("current_password")
	next := r.FormValue("new_password")
	if current == "" || next == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"current_password": "required", "new_password": "required"})
		return
	}
	if len(next) < 8 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"new_password": "too_short"})
		return
	}
	var user models.User
	if err := h.DB.First(&user, uid).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		httpx.JSONError(w, http.StatusForbidden, "invalid_current_password", nil)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "hash_failed", nil)
		return
	}
	if err := h.DB.Model(&user).Update("password", string(hash)).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_password", nil)
		return
	}
	services.Audit(h.DB, uid, "User", user.ID, "update")
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}
