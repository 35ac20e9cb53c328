package main

import (
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/adelineb/nounou-app/auth"
	"github.com/adelineb/nounou-app/internal/config"
	"github.com/adelineb/nounou-app/internal/middleware"
	"github.com/adelineb/nounou-app/internal/models"
	"github.com/adelineb/nounou-app/internal/ratelimit"
	"github.com/adelineb/nounou-app/internal/server"
	"github.com/adelineb/nounou-app/internal/services"
	"github.com/adelineb/nounou-app/view"
)

func init() {
	// Language/theme resolvers feed the shared view package so it stays
	// decoupled from the middleware package.
	view.SetLangResolver(middleware.LangFrom)
	view.SetThemeResolver(middleware.ThemeFrom)
}

// NewApp bundles the marketing page, dashboard and API routes into one handler.
func NewApp(dbConn *gorm.DB, cfg config.Config, log *zap.Logger) http.Handler {
	rootAPI := auth.Middleware(server.New(dbConn, cfg, log, ratelimit.NewDBStore(dbConn)))

	staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir("static")))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.URL.Path) >= 8 && r.URL.Path[:8] == "/static/" {
			if cfg.Env == "development" {
				w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			} else {
				w.Header().Set("Cache-Control", "public, max-age=86400")
			}
			staticHandler.ServeHTTP(w, r)
			return
		}
		switch r.URL.Path {
		case "/":
			renderIndex(w, r, dbConn)
			return
		case "/dashboard":
			renderDashboard(w, r, dbConn)
			return
		}
		rootAPI.ServeHTTP(w, r)
	})
}

func flashInto(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if c, err := r.Cookie("flash"); err == nil {
		if dec, derr := url.QueryUnescape(c.Value); derr == nil {
			data["Flash"] = dec
		} else {
			data["Flash"] = c.Value
		}
		http.SetCookie(w, &http.Cookie{Name: "flash", Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1})
	}
}

// renderIndex serves the public marketing page with the contact form.
func renderIndex(w http.ResponseWriter, r *http.Request, db *gorm.DB) {
	data := map[string]any{}
	flashInto(w, r, data)
	svc := services.NewSettingsService(db)
	if as, err := svc.Get(); err == nil && as != nil {
		data["Agency"] = as
	}
	if err := view.Render(w, r, "index.html", data); err != nil {
		http.Error(w, "template render error", http.StatusInternalServerError)
	}
}

// renderDashboard serves the admin overview: entity counts plus the coming
// week's missions and latest documents.
func renderDashboard(w http.ResponseWriter, r *http.Request, db *gorm.DB) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok || uid == 0 {
		if parsed, ok2 := auth.ParseSession(r); ok2 {
			uid = parsed
		}
	}
	if uid == 0 {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	data := map[string]any{}
	flashInto(w, r, data)

	var user models.User
	if err := db.First(&user, uid).Error; err == nil {
		data["User"] = user
	}
	svc := services.NewSettingsService(db)
	if as, err := svc.Get(); err == nil && as != nil {
		data["Agency"] = as
	}

	var missionCount, clientCount, sitterCount, invoiceCount, leadCount int64
	db.Model(&models.Mission{}).Count(&missionCount)
	db.Model(&models.Client{}).Count(&clientCount)
	db.Model(&models.Sitter{}).Count(&sitterCount)
	db.Model(&models.Invoice{}).Count(&invoiceCount)
	db.Model(&models.Lead{}).Where("statut = ?", models.LeadNew).Count(&leadCount)
	data["Stats"] = map[string]any{
		"MissionCount": missionCount,
		"ClientCount":  clientCount,
		"SitterCount":  sitterCount,
		"InvoiceCount": invoiceCount,
		"NewLeadCount": leadCount,
	}

	today := time.Now().Format("2006-01-02")
	weekEnd := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	var upcoming []models.Mission
	db.Preload("Client").Preload("Sitter").
		Where("date >= ? AND date <= ? AND statut = ?", today, weekEnd, models.MissionPlanned).
		Order("date, heure_debut").Limit(10).Find(&upcoming)
	data["UpcomingMissions"] = upcoming

	var recentInvoices []models.Invoice
	db.Preload("Client").Order("created_at desc").Limit(5).Find(&recentInvoices)
	data["RecentInvoices"] = recentInvoices

	if err := view.Render(w, r, "dashboard.html", data); err != nil {
		http.Error(w, "template render error", http.StatusInternalServerError)
	}
}
