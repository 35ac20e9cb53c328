package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/adelineb/nounou-app/auth"
	"github.com/adelineb/nounou-app/httpx"
	"github.com/adelineb/nounou-app/internal/config"
	"github.com/adelineb/nounou-app/internal/handlers"
	"github.com/adelineb/nounou-app/internal/middleware"
	"github.com/adelineb/nounou-app/internal/models"
	"github.com/adelineb/nounou-app/internal/ratelimit"
	"github.com/adelineb/nounou-app/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cfg config.Config, log *zap.Logger, leadStore ratelimit.Store) http.Handler {
	mux := http.NewServeMux()

	// RequireAuth checks the session's user still exists on every request.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// Lightweight DB check (SELECT 1), no detailed errors in body
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	//revive:enable:unused-parameter

	// Auth endpoints
	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	// Public lead capture, rate limited per client IP.
	if leadStore == nil {
		leadStore = ratelimit.NewMemoryStore()
	}
	limiter := &ratelimit.Limiter{Store: leadStore, Max: cfg.LeadRateMax, Window: cfg.LeadRateWindow}
	lh := handlers.NewLeadHandler(db, limiter)
	mux.Handle("/contact", http.HandlerFunc(lh.Submit))

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}
	// List/Create share the collection path; update/delete/status get their
	// own paths for mux simplicity.
	collection := func(list, create http.HandlerFunc) http.Handler {
		return requireAuth(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list(w, r)
			case http.MethodPost:
				create(w, r)
			default:
				httpx.MethodNotAllowed(w, "GET,POST")
			}
		})
	}

	// Agency settings
	settingsSvc := services.NewSettingsService(db)
	setupHandler := handlers.NewSetupHandler(settingsSvc)
	mux.Handle("/setup", requireAuth(setupHandler.Handle))

	// Profile
	ph := handlers.NewProfileHandler(db)
	mux.Handle("/profile/password", requireAuth(ph.ChangePassword))

	// Tariff catalog
	th := handlers.NewTariffHandler(db)
	mux.Handle("/tariffs", collection(th.List, th.Create))
	mux.Handle("/tariffs/update", requireAuth(th.Update))
	mux.Handle("/tariffs/delete", requireAuth(th.Delete))

	// Clients (families)
	ch := handlers.NewClientHandler(db)
	mux.Handle("/clients", collection(ch.List, ch.Create))
	mux.Handle("/clients/update", requireAuth(ch.Update))
	mux.Handle("/clients/delete", requireAuth(ch.Delete))

	// Sitters
	sh := handlers.NewSitterHandler(db)
	mux.Handle("/sitters", collection(sh.List, sh.Create))
	mux.Handle("/sitters/update", requireAuth(sh.Update))
	mux.Handle("/sitters/delete", requireAuth(sh.Delete))

	// Missions & calendar
	mh := handlers.NewMissionHandler(db)
	mux.Handle("/missions", collection(mh.List, mh.Create))
	mux.Handle("/missions/update", requireAuth(mh.Update))
	mux.Handle("/missions/delete", requireAuth(mh.Delete))
	mux.Handle("/calendar", requireAuth(mh.Calendar))

	// Quotes & invoices
	docSvc := services.NewDocumentService(db)
	qh := handlers.NewQuoteHandler(db, docSvc, settingsSvc)
	mux.Handle("/quotes", collection(qh.List, qh.Create))
	mux.Handle("/quotes/update", requireAuth(qh.Update))
	mux.Handle("/quotes/status", requireAuth(qh.Status))
	mux.Handle("/quotes/convert", requireAuth(qh.Convert))
	mux.Handle("/quotes/pdf", requireAuth(qh.PDF))

	ih := handlers.NewInvoiceHandler(db, docSvc, settingsSvc)
	mux.Handle("/invoices", collection(ih.List, ih.Create))
	mux.Handle("/invoices/update", requireAuth(ih.Update))
	mux.Handle("/invoices/status", requireAuth(ih.Status))
	mux.Handle("/invoices/pdf", requireAuth(ih.PDF))

	// Line recomputation for the document forms
	lnh := handlers.NewLineHandler(docSvc)
	mux.Handle("/documents/line", requireAuth(lnh.Edit))

	// Payout report
	pyh := handlers.NewPayoutHandler(services.NewPayoutService(db))
	mux.Handle("/payouts", requireAuth(pyh.Report))

	// Leads (admin side)
	mux.Handle("/leads", requireAuth(lh.List))
	mux.Handle("/leads/status", requireAuth(lh.Status))

	return middleware.Prefs(withRecover(withLogging(mux, log), log))
}

func withLogging(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if log != nil {
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("duration", time.Since(start)),
			)
		}
	})
}

func withRecover(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if log != nil {
					log.Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				}
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
