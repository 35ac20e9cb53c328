package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/adelineb/nounou-app/i18n"
)

type ctxKey string

const (
	ctxLang  ctxKey = "pref_lang"
	ctxTheme ctxKey = "pref_theme"

	prefCookieAge = 86400 * 30
)

// pref reads one preference, a query parameter winning over the cookie. A
// value arriving by query is persisted for a month.
func pref(w http.ResponseWriter, r *http.Request, name, def string) string {
	val := def
	if c, err := r.Cookie(name); err == nil && c.Value != "" {
		val = c.Value
	}
	if qv := r.URL.Query().Get(name); qv != "" {
		val = qv
		http.SetCookie(w, &http.Cookie{Name: name, Value: val, Path: "/", MaxAge: prefCookieAge})
	}
	return val
}

// Prefs resolves the language and theme preferences and stores them in the
// request context for the view layer. Unknown languages fall back to the
// Accept-Language header, then to French.
func Prefs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := pref(w, r, "lang", "fr")
		if lang != "fr" && lang != "en" {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		theme := pref(w, r, "theme", "system")
		ctx := context.WithValue(r.Context(), ctxLang, lang)
		ctx = context.WithValue(ctx, ctxTheme, theme)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LangFrom returns the request's language preference.
func LangFrom(r *http.Request) string {
	if v, ok := r.Context().Value(ctxLang).(string); ok && v != "" {
		return v
	}
	return "fr"
}

// ThemeFrom returns the request's theme preference.
func ThemeFrom(r *http.Request) string {
	if v, ok := r.Context().Value(ctxTheme).(string); ok && v != "" {
		return v
	}
	return "system"
}

// Flash sets a translated flash message cookie from a translation code.
func Flash(w http.ResponseWriter, r *http.Request, code string) {
	msg := i18n.T(LangFrom(r), code)
	http.SetCookie(w, &http.Cookie{Name: "flash", Value: url.QueryEscape(msg), Path: "/"})
}
