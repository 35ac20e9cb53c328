// Package i18n provides Accept-Language detection and the fr/en translation
// table used by the templates and flash messages. French is the default.
package i18n

import "strings"

const defaultLang = "fr"

var translations = map[string]map[string]string{
	"fr": {
		"required":          "Requis",
		"invalid_email":     "Adresse e-mail invalide",
		"invalid_date":      "Date invalide",
		"invalid_time":      "Heure invalide",
		"saved":             "Enregistré",
		"deleted":           "Supprimé",
		"lead_received":     "Merci, nous revenons vers vous très vite !",
		"too_many_requests": "Trop de demandes, merci de réessayer dans une minute.",
		"login_failed":      "Identifiants invalides",
		"tariffs":           "Tarifs",
		"clients":           "Familles",
		"sitters":           "Nounous",
		"missions":          "Missions",
		"quotes":            "Devis",
		"invoices":          "Factures",
		"payouts":           "Rémunérations",
	},
	"en": {
		"required":          "Required",
		"invalid_email":     "Invalid email address",
		"invalid_date":      "Invalid date",
		"invalid_time":      "Invalid time",
		"saved":             "Saved",
		"deleted":           "Deleted",
		"lead_received":     "Thank you, we will get back to you shortly!",
		"too_many_requests": "Too many requests, please retry in a minute.",
		"login_failed":      "Invalid credentials",
		"tariffs":           "Tariffs",
		"clients":           "Families",
		"sitters":           "Sitters",
		"missions":          "Missions",
		"quotes":            "Quotes",
		"invoices":          "Invoices",
		"payouts":           "Payouts",
	},
}

// DetectLanguage picks a supported language from an Accept-Language header,
// falling back to French.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		lang := strings.ToLower(strings.TrimSpace(part))
		if i := strings.IndexAny(lang, "-;"); i >= 0 {
			lang = lang[:i]
		}
		if _, ok := translations[lang]; ok {
			return lang
		}
	}
	return defaultLang
}

// T translates a code for a language. Unknown languages fall back to French;
// unknown codes come back as-is so missing entries are visible, not silent.
func T(lang, code string) string {
	table, ok := translations[lang]
	if !ok {
		table = translations[defaultLang]
	}
	if msg, ok := table[code]; ok {
		return msg
	}
	if lang != defaultLang {
		if msg, ok := translations[defaultLang][code]; ok {
			return msg
		}
	}
	return code
}
