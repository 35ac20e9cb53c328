package db

import (
	"os"
	"regexp"
	"strings"
)

var dsnKeyPattern = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// NormalizeDSN cleans up a DATABASE_DSN value so either accepted form works:
// URL style (postgres://...) passes through untouched, a lib/pq key=value
// list gets quotes and extra whitespace stripped and an sslmode=disable
// default when none is given. Anything unrecognizable is returned as-is and
// left for the driver to reject.
func NormalizeDSN(raw string) string {
	s := strings.Trim(strings.TrimSpace(raw), "\"'")
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return s
	}
	if !dsnKeyPattern.MatchString(s) {
		return s
	}
	cleaned := strings.Join(strings.Fields(s), " ")
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}

// GetNormalizedDSN reads DATABASE_DSN from the environment and normalizes it.
func GetNormalizedDSN() string { return NormalizeDSN(os.Getenv("DATABASE_DSN")) }
