package planning

import (
	"math"

	"github.com/adelineb/nounou-app/internal/models"
	"github.com/adelineb/nounou-app/internal/pricing"
)

// Payout computes the hours billed to the agency and the amount owed to a
// sitter for one mission. Raw hours are rounded up to the nearest half hour
// (agency policy, partial time counts in the sitter's favor). A missing rate
// yields a zero amount; malformed times inherit HoursBetween's zero.
func Payout(start, end string, sitterHourlyRate float64) (billedHours, amount float64) {
	raw := pricing.HoursBetween(start, end)
	billedHours = math.Ceil(raw*2) / 2
	return billedHours, billedHours * sitterHourlyRate
}

// ReportRow aggregates one sitter's completed missions over a period.
type ReportRow struct {
	SitterID uint    `json:"sitter_id"`
	Nom      string  `json:"nom"`
	Prenom   string  `json:"prenom"`
	Missions int     `json:"missions"`
	Heures   float64 `json:"heures"`
	Montant  float64 `json:"montant"`
}

// Report is the payout summary for a date range.
type Report struct {
	Rows  []ReportRow `json:"rows"`
	Total float64     `json:"total"`
}

// BuildReport sums payouts per sitter for the given missions (already
// filtered to the period and to completed status, with Sitter preloaded).
// Missions without an assigned sitter are skipped. Row order follows first
// appearance in the input, i.e. the query order.
func BuildReport(missions []models.Mission) Report {
	var rep Report
	index := map[uint]int{}
	for _, m := range missions {
		if m.SitterID == nil || m.Sitter == nil {
			continue
		}
		hours, amount := Payout(m.HeureDebut, m.HeureFin, m.Sitter.PrixHoraire)
		i, ok := index[*m.SitterID]
		if !ok {
			i = len(rep.Rows)
			index[*m.SitterID] = i
			rep.Rows = append(rep.Rows, ReportRow{SitterID: *m.SitterID, Nom: m.Sitter.Nom, Prenom: m.Sitter.Prenom})
		}
		rep.Rows[i].Missions++
		rep.Rows[i].Heures += hours
		rep.Rows[i].Montant += amount
		rep.Total += amount
	}
	return rep
}
