package pricing

import "github.com/adelineb/nounou-app/internal/models"

// Trigger identifies which line field was edited, which decides what gets
// recomputed.
type Trigger string

const (
	TriggerDate        Trigger = "date"
	TriggerStart       Trigger = "heure_debut"
	TriggerEnd         Trigger = "heure_fin"
	TriggerRate        Trigger = "prix_horaire"
	TriggerDescription Trigger = "description"
)

// RecomputeLine applies the edit rules for one line:
//
//   - a date edit re-resolves the tariff; when one matches, its name and rate
//     overwrite the line's description and hourly rate (a hand-typed
//     description is lost at that point; that is the established behaviour
//     of the dashboard);
//   - any edit to date, times or rate recomputes Total = hours * rate;
//   - a description-only edit recomputes nothing.
func RecomputeLine(line models.LineItem, trigger Trigger, catalog []models.Tariff) models.LineItem {
	if trigger == TriggerDescription {
		return line
	}
	if trigger == TriggerDate {
		if t, ok := ResolveTariff(line.Date, catalog); ok {
			line.Description = t.Nom
			line.PrixHoraire = t.PrixHoraire
		}
	}
	line.Total = HoursBetween(line.HeureDebut, line.HeureFin) * line.PrixHoraire
	return line
}

// RecomputeAll re-runs the time/rate computation on every line without
// re-resolving tariffs. Used when persisting a document whose lines arrive
// from the client: stored totals are derived values and never trusted.
func RecomputeAll(lines models.Lignes) models.Lignes {
	out := make(models.Lignes, len(lines))
	for i, l := range lines {
		l.Total = HoursBetween(l.HeureDebut, l.HeureFin) * l.PrixHoraire
		out[i] = l
	}
	return out
}
