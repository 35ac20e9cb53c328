package pricing

import (
	"time"

	"github.com/adelineb/nounou-app/internal/models"
)

const dateLayout = "2006-01-02"

// IsWeekend classifies a "YYYY-MM-DD" date. The second return is false when
// the date cannot be parsed.
func IsWeekend(date string) (weekend, ok bool) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return false, false
	}
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday, true
}

// ResolveTariff selects the applicable tariff for a date from the catalog.
// The catalog is expected pre-filtered to active tariffs, in the order the
// caller wants ties broken (the tariff list endpoint orders by nom).
//
// A tariff whose TypeJour matches the date's weekday/weekend classification
// wins over an "any" tariff; among equally specific candidates the first in
// catalog order wins. With no candidate at all the second return is false
// and the caller leaves the line priced as typed.
func ResolveTariff(date string, catalog []models.Tariff) (models.Tariff, bool) {
	weekend, ok := IsWeekend(date)
	wanted := models.DayTypeWeekday
	if weekend {
		wanted = models.DayTypeWeekend
	}

	var fallback *models.Tariff
	for i := range catalog {
		t := &catalog[i]
		if ok && t.TypeJour == wanted {
			return *t, true
		}
		if t.TypeJour == models.DayTypeAny && fallback == nil {
			fallback = t
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return models.Tariff{}, false
}
