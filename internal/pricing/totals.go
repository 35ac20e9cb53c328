package pricing

import "github.com/adelineb/nounou-app/internal/models"

// ComputeTotals computes HT, TVA and TTC amounts for a document from its
// lines and tax percent. No rounding is applied here; display formatting to
// two decimals happens at presentation time only. Recomputing an unchanged
// document yields identical values.
func ComputeTotals(lines models.Lignes, taxPercent float64) (ht, tva, ttc float64) {
	for _, l := range lines {
		ht += l.Total
	}
	tva = ht * taxPercent / 100
	ttc = ht + tva
	return ht, tva, ttc
}
