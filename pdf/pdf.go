// Package pdf renders quotes and invoices as downloadable PDF documents.
package pdf

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/adelineb/nounou-app/internal/models"
)

// Document carries everything the renderer needs; both quotes and invoices
// map onto it.
type Document struct {
	Kind       string // "Devis" or "Facture"
	Numero     string
	Date       time.Time
	Client     models.Client
	Lignes     models.Lignes
	TVA        float64
	MontantHT  float64
	MontantTTC float64
}

func money(v float64) string { return fmt.Sprintf("%.2f €", v) }

// Render produces the PDF bytes. agency may be nil when the settings row has
// not been created yet; the header then only carries the document identity.
func Render(doc Document, agency *models.AgencySettings) ([]byte, error) {
	cfg := config.NewBuilder().WithPageNumber().Build()
	m := maroto.New(cfg)

	title := fmt.Sprintf("%s %s", doc.Kind, doc.Numero)
	m.AddRow(12, text.NewCol(12, title, props.Text{Size: 16, Style: fontstyle.Bold}))
	m.AddRow(6, text.NewCol(12, "Date : "+doc.Date.Format("02/01/2006"), props.Text{Size: 9}))

	if agency != nil {
		m.AddRow(8, text.NewCol(12, agency.Nom, props.Text{Size: 11, Style: fontstyle.Bold}))
		m.AddRow(5, text.NewCol(12, fmt.Sprintf("%s, %s %s", agency.Adresse, agency.CodePostal, agency.Ville), props.Text{Size: 8}))
		if agency.SIRET != "" {
			m.AddRow(5, text.NewCol(12, "SIRET : "+agency.SIRET, props.Text{Size: 8}))
		}
		if agency.AgrementSAP {
			m.AddRow(5, text.NewCol(12, "Agrément Services à la Personne", props.Text{Size: 8}))
		}
	}

	clientName := doc.Client.Prenom + " " + doc.Client.Nom
	m.AddRow(8, text.NewCol(12, "Client : "+clientName, props.Text{Size: 10}))
	if doc.Client.Adresse != "" {
		m.AddRow(5, text.NewCol(12, fmt.Sprintf("%s, %s %s", doc.Client.Adresse, doc.Client.CodePostal, doc.Client.Ville), props.Text{Size: 8}))
	}

	// Line table
	m.AddRow(8,
		text.NewCol(2, "Date", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Horaires", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(4, "Description", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Taux horaire", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, l := range doc.Lignes {
		m.AddRow(6,
			text.NewCol(2, l.Date, props.Text{Size: 8}),
			text.NewCol(2, l.HeureDebut+" - "+l.HeureFin, props.Text{Size: 8}),
			text.NewCol(4, l.Description, props.Text{Size: 8}),
			text.NewCol(2, money(l.PrixHoraire), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, money(l.Total), props.Text{Size: 8, Align: align.Right}),
		)
	}

	m.AddRow(8, text.NewCol(12, "Total HT : "+money(doc.MontantHT), props.Text{Size: 10, Align: align.Right}))
	m.AddRow(6, text.NewCol(12, fmt.Sprintf("TVA (%.1f %%) : %s", doc.TVA, money(doc.MontantTTC-doc.MontantHT)), props.Text{Size: 10, Align: align.Right}))
	m.AddRow(8, text.NewCol(12, "Total TTC : "+money(doc.MontantTTC), props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}))

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return out.GetBytes(), nil
}
