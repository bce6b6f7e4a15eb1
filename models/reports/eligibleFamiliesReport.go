package reports

import "time"

// EligibleFamilyRow is one line of the eligible-families export, already
// flattened by the caller.
type EligibleFamilyRow struct {
	Name                    string
	Neighborhood            string
	Vulnerability           string
	LastDeliveryDate        *time.Time
	MonthsSinceLastDelivery int
	MonthDeliveries         int
	DocPending              bool
}

// EligibleFamiliesDocument lays out the selection list handed to the
// distribution team.
func EligibleFamiliesDocument(rows []EligibleFamilyRow, generatedAt time.Time) Document {

	section := Section{
		Type:  SectionTable,
		Title: "Famílias elegíveis",
		Headers: []string{
			"Responsável", "Bairro", "Vulnerabilidade",
			"Última entrega", "Meses sem receber", "Entregas no mês", "Docs pendentes",
		},
	}
	for _, row := range rows {
		lastDelivery := ""
		if row.LastDeliveryDate != nil {
			lastDelivery = row.LastDeliveryDate.Format("01/2006")
		}
		docs := "Não"
		if row.DocPending {
			docs = "Sim"
		}
		section.Rows = append(section.Rows, []interface{}{
			row.Name, row.Neighborhood, row.Vulnerability,
			lastDelivery, row.MonthsSinceLastDelivery, row.MonthDeliveries, docs,
		})
	}

	return Document{
		Title:    "Seleção para entrega de cestas",
		Period:   generatedAt.Format("02/01/2006"),
		Sections: []Section{section},
	}
}
