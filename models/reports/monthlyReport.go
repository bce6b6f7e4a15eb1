package reports

import (
	"fmt"
	"sort"
)

var monthNames = [...]string{"", "Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro"}

func PeriodLabel(year int, month int) string {
	if month >= 1 && month <= 12 {
		return fmt.Sprintf("%s/%d", monthNames[month], year)
	}
	return fmt.Sprintf("%02d/%d", month, year)
}

func asMap(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func mapTable(title string, valueHeader string, m map[string]interface{}) Section {
	section := Section{
		Type:    SectionTable,
		Title:   title,
		Headers: []string{"Item", valueHeader},
	}
	for _, key := range sortedKeys(m) {
		section.Rows = append(section.Rows, []interface{}{key, m[key]})
	}
	return section
}

// MonthlyClosureDocument lays out a frozen snapshot for rendering. It only
// reads the stable top-level keys, so snapshots from older closures render
// the same way.
func MonthlyClosureDocument(snapshot map[string]interface{}, year int, month int) Document {

	doc := Document{
		Title:  "Fechamento Mensal",
		Period: PeriodLabel(year, month),
	}

	if totals := asMap(snapshot["totals"]); totals != nil {
		doc.Sections = append(doc.Sections, mapTable("Totais do mês", "Quantidade", totals))
	}

	if breakdowns := asMap(snapshot["breakdowns"]); breakdowns != nil {
		if neighborhoods := asMap(breakdowns["neighborhoods"]); neighborhoods != nil {
			section := Section{
				Type:    SectionTable,
				Title:   "Atendimentos por bairro",
				Headers: []string{"Bairro", "Famílias", "Entregas"},
			}
			for _, name := range sortedKeys(neighborhoods) {
				bucket := asMap(neighborhoods[name])
				section.Rows = append(section.Rows, []interface{}{name, bucket["families"], bucket["deliveries"]})
			}
			doc.Sections = append(doc.Sections, section)
		}
		if vulnerability := asMap(breakdowns["vulnerability"]); vulnerability != nil {
			doc.Sections = append(doc.Sections, mapTable("Famílias por vulnerabilidade", "Famílias", vulnerability))
		}
		if equipment := asMap(breakdowns["equipment_status"]); equipment != nil {
			doc.Sections = append(doc.Sections, mapTable("Equipamentos por situação", "Quantidade", equipment))
		}
	}

	if metadata := asMap(snapshot["metadata"]); metadata != nil {
		doc.Metadata = map[string]string{}
		for _, key := range sortedKeys(metadata) {
			doc.Metadata[key] = fmt.Sprint(metadata[key])
		}
	}

	return doc
}

// OfficialReportDocument lays out the signed month-over-month report.
func OfficialReportDocument(official map[string]interface{}, year int, month int) Document {

	doc := Document{
		Title:  "Relatório Oficial Mensal",
		Period: PeriodLabel(year, month),
	}

	totals := asMap(official["totals"])
	deltas := asMap(official["deltas"])

	if totals != nil {
		section := Section{
			Type:    SectionTable,
			Title:   "Indicadores do mês",
			Headers: []string{"Indicador", "Valor", "Variação", "Variação %"},
		}
		for _, kpi := range sortedKeys(totals) {
			absolute := interface{}(nil)
			percent := interface{}(nil)
			if delta := asMap(deltas[kpi]); delta != nil {
				absolute = delta["absolute"]
				percent = delta["percent"]
			}
			section.Rows = append(section.Rows, []interface{}{kpi, totals[kpi], absolute, percent})
		}
		doc.Sections = append(doc.Sections, section)
	}

	if breakdowns := asMap(official["breakdowns"]); breakdowns != nil {
		if neighborhoods := asMap(breakdowns["neighborhoods"]); neighborhoods != nil {
			section := Section{
				Type:    SectionTable,
				Title:   "Atendimentos por bairro",
				Headers: []string{"Bairro", "Famílias", "Entregas"},
			}
			for _, name := range sortedKeys(neighborhoods) {
				bucket := asMap(neighborhoods[name])
				section.Rows = append(section.Rows, []interface{}{name, bucket["families"], bucket["deliveries"]})
			}
			doc.Sections = append(doc.Sections, section)
		}
	}

	if metadata := asMap(official["metadata"]); metadata != nil {
		doc.Metadata = map[string]string{}
		for _, key := range sortedKeys(metadata) {
			doc.Metadata[key] = fmt.Sprint(metadata[key])
		}
	}

	doc.Sections = append(doc.Sections, Section{
		Type:    SectionText,
		Title:   "Assinatura",
		Content: "Documento gerado eletronicamente e verificado por hash SHA-256.",
	})

	return doc
}
