package reports

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExcelRenderer_RendersTableAndText(t *testing.T) {
	doc := Document{
		Title:  "Fechamento Mensal",
		Period: "Março/2026",
		Sections: []Section{
			{
				Type:    SectionTable,
				Title:   "Totais",
				Headers: []string{"Indicador", "Valor"},
				Rows: [][]interface{}{
					{"Famílias atendidas", 12},
					{"Entregas", 15},
				},
			},
			{
				Type:    SectionText,
				Content: "Documento gerado automaticamente.",
			},
		},
		Metadata: map[string]string{"sha256": "abc"},
	}

	rendered, err := ExcelRenderer{}.Render(doc)
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rendered))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	title, err := f.GetCellValue("Resumo", "A1")
	if err != nil {
		t.Fatal(err)
	}
	if title != "Fechamento Mensal" {
		t.Errorf("A1 = %q, want document title", title)
	}

	header, err := f.GetCellValue("Resumo", "A5")
	if err != nil {
		t.Fatal(err)
	}
	if header != "Indicador" {
		t.Errorf("A5 = %q, want first table header", header)
	}
}

func TestExcelRenderer_RejectsEmptyDocument(t *testing.T) {
	if _, err := (ExcelRenderer{}).Render(Document{Title: "vazio"}); err == nil {
		t.Fatal("expected error for document without sections")
	}
}

func TestExcelRenderer_RejectsUnknownSectionType(t *testing.T) {
	doc := Document{Sections: []Section{{Type: "chart"}}}
	if _, err := (ExcelRenderer{}).Render(doc); err == nil {
		t.Fatal("expected error for unknown section type")
	}
}

func TestMonthlyClosureDocument_Shape(t *testing.T) {
	snapshot := map[string]interface{}{
		"totals": map[string]interface{}{
			"families_attended": 12,
			"deliveries_count":  15,
		},
		"breakdowns": map[string]interface{}{
			"neighborhoods": map[string]interface{}{
				"Centro": map[string]interface{}{"families": 3, "deliveries": 4},
			},
		},
		"metadata": map[string]interface{}{
			"period": "2026-03",
		},
	}

	doc := MonthlyClosureDocument(snapshot, 2026, 3)

	if doc.Period != PeriodLabel(2026, 3) {
		t.Errorf("period = %q", doc.Period)
	}
	if len(doc.Sections) == 0 {
		t.Fatal("expected at least one section")
	}
	if doc.Sections[0].Type != SectionTable {
		t.Errorf("first section type = %q, want table", doc.Sections[0].Type)
	}

	// The document must render without error.
	if _, err := DefaultRenderer().Render(doc); err != nil {
		t.Fatal(err)
	}
}
