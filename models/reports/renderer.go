package reports

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	SectionTable = "table"
	SectionText  = "text"
)

// Section is one block of a rendered document: a table with headers and
// rows, or a paragraph of text.
type Section struct {
	Type    string          `json:"type"`
	Title   string          `json:"title,omitempty"`
	Headers []string        `json:"headers,omitempty"`
	Rows    [][]interface{} `json:"rows,omitempty"`
	Content string          `json:"content,omitempty"`
}

// Document is the renderer contract: callers build sections, the renderer
// returns opaque bytes. Nothing downstream inspects the bytes except to hash
// or serve them.
type Document struct {
	Title    string            `json:"title"`
	Period   string            `json:"period"`
	Sections []Section         `json:"sections"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type Renderer interface {
	Render(doc Document) ([]byte, error)
	ContentType() string
	FileExtension() string
}

// ExcelRenderer lays a document out as one worksheet per table section.
type ExcelRenderer struct{}

func (ExcelRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (ExcelRenderer) FileExtension() string {
	return "xlsx"
}

func (ExcelRenderer) Render(doc Document) ([]byte, error) {
	if len(doc.Sections) == 0 {
		return nil, errors.New("document has no sections")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Resumo"
	f.SetSheetName("Sheet1", sheetName)
	f.SetCellValue(sheetName, "A1", doc.Title)
	f.SetCellValue(sheetName, "A2", doc.Period)

	row := 4
	for _, section := range doc.Sections {
		if section.Title != "" {
			f.SetCellValue(sheetName, cell(0, row), section.Title)
			row++
		}
		switch section.Type {
		case SectionText:
			f.SetCellValue(sheetName, cell(0, row), section.Content)
			row += 2
		case SectionTable:
			for col, header := range section.Headers {
				f.SetCellValue(sheetName, cell(col, row), header)
			}
			row++
			for _, dataRow := range section.Rows {
				for col, value := range dataRow {
					f.SetCellValue(sheetName, cell(col, row), value)
				}
				row++
			}
			row++
		default:
			return nil, fmt.Errorf("unknown section type %q", section.Type)
		}
	}

	for key, value := range doc.Metadata {
		f.SetCellValue(sheetName, cell(0, row), key)
		f.SetCellValue(sheetName, cell(1, row), value)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cell(col int, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}

// DefaultRenderer is what the closing and official-report workflows use.
func DefaultRenderer() Renderer {
	return ExcelRenderer{}
}
