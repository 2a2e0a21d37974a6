package reports

import (
	"time"

	"github.com/xuri/excelize/v2"
)

func writeExcel(path, reportType string, tables []Table, summary *BillingSummary, generated time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"667EEA"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	info := Table{
		Title:   "Company Info",
		Headers: []string{"Property", "Value"},
		Widths:  []float64{20, 40},
		Rows: [][]string{
			{"Company Name", "SEKAR NET"},
			{"Report Type", reportType},
			{"Generated Date", generated.Format("02/01/2006 15:04:05")},
			{"Report Format", "Excel"},
		},
	}
	sheets := append([]Table{info}, tables...)
	if summary != nil {
		sheets = append(sheets, summary.Table())
	}

	for i, t := range sheets {
		name := t.Title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}
		if err := writeSheet(f, name, t, header); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)
	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, sheet string, t Table, headerStyle int) error {
	row := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, w := range t.Widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}

	for r, values := range t.Rows {
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}
	return nil
}
