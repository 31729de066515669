package report

import (
	"fmt"

	"railticket-exporter/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "车票"

// XLSXWriter writes the table as a single styled worksheet
type XLSXWriter struct {
	Path string
}

func (w *XLSXWriter) Write(table *Table) error {
	if err := ensureDir(w.Path); err != nil {
		return fmt.Errorf("error creating report directory: %w", err)
	}

	f := excelize.NewFile()
	defer func(f *excelize.File) {
		_ = f.Close()
	}(f)

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	refundedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := setRow(f, 1, header(table)); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheetName, 1, 1, headerStyle); err != nil {
		return err
	}

	for i, row := range table.Rows {
		rowNum := i + 2
		if err := setRow(f, rowNum, cells(table, row)); err != nil {
			return err
		}
		if row.Value(models.FieldStatus) == models.StatusRefunded {
			if err := f.SetRowStyle(sheetName, rowNum, rowNum, refundedStyle); err != nil {
				return err
			}
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	if err := f.SaveAs(w.Path); err != nil {
		return fmt.Errorf("error saving %s: %w", w.Path, err)
	}
	return nil
}

func setRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(sheetName, cell, &row)
}
