package report

import (
	"encoding/csv"
	"fmt"
	"os"
)

// utf8BOM lets spreadsheet applications detect the encoding of the CJK headers
const utf8BOM = "\ufeff"

// CSVWriter writes the table as UTF-8 CSV
type CSVWriter struct {
	Path string
}

func (w *CSVWriter) Write(table *Table) error {
	if err := ensureDir(w.Path); err != nil {
		return fmt.Errorf("error creating report directory: %w", err)
	}

	f, err := os.Create(w.Path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", w.Path, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	if _, err := f.WriteString(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(header(table)); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := cw.Write(cells(table, row)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("error writing %s: %w", w.Path, err)
	}

	return f.Sync()
}
