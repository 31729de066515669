package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"railticket-exporter/internal/models"
)

// Writer persists a finished table
type Writer interface {
	Write(table *Table) error
}

// NewWriter picks a Writer for the configured format, falling back to the file extension
func NewWriter(cfg models.ReportConfig) (Writer, error) {
	path, err := expandPath(cfg.Path)
	if err != nil {
		return nil, err
	}

	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	switch format {
	case "xlsx":
		return &XLSXWriter{Path: path}, nil
	case "csv":
		return &CSVWriter{Path: path}, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

// expandPath resolves a leading "~" to the user's home directory
func expandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error resolving home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func header(table *Table) []string {
	out := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		out[i] = string(col)
	}
	return out
}

// cells renders a row in column order; absent fields become empty cells
func cells(table *Table, row models.TicketRecord) []string {
	out := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		out[i] = row.Value(col)
	}
	return out
}
