package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/event-roster-api/internal/models"
	"github.com/xuri/excelize/v2"
)

// ParseWorkbook reads the first sheet of an XLSX workbook and produces
// the same record shape as Parse: row one is the header, blank rows are
// skipped, and rows get the same shape repair and key normalization as
// CSV rows.
func ParseWorkbook(r io.Reader) ([]models.RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrInvalidFormat
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	var dataRows [][]string
	for _, row := range rows {
		if isRowEmpty(row) {
			continue
		}
		dataRows = append(dataRows, row)
	}
	if len(dataRows) < 2 {
		return nil, ErrInvalidFormat
	}

	keys := make([]string, len(dataRows[0]))
	for i, cell := range dataRows[0] {
		keys[i] = NormalizeKey(cell)
	}

	records := make([]models.RawRecord, 0, len(dataRows)-1)
	for _, row := range dataRows[1:] {
		records = append(records, buildRecord(keys, row))
	}
	return records, nil
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
