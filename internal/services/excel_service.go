// internal/services/excel_service.go
package services

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cacho-medina/luxbuy-back/internal/apperrors"
)

// ExcelService turns an uploaded spreadsheet into row maps keyed by header
// name. Only the first sheet is read.
type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// Read parses the spreadsheet and returns one map per data row, keyed by the
// header row cells. Every required column must appear in the header row with
// exactly the required spelling; surrounding whitespace is ignored.
func (s *ExcelService) Read(file io.Reader, requiredColumns []string) ([]map[string]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "invalid spreadsheet file", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.New(apperrors.KindValidation, "no sheets found in spreadsheet")
	}

	excelRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "failed to read sheet", err)
	}

	if len(excelRows) < 1 {
		return nil, apperrors.New(apperrors.KindValidation, "spreadsheet has no header row")
	}

	headers := make([]string, len(excelRows[0]))
	for i, h := range excelRows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	// Map each required column to its position. The match is exact: a
	// header spelled differently does not count.
	columnIndex := make(map[string]int, len(requiredColumns))
	for _, required := range requiredColumns {
		found := -1
		for i, h := range headers {
			if h == required {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, apperrors.Newf(apperrors.KindValidation, "missing required column: %s", required)
		}
		columnIndex[required] = found
	}

	var rows []map[string]string
	for _, excelRow := range excelRows[1:] {
		row := make(map[string]string, len(requiredColumns))
		empty := true
		for name, idx := range columnIndex {
			value := ""
			if idx < len(excelRow) {
				value = strings.TrimSpace(excelRow[idx])
			}
			if value != "" {
				empty = false
			}
			row[name] = value
		}
		// GetRows can return trailing blank rows, skip them
		if empty {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}
