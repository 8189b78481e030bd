package query

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"dataprofiler/domain/source"
	"dataprofiler/domain/valuetype"
	"dataprofiler/internal/errors"
)

// ReadXLSX parses the first sheet of an Excel workbook into a Table.
func ReadXLSX(path string) (*source.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.SourceUnreadable(path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &source.Table{}, nil
	}
	sheetName := sheets[0]

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.SourceUnreadable(path, err)
	}
	if len(rows) == 0 {
		return &source.Table{}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	c := sharedCoercer()
	cols := make([][]valuetype.Value, len(headers))

	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		for i := range headers {
			var raw string
			if i < len(row) {
				raw = strings.TrimSpace(row[i])
			}
			v := c.Coerce(raw)
			if v.Kind == valuetype.KindText && v.Text != "" {
				if b, ok := nativeBoolHint(f, sheetName, i, rowIdx+1); ok {
					v = valuetype.Bool(b)
				}
			}
			cols[i] = append(cols[i], v)
		}
	}

	return &source.Table{Columns: headers, Data: cols}, nil
}

// nativeBoolHint consults Excel's native cell type when the text coercer
// could not classify a cell, catching TRUE/FALSE cells stored as booleans
// rather than strings.
func nativeBoolHint(f *excelize.File, sheetName string, colIdx, rowNum int) (bool, bool) {
	cellRef := columnIndexToLetter(colIdx) + strconv.Itoa(rowNum)
	cellType, err := f.GetCellType(sheetName, cellRef)
	if err != nil || cellType != excelize.CellTypeBool {
		return false, false
	}
	val, err := f.GetCellValue(sheetName, cellRef)
	if err != nil {
		return false, false
	}
	return strings.EqualFold(val, "true") || val == "1", true
}

// columnIndexToLetter converts a 0-based column index to an Excel column
// letter (A, B, ..., Z, AA, AB, ...), used by nativeBoolHint to build the
// cell reference whose native type it checks.
func columnIndexToLetter(colIdx int) string {
	result := ""
	colIdx++
	for colIdx > 0 {
		colIdx--
		result = string(rune('A'+(colIdx%26))) + result
		colIdx /= 26
	}
	return result
}
