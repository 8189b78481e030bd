package query

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"dataprofiler/domain/source"
	"dataprofiler/domain/valuetype"
	"dataprofiler/internal/errors"
)

// ReadCSV parses a CSV file into a Table, coercing every cell via the shared
// coercer so callers see typed values rather than raw strings.
func ReadCSV(path string) (*source.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.SourceUnreadable(path, err)
	}
	defer f.Close()

	return readCSVReader(f, path)
}

func readCSVReader(r io.Reader, path string) (*source.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return &source.Table{}, nil
	}
	if err != nil {
		return nil, errors.SourceUnreadable(path, err)
	}

	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.TrimSpace(h)
	}

	c := sharedCoercer()
	cols := make([][]valuetype.Value, len(headers))

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.SourceUnreadable(path, err)
		}
		for i := range headers {
			var raw string
			if i < len(record) {
				raw = strings.TrimSpace(record[i])
			}
			cols[i] = append(cols[i], c.Coerce(raw))
		}
	}

	return &source.Table{Columns: headers, Data: cols}, nil
}
