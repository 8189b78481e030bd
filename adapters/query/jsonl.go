package query

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"time"

	"dataprofiler/domain/source"
	"dataprofiler/domain/valuetype"
	"dataprofiler/internal/errors"
)

// ReadJSONL parses a JSON-lines file into a Table. The column set is the
// union of keys seen across all objects, in first-seen order; rows missing
// a key get a Null value for it.
func ReadJSONL(path string) (*source.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.SourceUnreadable(path, err)
	}
	defer f.Close()

	var headers []string
	seen := make(map[string]int)
	var records []map[string]valuetype.Value

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var raw map[string]interface{}
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil, errors.SourceUnreadable(path, err)
		}

		rec := make(map[string]valuetype.Value, len(raw))
		for k, v := range raw {
			if _, ok := seen[k]; !ok {
				seen[k] = len(headers)
				headers = append(headers, k)
			}
			rec[k] = jsonToValue(v)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.SourceUnreadable(path, err)
	}

	cols := make([][]valuetype.Value, len(headers))
	for _, rec := range records {
		for i, h := range headers {
			if v, ok := rec[h]; ok {
				cols[i] = append(cols[i], v)
			} else {
				cols[i] = append(cols[i], valuetype.Null())
			}
		}
	}

	return &source.Table{Columns: headers, Data: cols}, nil
}

func jsonToValue(v interface{}) valuetype.Value {
	switch t := v.(type) {
	case nil:
		return valuetype.Null()
	case bool:
		return valuetype.Bool(t)
	case float64:
		if t == float64(int64(t)) {
			return valuetype.Int(int64(t))
		}
		return valuetype.Float(t)
	case string:
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return valuetype.Date(ts)
		}
		return valuetype.Text(t)
	default:
		b, _ := json.Marshal(t)
		return valuetype.Text(string(b))
	}
}
