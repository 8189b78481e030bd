package query

import (
	"bufio"
	"os"
	"regexp"

	"dataprofiler/domain/source"
	"dataprofiler/domain/valuetype"
	"dataprofiler/internal/errors"
)

var logLineTimestamp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}`)

// ReadLog parses a plain-text log file into a two-column Table: "line" (the
// raw text) and "has_timestamp" (whether the line opens with an ISO-ish
// timestamp), letting the profiler treat unstructured logs as a dataset.
func ReadLog(path string) (*source.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.SourceUnreadable(path, err)
	}
	defer f.Close()

	var lines []valuetype.Value
	var hasTimestamp []valuetype.Value

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		text := scanner.Text()
		lines = append(lines, valuetype.Text(text))
		hasTimestamp = append(hasTimestamp, valuetype.Bool(logLineTimestamp.MatchString(text)))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.SourceUnreadable(path, err)
	}

	return &source.Table{
		Columns: []string{"line", "has_timestamp"},
		Data:    [][]valuetype.Value{lines, hasTimestamp},
	}, nil
}
