package query

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"

	"dataprofiler/domain/source"
)

var (
	mdSeparatorRow = regexp.MustCompile(`^[|\-:\s]+$`)
	htmlTag        = regexp.MustCompile(`<[^>]*>`)
)

// ExtractMarkdownTables scans markdown text for pipe-delimited tables (spec
// §6) and returns each as CSV text, in document order. A separator row
// (e.g. |---|:--:|) is consumed and dropped.
func ExtractMarkdownTables(text string) []string {
	var tables []string
	var current [][]string

	flush := func() {
		if len(current) > 0 {
			tables = append(tables, rowsToCSV(current))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") || !strings.HasSuffix(trimmed, "|") {
			flush()
			continue
		}
		if mdSeparatorRow.MatchString(trimmed) {
			continue
		}
		cells := splitTableRow(trimmed)
		current = append(current, cells)
	}
	flush()

	return tables
}

// ReadMarkdownTable converts one table's CSV text (as returned by
// ExtractMarkdownTables) into a Table, going through the shared CSV reader so coercion stays uniform.
func ReadMarkdownTable(csvText string) (*source.Table, error) {
	return readCSVReader(strings.NewReader(csvText), "markdown-table")
}

func splitTableRow(line string) []string {
	inner := strings.TrimSuffix(strings.TrimPrefix(line, "|"), "|")
	parts := strings.Split(inner, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = stripInlineFormatting(strings.TrimSpace(p))
	}
	return cells
}

// stripInlineFormatting removes markdown emphasis, code spans, and link
// syntax from a cell by rendering it to HTML and stripping the resulting
// tags; the link text and code span contents remain.
func stripInlineFormatting(cell string) string {
	html := markdown.ToHTML([]byte(cell), nil, nil)
	stripped := htmlTag.ReplaceAllString(string(html), "")
	return strings.TrimSpace(stripped)
}

func rowsToCSV(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteCSVCell(cell))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func quoteCSVCell(cell string) string {
	if strings.ContainsAny(cell, ",\"\n\r") {
		return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
	}
	return cell
}
