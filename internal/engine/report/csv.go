// Package report renders assessment results as CSV tables and structured
// JSON payloads for API responses, persistence, and event publication.
package report

import (
	"encoding/csv"
	"strings"
)

// RenderCSV writes a header row and data rows as RFC 4180 CSV, without a
// trailing newline.
func RenderCSV(headers []string, rows [][]string) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(headers)
	for _, row := range rows {
		_ = w.Write(row)
	}
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}
