// Package batch drives the bulk record-update workflow: it iterates input
// rows, applies the confidence-gated decision policy per record, and
// aggregates run statistics.
package batch

import (
	"bufio"
	"io"
	"strings"
)

// Row is one batch input line. A non-empty Website pins the outcome and
// bypasses the resolution pipeline entirely.
type Row struct {
	Code    string
	Website string
}

// ParseRows reads newline-delimited input rows. Blank lines and lines
// starting with '#' are ignored. A single field is a bare business code; a
// second comma-separated field (optionally empty) is a pinned website.
func ParseRows(r io.Reader) ([]Row, error) {
	var rows []Row
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		row := Row{Code: strings.TrimSpace(fields[0])}
		if len(fields) > 1 {
			row.Website = strings.TrimSpace(fields[1])
		}
		if row.Code == "" {
			continue
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
