// Package fileio decodes uploaded spreadsheets into the pipeline's row
// shape and encodes final rows back to CSV or XLSX. It is the reference
// implementation of the file-parsing collaborator the pipeline expects.
package fileio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/bradsommer/list-validator/pipeline"
)

// ReadCSV decodes a CSV stream into ordered headers and rows. The first
// record is the header row; a UTF-8 BOM on the first header is stripped.
// Short records leave the missing trailing cells nil.
func ReadCSV(r io.Reader) ([]string, []pipeline.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("CSV input has no header row")
	}

	headers := records[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}

	rows := make([]pipeline.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(pipeline.Row, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = nil
			}
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}

// WriteCSV encodes rows in the given column order.
func WriteCSV(w io.Writer, headers []string, rows []pipeline.Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(headers))
	for _, row := range rows {
		for i, header := range headers {
			record[i] = pipeline.CellString(row[header])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
