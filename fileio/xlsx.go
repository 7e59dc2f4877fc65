package fileio

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/bradsommer/list-validator/pipeline"
)

// ReadXLSX decodes the first sheet of an XLSX stream into ordered headers
// and rows.
func ReadXLSX(r io.Reader) ([]string, []pipeline.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("XLSX file has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}

	headers := records[0]
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

// WriteXLSX encodes rows to a single-sheet workbook in the given column
// order.
func WriteXLSX(w io.Writer, headers []string, rows []pipeline.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for ri, row := range rows {
		record := make([]interface{}, len(headers))
		for i, h := range headers {
			record[i] = row[h]
		}
		cell, err := excelize.CoordinatesToCellName(1, ri+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", ri+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write XLSX: %w", err)
	}
	return nil
}
