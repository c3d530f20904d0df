package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderSheets concatenates several sheets into one CSV document, separating
// them with a blank line and a sheet-name banner.
func (e *CSVExporter) RenderSheets(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("csv requires at least one sheet")
	}
	if len(sheets) == 1 {
		return e.Render(sheets[0].Data)
	}

	buf := &bytes.Buffer{}
	for i, sheet := range sheets {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(buf, "# %s\n", sheet.Name)
		part, err := e.Render(sheet.Data)
		if err != nil {
			return nil, fmt.Errorf("render sheet %s: %w", sheet.Name, err)
		}
		buf.Write(part)
	}
	return buf.Bytes(), nil
}
