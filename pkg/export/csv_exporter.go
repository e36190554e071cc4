package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset is an ordered tabular payload ready for download. Rows are
// positional and must match the header width.
type Dataset struct {
	Header []string
	Rows   [][]string
}

// Append adds one row to the dataset.
func (d *Dataset) Append(cells ...string) {
	d.Rows = append(d.Rows, cells)
}

// CSVExporter renders datasets as RFC 4180 CSV.
type CSVExporter struct{}

// NewCSVExporter constructs CSVExporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render serialises the dataset, header first.
func (e *CSVExporter) Render(d Dataset) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(d.Header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Header) {
			return nil, fmt.Errorf("csv row %d has %d cells, header has %d", i, len(row), len(d.Header))
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
