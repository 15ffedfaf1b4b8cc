// Package dataextract reads, joins, filters and writes the CSV tables that
// carry sequences, fitness values and strain metadata between analysis
// steps.
package dataextract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Table is a header plus string rows. Rows shorter than the header read as
// empty in the missing columns.
type Table struct {
	Header []string
	Rows   [][]string
}

type ReadOptions struct {
	// HeaderMarker, when set, skips every line before the first one that
	// contains it. Supplementary tables often carry a title block above the
	// real header row.
	HeaderMarker string
}

func ReadCSV(in io.Reader, opts ReadOptions) (Table, error) {
	if opts.HeaderMarker != "" {
		skipped, err := skipToMarker(in, opts.HeaderMarker)
		if err != nil {
			return Table{}, err
		}
		in = skipped
	}

	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return Table{}, nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("read table csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([][]string, 0, 1024)
	rowIndex := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read table csv row %d: %w", rowIndex, err)
		}
		rowIndex++
		if blankRecord(record) {
			continue
		}
		rows = append(rows, record)
	}
	return Table{Header: header, Rows: rows}, nil
}

func skipToMarker(in io.Reader, marker string) (io.Reader, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read table csv: %w", err)
	}
	needle := []byte(marker)
	for offset := 0; offset < len(data); {
		end := bytes.IndexByte(data[offset:], '\n')
		if end < 0 {
			end = len(data)
		} else {
			end += offset
		}
		if bytes.Contains(data[offset:end], needle) {
			return bytes.NewReader(data[offset:]), nil
		}
		offset = end + 1
	}
	// no marker: read from the top like an ordinary table
	return bytes.NewReader(data), nil
}

func blankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func ReadCSVFile(path string, opts ReadOptions) (Table, error) {
	if strings.TrimSpace(path) == "" {
		return Table{}, fmt.Errorf("table file path is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	table, err := ReadCSV(f, opts)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

func WriteCSV(out io.Writer, table Table) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(table.Header); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := writer.Write(padRow(row, len(table.Header))); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func WriteCSVFile(path string, table Table) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("table file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, table); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ColumnIndex returns the index of name in the header, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Value returns the cell of row at column index col, or "" past the row end.
func Value(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// Column returns every value of the named column.
func (t Table) Column(name string) ([]string, error) {
	col := t.ColumnIndex(name)
	if col < 0 {
		return nil, missingColumnError([]string{name}, t.Header)
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = Value(row, col)
	}
	return out, nil
}

// Head returns a copy of the first limit rows; limit <= 0 copies them all.
func Head(table Table, limit int) Table {
	if limit <= 0 || limit > len(table.Rows) {
		limit = len(table.Rows)
	}
	out := Table{Header: append([]string(nil), table.Header...), Rows: make([][]string, 0, limit)}
	for i := 0; i < limit; i++ {
		out.Rows = append(out.Rows, append([]string(nil), table.Rows[i]...))
	}
	return out
}

func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
