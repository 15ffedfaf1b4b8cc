package dataextract

import (
	"fmt"
	"strconv"
	"strings"
)

type ColumnStats struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Avg   float64 `json:"avg"`
	Max   float64 `json:"max"`
}

// NumericStats returns min/avg/max over the parseable values of a column.
// Blank cells are ignored; any other unparseable cell is an error.
func NumericStats(table Table, column string) (ColumnStats, error) {
	values, err := table.Column(column)
	if err != nil {
		return ColumnStats{}, err
	}
	var stats ColumnStats
	for i, raw := range values {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ColumnStats{}, fmt.Errorf("parse column %s row %d: %w", column, i+1, err)
		}
		if stats.Count == 0 {
			stats = ColumnStats{Min: value, Max: value}
		}
		if value < stats.Min {
			stats.Min = value
		}
		if value > stats.Max {
			stats.Max = value
		}
		stats.Avg += value
		stats.Count++
	}
	if stats.Count > 0 {
		stats.Avg /= float64(stats.Count)
	}
	return stats, nil
}

// TrimColumns strips surrounding whitespace from every cell of the named
// columns.
func TrimColumns(table *Table, columns ...string) error {
	if table == nil {
		return fmt.Errorf("table is required")
	}
	for _, name := range columns {
		col := table.ColumnIndex(name)
		if col < 0 {
			return missingColumnError([]string{name}, table.Header)
		}
		for _, row := range table.Rows {
			if col < len(row) {
				row[col] = strings.TrimSpace(row[col])
			}
		}
	}
	return nil
}

// DropColumns removes the named columns; names not in the table are
// ignored.
func DropColumns(table Table, columns ...string) Table {
	drop := make(map[int]bool, len(columns))
	for _, name := range columns {
		if col := table.ColumnIndex(name); col >= 0 {
			drop[col] = true
		}
	}
	keepCols := func(row []string) []string {
		out := make([]string, 0, len(row))
		for i, v := range row {
			if !drop[i] {
				out = append(out, v)
			}
		}
		return out
	}
	out := Table{Header: keepCols(table.Header), Rows: make([][]string, 0, len(table.Rows))}
	for _, row := range table.Rows {
		out.Rows = append(out.Rows, keepCols(row))
	}
	return out
}
