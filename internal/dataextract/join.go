package dataextract

import (
	"fmt"
	"strings"
)

// RequireColumns fails when any of names is missing, listing what the
// table does have.
func RequireColumns(table Table, names ...string) error {
	var missing []string
	for _, name := range names {
		if table.ColumnIndex(name) < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return missingColumnError(missing, table.Header)
	}
	return nil
}

// ResolveColumn returns the first candidate present in the table. Tables
// from different releases name the same field differently.
func ResolveColumn(table Table, candidates ...string) (string, error) {
	for _, name := range candidates {
		if table.ColumnIndex(name) >= 0 {
			return name, nil
		}
	}
	return "", missingColumnError(candidates, table.Header)
}

func missingColumnError(missing, available []string) error {
	return fmt.Errorf("missing columns [%s]; available columns [%s]", strings.Join(missing, ", "), strings.Join(available, ", "))
}

// RightSuffix is appended to a carried right column whose name is already
// in the output header.
const RightSuffix = "_right"

// LeftJoin keeps every row of left, appending the requested columns of the
// right row whose rightKey equals the left row's leftKey. Unmatched rows get
// empty values. The right key column itself is not carried over.
//
// Output has exactly one row per left row: when several right rows share a
// key, only the first is used. A carried column whose name collides with
// the header so far is renamed with RightSuffix.
func LeftJoin(left, right Table, leftKey, rightKey string, columns []string) (Table, error) {
	if err := RequireColumns(left, leftKey); err != nil {
		return Table{}, fmt.Errorf("left table: %w", err)
	}
	if err := RequireColumns(right, append([]string{rightKey}, columns...)...); err != nil {
		return Table{}, fmt.Errorf("right table: %w", err)
	}

	carried := make([]int, 0, len(columns))
	header := append([]string(nil), left.Header...)
	for _, name := range columns {
		if name == rightKey {
			continue
		}
		carried = append(carried, right.ColumnIndex(name))
		header = append(header, uniqueName(header, name))
	}

	rk := right.ColumnIndex(rightKey)
	index := make(map[string][]string, len(right.Rows))
	for _, row := range right.Rows {
		key := strings.TrimSpace(Value(row, rk))
		if _, seen := index[key]; !seen {
			index[key] = row
		}
	}

	lk := left.ColumnIndex(leftKey)
	rows := make([][]string, 0, len(left.Rows))
	for _, row := range left.Rows {
		joined := padRow(append([]string(nil), row...), len(left.Header))
		match, ok := index[strings.TrimSpace(Value(row, lk))]
		for _, col := range carried {
			if ok {
				joined = append(joined, Value(match, col))
			} else {
				joined = append(joined, "")
			}
		}
		rows = append(rows, joined)
	}
	return Table{Header: header, Rows: rows}, nil
}

func uniqueName(header []string, name string) string {
	taken := func(candidate string) bool {
		for _, h := range header {
			if h == candidate {
				return true
			}
		}
		return false
	}
	out := name
	for taken(out) {
		out += RightSuffix
	}
	return out
}
