package dataextract

import (
	"fmt"
	"sort"
)

// Condition selects rows of a table.
type Condition struct {
	Column string
	Values []string
}

// In keeps rows whose column value is one of values.
func In(column string, values ...string) Condition {
	return Condition{Column: column, Values: values}
}

// Equals keeps rows whose column value is value.
func Equals(column, value string) Condition {
	return Condition{Column: column, Values: []string{value}}
}

// Filter returns the rows satisfying every condition.
func Filter(table Table, conds ...Condition) (Table, error) {
	type compiled struct {
		col     int
		allowed map[string]struct{}
	}
	checks := make([]compiled, 0, len(conds))
	for _, c := range conds {
		col := table.ColumnIndex(c.Column)
		if col < 0 {
			return Table{}, fmt.Errorf("filter: %w", missingColumnError([]string{c.Column}, table.Header))
		}
		allowed := make(map[string]struct{}, len(c.Values))
		for _, v := range c.Values {
			allowed[v] = struct{}{}
		}
		checks = append(checks, compiled{col: col, allowed: allowed})
	}

	out := Table{Header: append([]string(nil), table.Header...)}
	for _, row := range table.Rows {
		keep := true
		for _, c := range checks {
			if _, ok := c.allowed[Value(row, c.col)]; !ok {
				keep = false
				break
			}
		}
		if keep {
			out.Rows = append(out.Rows, append([]string(nil), row...))
		}
	}
	return out, nil
}

type ValueCount struct {
	Value string
	Count int
}

// ValueCounts tallies a column, most frequent first and ties by value.
func ValueCounts(table Table, column string) ([]ValueCount, error) {
	values, err := table.Column(column)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	return out, nil
}
