package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"planitia/internal/dataextract"
)

func runMerge(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	leftPath := fs.String("left", "", "left CSV path (every row is kept)")
	rightPath := fs.String("right", "", "right CSV path")
	leftKey := fs.String("left-key", "Strain", "left join column")
	rightKey := fs.String("right-key", "Standardized name", "right join column")
	cols := fs.String("cols", "", "comma-separated right columns to carry over (default: all)")
	headerMarker := fs.String("header-marker", "", "skip right-table lines before the first line containing this text")
	outPath := fs.String("out", "", "CSV output path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*leftPath) == "" || strings.TrimSpace(*rightPath) == "" {
		return errors.New("merge requires --left and --right")
	}
	if strings.TrimSpace(*outPath) == "" {
		return errors.New("merge requires --out")
	}

	left, err := dataextract.ReadCSVFile(*leftPath, dataextract.ReadOptions{})
	if err != nil {
		return err
	}
	right, err := dataextract.ReadCSVFile(*rightPath, dataextract.ReadOptions{HeaderMarker: *headerMarker})
	if err != nil {
		return err
	}

	if err := dataextract.TrimColumns(&left, *leftKey); err != nil {
		return fmt.Errorf("left table: %w", err)
	}
	if err := dataextract.TrimColumns(&right, *rightKey); err != nil {
		return fmt.Errorf("right table: %w", err)
	}

	columns := splitList(*cols)
	if len(columns) == 0 {
		for _, h := range right.Header {
			if h != *rightKey {
				columns = append(columns, h)
			}
		}
	}
	merged, err := dataextract.LeftJoin(left, right, *leftKey, *rightKey, columns)
	if err != nil {
		return err
	}
	if err := dataextract.WriteCSVFile(*outPath, merged); err != nil {
		return err
	}
	fmt.Printf("merged rows=%d columns=%d path=%s\n", len(merged.Rows), len(merged.Header), *outPath)
	return nil
}

func runFilter(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("filter", flag.ContinueOnError)
	inPath := fs.String("in", "", "input CSV path")
	column := fs.String("column", "Origin_Type,Ecological origins", "comma-separated candidate names of the column to match")
	values := fs.String("values", "", "comma-separated accepted values for --column")
	where := fs.String("where", "", "comma-separated column=value equality conditions")
	countCol := fs.String("count-col", "", "print value counts of this column after filtering")
	statsCol := fs.String("stats-col", "", "print min/avg/max of this numeric column after filtering")
	drop := fs.String("drop", "", "comma-separated columns to leave out of --out")
	outPath := fs.String("out", "", "optional CSV output path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*inPath) == "" {
		return errors.New("filter requires --in")
	}

	table, err := dataextract.ReadCSVFile(*inPath, dataextract.ReadOptions{})
	if err != nil {
		return err
	}

	var conds []dataextract.Condition
	if accepted := splitList(*values); len(accepted) > 0 {
		name, err := dataextract.ResolveColumn(table, splitList(*column)...)
		if err != nil {
			return err
		}
		conds = append(conds, dataextract.In(name, accepted...))
	}
	for _, clause := range splitList(*where) {
		name, value, ok := strings.Cut(clause, "=")
		if !ok {
			return fmt.Errorf("invalid --where clause %q: want column=value", clause)
		}
		conds = append(conds, dataextract.Equals(strings.TrimSpace(name), strings.TrimSpace(value)))
	}

	filtered, err := dataextract.Filter(table, conds...)
	if err != nil {
		return err
	}
	fmt.Printf("filtered rows_in=%d rows_out=%d\n", len(table.Rows), len(filtered.Rows))

	if name := strings.TrimSpace(*countCol); name != "" {
		counts, err := dataextract.ValueCounts(filtered, name)
		if err != nil {
			return err
		}
		for _, c := range counts {
			fmt.Printf("count column=%s value=%q n=%d\n", name, c.Value, c.Count)
		}
	}
	if name := strings.TrimSpace(*statsCol); name != "" {
		stats, err := dataextract.NumericStats(filtered, name)
		if err != nil {
			return err
		}
		fmt.Printf("stats column=%s count=%d min=%g avg=%g max=%g\n", name, stats.Count, stats.Min, stats.Avg, stats.Max)
	}

	if strings.TrimSpace(*outPath) != "" {
		filtered = dataextract.DropColumns(filtered, splitList(*drop)...)
		if err := dataextract.WriteCSVFile(*outPath, filtered); err != nil {
			return err
		}
		fmt.Printf("wrote path=%s rows=%d\n", *outPath, len(filtered.Rows))
	}
	return nil
}
