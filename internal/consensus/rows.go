package consensus

import "planitia/internal/dataextract"

var rowHeader = []string{"Strain", "Gene", "Environment", "Sequence"}

// Rows lays out successful results as one row per sample and environment.
// Skipped samples contribute no rows.
func Rows(results []Result, locus Locus, environments []string) dataextract.Table {
	if len(environments) == 0 {
		environments = []string{""}
	}
	table := dataextract.Table{Header: append([]string(nil), rowHeader...)}
	for _, r := range results {
		if !r.OK() {
			continue
		}
		for _, env := range environments {
			table.Rows = append(table.Rows, []string{r.Sample, locus.Gene, env, r.Sequence})
		}
	}
	return table
}

// Skips lays out skipped samples with their reasons.
func Skips(results []Result) dataextract.Table {
	table := dataextract.Table{Header: []string{"Strain", "Reason", "Detail"}}
	for _, r := range results {
		if r.OK() {
			continue
		}
		table.Rows = append(table.Rows, []string{r.Sample, r.SkipReason, r.Detail})
	}
	return table
}
