package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"planitia/internal/artifacts"
	"planitia/internal/dataextract"
	"planitia/internal/flatness"
	"planitia/internal/model"
	"planitia/internal/storage"
	api "planitia/pkg/planitia"
)

const (
	defaultDBPath = "planitia.db"
	exportsDir    = "exports"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "generate":
		return runGenerate(ctx, args[1:])
	case "neighbors":
		return runNeighbors(ctx, args[1:])
	case "flatness":
		return runFlatness(ctx, args[1:])
	case "report":
		return runReport(ctx, args[1:])
	case "consensus":
		return runConsensus(ctx, args[1:])
	case "merge":
		return runMerge(ctx, args[1:])
	case "filter":
		return runFilter(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func storeFlags(fs *flag.FlagSet) (*string, *string) {
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	return storeKind, dbPath
}

func openClient(ctx context.Context, storeKind, dbPath string) (*api.Client, error) {
	client, err := api.New(api.Options{StoreKind: storeKind, DBPath: dbPath})
	if err != nil {
		return nil, err
	}
	if err := client.Init(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// requireStoredRecords rejects commands that read earlier runs when the
// store starts empty on every invocation.
func requireStoredRecords(command, storeKind string) error {
	if storage.Persistent(storeKind) {
		return nil
	}
	return fmt.Errorf("%s reads records saved by earlier commands, but the %s store does not outlive a single invocation; use --store sqlite (build with -tags sqlite)", command, storeKind)
}

func visited(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

func runGenerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional JSON run config")
	count := fs.Int("count", 0, "number of sequences to generate")
	length := fs.Int("length", 80, "sequence length")
	minDistance := fs.Int("min-distance", 30, "minimum pairwise Hamming distance")
	seed := fs.Int64("seed", 1, "random seed")
	outPath := fs.String("out", "", "optional CSV output path")
	storeKind, dbPath := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := resolveRunConfig(*configPath, visited(fs), map[string]any{
		"count":        *count,
		"length":       *length,
		"min-distance": *minDistance,
		"seed":         *seed,
		"out":          *outPath,
	})
	if err != nil {
		return err
	}
	if cfg.Count <= 0 {
		return errors.New("generate requires --count > 0")
	}

	client, err := openClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer client.Close()

	summary, err := client.Generate(ctx, api.GenerateRequest{
		Count:       cfg.Count,
		Length:      cfg.Length,
		MinDistance: cfg.MinDistance,
		Seed:        cfg.Seed,
	})
	if err != nil {
		return err
	}
	fmt.Printf("generated set_id=%s requested=%d accepted=%d attempts=%d max_attempts=%d\n",
		summary.SetID,
		summary.Requested,
		len(summary.Sequences),
		summary.Attempts,
		summary.MaxAttempts,
	)
	if summary.Shortfall > 0 {
		fmt.Fprintf(os.Stderr, "warning shortfall set_id=%s missing=%d attempts=%d\n", summary.SetID, summary.Shortfall, summary.Attempts)
	}

	if strings.TrimSpace(cfg.Out) != "" {
		table := dataextract.Table{Header: []string{"sequence"}}
		for _, seq := range summary.Sequences {
			table.Rows = append(table.Rows, []string{seq})
		}
		if err := dataextract.WriteCSVFile(cfg.Out, table); err != nil {
			return err
		}
		fmt.Printf("wrote path=%s rows=%d\n", cfg.Out, len(table.Rows))
	}
	return nil
}

func runNeighbors(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("neighbors", flag.ContinueOnError)
	setID := fs.String("set-id", "", "stored sequence set to expand")
	inPath := fs.String("in", "", "CSV of sequences to expand")
	seqCol := fs.String("seq-col", "sequence", "sequence column name for --in")
	seqs := fs.String("seq", "", "comma-separated sequences to expand")
	outPath := fs.String("out", "", "CSV output path")
	storeKind, dbPath := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*outPath) == "" {
		return errors.New("neighbors requires --out")
	}

	req := api.ExpandRequest{SetID: strings.TrimSpace(*setID)}
	switch {
	case req.SetID != "":
		if err := requireStoredRecords("neighbors --set-id", *storeKind); err != nil {
			return err
		}
	case strings.TrimSpace(*inPath) != "":
		table, err := dataextract.ReadCSVFile(*inPath, dataextract.ReadOptions{})
		if err != nil {
			return err
		}
		column, err := table.Column(*seqCol)
		if err != nil {
			return err
		}
		for _, seq := range column {
			if strings.TrimSpace(seq) != "" {
				req.Sequences = append(req.Sequences, seq)
			}
		}
	case strings.TrimSpace(*seqs) != "":
		req.Sequences = splitList(*seqs)
	default:
		return errors.New("neighbors requires one of --set-id, --in, --seq")
	}

	client, err := openClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer client.Close()

	summary, err := client.Expand(ctx, req)
	if err != nil {
		return err
	}
	table := dataextract.Table{Header: []string{"group", "member", "position", "from", "to", "sequence"}}
	for _, row := range summary.Rows {
		position := ""
		if row.Position >= 0 {
			position = strconv.Itoa(row.Position)
		}
		table.Rows = append(table.Rows, []string{
			row.GroupID,
			strconv.Itoa(row.Member),
			position,
			row.From,
			row.To,
			row.Sequence,
		})
	}
	if err := dataextract.WriteCSVFile(*outPath, table); err != nil {
		return err
	}
	fmt.Printf("expanded parents=%d rows=%d path=%s\n", countParents(summary.Rows), len(summary.Rows), *outPath)
	return nil
}

func countParents(rows []api.NeighborRow) int {
	n := 0
	for _, row := range rows {
		if row.Member == 0 {
			n++
		}
	}
	return n
}

func runFlatness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("flatness", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional JSON run config")
	inPath := fs.String("in", "", "fitness CSV path")
	groupCol := fs.String("group-col", "group", "group column name")
	seqCol := fs.String("sequence-col", "sequence", "sequence column name (optional in input)")
	fitnessCol := fs.String("fitness-col", "fitness", "fitness column name")
	curvePath := fs.String("curve", "", "optional CSV curve mapping values to fitness")
	curveXCol := fs.String("curve-x-col", "x", "curve input column name")
	curveYCol := fs.String("curve-y-col", "fitness", "curve fitness column name")
	sourceSetID := fs.String("source-set-id", "", "sequence set the fitness values were measured for")
	outPath := fs.String("out", "", "optional CSV output path")
	storeKind, dbPath := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := resolveRunConfig(*configPath, visited(fs), map[string]any{
		"in":            *inPath,
		"group-col":     *groupCol,
		"sequence-col":  *seqCol,
		"fitness-col":   *fitnessCol,
		"curve":         *curvePath,
		"curve-x-col":   *curveXCol,
		"curve-y-col":   *curveYCol,
		"source-set-id": *sourceSetID,
		"out":           *outPath,
	})
	if err != nil {
		return err
	}
	if strings.TrimSpace(cfg.In) == "" {
		return errors.New("flatness requires --in")
	}

	records, err := readFitnessRecords(cfg.In, cfg.GroupCol, cfg.SequenceCol, cfg.FitnessCol)
	if err != nil {
		return err
	}
	req := api.ScoreRequest{SourceSetID: cfg.SourceSetID, Records: records}
	if strings.TrimSpace(cfg.CurvePath) != "" {
		curve, err := readCurve(cfg.CurvePath, cfg.CurveXCol, cfg.CurveYCol)
		if err != nil {
			return err
		}
		req.Curve = &curve
	}

	client, err := openClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer client.Close()

	summary, err := client.Score(ctx, req)
	if err != nil {
		return err
	}
	for _, skip := range summary.Skipped {
		fmt.Fprintf(os.Stderr, "warning skipped group=%s reason=%s\n", skip.GroupID, skip.Reason)
	}
	fmt.Printf("scored report_id=%s groups=%d skipped=%d\n", summary.ReportID, len(summary.Scores), len(summary.Skipped))

	if strings.TrimSpace(cfg.Out) != "" {
		table := flatnessTable(summary.Scores, summary.Skipped)
		if err := dataextract.WriteCSVFile(cfg.Out, table); err != nil {
			return err
		}
		fmt.Printf("wrote path=%s rows=%d\n", cfg.Out, len(table.Rows))
	}
	return nil
}

// flatnessTable lists scored groups first in input order, then skipped
// groups with their reason.
func flatnessTable(scores []model.FlatnessScore, skipped []model.GroupSkip) dataextract.Table {
	table := dataextract.Table{Header: []string{"group", "fitness", "neighbors", "score", "status", "reason"}}
	for _, s := range scores {
		table.Rows = append(table.Rows, []string{
			s.GroupID,
			strconv.FormatFloat(s.Fitness, 'g', -1, 64),
			strconv.Itoa(s.NeighborCount),
			strconv.FormatFloat(s.Score, 'g', -1, 64),
			"ok",
			"",
		})
	}
	for _, s := range skipped {
		table.Rows = append(table.Rows, []string{s.GroupID, "", "", "", "skipped", s.Reason})
	}
	return table
}

func readFitnessRecords(path, groupCol, seqCol, fitnessCol string) ([]model.FitnessRecord, error) {
	table, err := dataextract.ReadCSVFile(path, dataextract.ReadOptions{})
	if err != nil {
		return nil, err
	}
	if err := dataextract.RequireColumns(table, groupCol, fitnessCol); err != nil {
		return nil, err
	}
	groupIdx := table.ColumnIndex(groupCol)
	fitnessIdx := table.ColumnIndex(fitnessCol)
	seqIdx := table.ColumnIndex(seqCol)

	records := make([]model.FitnessRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		group := strings.TrimSpace(dataextract.Value(row, groupIdx))
		if group == "" {
			return nil, fmt.Errorf("row %d: empty %s", i+1, groupCol)
		}
		record := model.FitnessRecord{GroupID: group, Sequence: strings.TrimSpace(dataextract.Value(row, seqIdx))}
		raw := strings.TrimSpace(dataextract.Value(row, fitnessIdx))
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse %s value %q: %w", i+1, fitnessCol, raw, err)
		}
		record.Fitness = value
		records = append(records, record)
	}
	return records, nil
}

func readCurve(path, xCol, yCol string) (flatness.Curve, error) {
	table, err := dataextract.ReadCSVFile(path, dataextract.ReadOptions{})
	if err != nil {
		return flatness.Curve{}, err
	}
	xs, err := parseFloatColumn(table, xCol)
	if err != nil {
		return flatness.Curve{}, err
	}
	ys, err := parseFloatColumn(table, yCol)
	if err != nil {
		return flatness.Curve{}, err
	}
	return flatness.NewCurve(xs, ys)
}

func parseFloatColumn(table dataextract.Table, name string) ([]float64, error) {
	column, err := table.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(column))
	for i, raw := range column {
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse %s value %q: %w", i+1, name, raw, err)
		}
		out = append(out, value)
	}
	return out, nil
}

func runReport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	reportID := fs.String("report-id", "", "flatness report id")
	storeKind, dbPath := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*reportID) == "" {
		return errors.New("report requires --report-id")
	}
	if err := requireStoredRecords("report", *storeKind); err != nil {
		return err
	}

	client, err := openClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer client.Close()

	report, err := client.Report(ctx, *reportID)
	if err != nil {
		return err
	}
	fmt.Printf("report id=%s source_set_id=%s created_at_utc=%s groups=%d skipped=%d\n",
		report.ID,
		report.SourceSetID,
		report.CreatedAtUTC,
		len(report.Scores),
		len(report.Skipped),
	)
	for _, s := range report.Scores {
		fmt.Printf("score group=%s fitness=%g neighbors=%d score=%g\n", s.GroupID, s.Fitness, s.NeighborCount, s.Score)
	}
	for _, s := range report.Skipped {
		fmt.Printf("skipped group=%s reason=%s\n", s.GroupID, s.Reason)
	}
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	storeKind, dbPath := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}
	if err := requireStoredRecords("runs", *storeKind); err != nil {
		return err
	}

	client, err := openClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer client.Close()

	sets, err := client.Runs(ctx, *limit)
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	for _, set := range sets {
		fmt.Printf("run set_id=%s created_at_utc=%s length=%d min_distance=%d seed=%d requested=%d accepted=%d attempts=%d\n",
			set.ID,
			set.CreatedAtUTC,
			set.Length,
			set.MinDistance,
			set.Seed,
			set.Requested,
			len(set.Sequences),
			set.Attempts,
		)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	setID := fs.String("set-id", "", "sequence set to export")
	reportID := fs.String("report-id", "", "flatness report to export")
	outDir := fs.String("out", exportsDir, "export directory")
	storeKind, dbPath := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*setID) == "" && strings.TrimSpace(*reportID) == "" {
		return errors.New("export requires --set-id or --report-id")
	}
	if err := requireStoredRecords("export", *storeKind); err != nil {
		return err
	}

	client, err := openClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer client.Close()

	if id := strings.TrimSpace(*setID); id != "" {
		set, err := client.SequenceSet(ctx, id)
		if err != nil {
			return err
		}
		dir, err := artifacts.WriteSequenceSet(*outDir, set)
		if err != nil {
			return err
		}
		fmt.Printf("exported kind=%s id=%s dir=%s\n", artifacts.KindSequenceSet, set.ID, dir)
	}
	if id := strings.TrimSpace(*reportID); id != "" {
		report, err := client.Report(ctx, id)
		if err != nil {
			return err
		}
		dir, err := artifacts.WriteFlatnessReport(*outDir, report)
		if err != nil {
			return err
		}
		fmt.Printf("exported kind=%s id=%s dir=%s\n", artifacts.KindFlatnessReport, report.ID, dir)
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: planitiactl <generate|neighbors|flatness|report|consensus|merge|filter|runs|export> [flags]", msg)
}
