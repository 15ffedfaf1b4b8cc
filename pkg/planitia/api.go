// Package planitia is the programmatic entry point: sequence generation,
// neighbor expansion, flatness scoring and consensus extraction, with
// generated sets and reports kept in a run store.
package planitia

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"planitia/internal/consensus"
	"planitia/internal/dna"
	"planitia/internal/flatness"
	"planitia/internal/generate"
	"planitia/internal/model"
	"planitia/internal/neighbors"
	"planitia/internal/storage"
)

const defaultDBPath = "planitia.db"

var ErrNotFound = errors.New("not found")

type Options struct {
	StoreKind string
	DBPath    string
}

type Client struct {
	store storage.Store
	now   func() time.Time
	newID func() string
}

type GenerateRequest struct {
	Count int
	// Length and MinDistance fall back to the generator defaults when zero.
	Length      int
	MinDistance int
	Seed        int64
}

type GenerateSummary struct {
	SetID       string
	Sequences   []string
	Requested   int
	Attempts    int
	MaxAttempts int
	Shortfall   int
}

type ExpandRequest struct {
	// SetID expands a stored sequence set; Sequences is used when empty.
	SetID     string
	Sequences []string
}

// NeighborRow is one member of an expanded group. Member 0 is the parent.
type NeighborRow struct {
	GroupID  string
	Member   int
	Position int
	From     string
	To       string
	Sequence string
}

type ExpandSummary struct {
	SetID string
	Rows  []NeighborRow
}

type ScoreRequest struct {
	SourceSetID string
	Records     []model.FitnessRecord
	// Curve, when set, maps each record's value to fitness before scoring.
	Curve *flatness.Curve
}

type ScoreSummary struct {
	ReportID string
	Scores   []model.FlatnessScore
	Skipped  []model.GroupSkip
}

type ExtractRequest struct {
	Reference string
	VCF       string
	Locus     consensus.Locus
	// Samples defaults to every sample in the VCF.
	Samples []string
	Runner  consensus.Runner
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{
		store: store,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

func (c *Client) Generate(ctx context.Context, req GenerateRequest) (GenerateSummary, error) {
	if req.Length == 0 {
		req.Length = generate.DefaultLength
	}
	if req.MinDistance == 0 {
		req.MinDistance = generate.DefaultMinDistance
	}
	if err := c.store.Init(ctx); err != nil {
		return GenerateSummary{}, err
	}

	res, err := generate.Generate(ctx, generate.Options{
		Count:       req.Count,
		Length:      req.Length,
		MinDistance: req.MinDistance,
		Seed:        req.Seed,
	})
	if err != nil {
		return GenerateSummary{}, err
	}

	set := model.SequenceSet{
		VersionedRecord: storage.CurrentVersion(),
		ID:              c.newID(),
		Length:          req.Length,
		MinDistance:     req.MinDistance,
		Seed:            req.Seed,
		Requested:       res.Requested,
		Attempts:        res.Attempts,
		MaxAttempts:     res.MaxAttempts,
		Sequences:       res.Sequences,
		CreatedAtUTC:    model.FormatTimestamp(c.now()),
	}
	if err := c.store.SaveSequenceSet(ctx, set); err != nil {
		return GenerateSummary{}, fmt.Errorf("save sequence set: %w", err)
	}

	return GenerateSummary{
		SetID:       set.ID,
		Sequences:   append([]string(nil), res.Sequences...),
		Requested:   res.Requested,
		Attempts:    res.Attempts,
		MaxAttempts: res.MaxAttempts,
		Shortfall:   res.Shortfall(),
	}, nil
}

func (c *Client) SequenceSet(ctx context.Context, id string) (model.SequenceSet, error) {
	if err := c.store.Init(ctx); err != nil {
		return model.SequenceSet{}, err
	}
	set, ok, err := c.store.GetSequenceSet(ctx, id)
	if err != nil {
		return model.SequenceSet{}, err
	}
	if !ok {
		return model.SequenceSet{}, fmt.Errorf("sequence set %s: %w", id, ErrNotFound)
	}
	return set, nil
}

// Runs lists stored sequence sets, newest first. limit <= 0 lists all.
func (c *Client) Runs(ctx context.Context, limit int) ([]model.SequenceSet, error) {
	if err := c.store.Init(ctx); err != nil {
		return nil, err
	}
	sets, err := c.store.ListSequenceSets(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(sets) > limit {
		sets = sets[:limit]
	}
	return sets, nil
}

func (c *Client) Expand(ctx context.Context, req ExpandRequest) (ExpandSummary, error) {
	sequences := req.Sequences
	if req.SetID != "" {
		set, err := c.SequenceSet(ctx, req.SetID)
		if err != nil {
			return ExpandSummary{}, err
		}
		sequences = set.Sequences
	}

	variants, err := neighbors.ExpandAnnotated(sequences, dna.Nucleotides)
	if err != nil {
		return ExpandSummary{}, err
	}
	rows := make([]NeighborRow, 0, len(variants))
	member := 0
	for i, v := range variants {
		if i > 0 && v.Parent != variants[i-1].Parent {
			member = 0
		}
		row := NeighborRow{
			GroupID:  strconv.Itoa(v.Parent),
			Member:   member,
			Position: v.Position,
			Sequence: v.Sequence,
		}
		if v.Position >= 0 {
			row.From = string(v.From)
			row.To = string(v.To)
		}
		rows = append(rows, row)
		member++
	}
	return ExpandSummary{SetID: req.SetID, Rows: rows}, nil
}

func (c *Client) Score(ctx context.Context, req ScoreRequest) (ScoreSummary, error) {
	if req.Curve != nil && req.Curve.Len() == 0 {
		return ScoreSummary{}, fmt.Errorf("%w: fitness curve has no points; build it with flatness.NewCurve", model.ErrInvalidArgument)
	}
	if err := c.store.Init(ctx); err != nil {
		return ScoreSummary{}, err
	}
	records := req.Records
	if req.Curve != nil {
		records = make([]model.FitnessRecord, len(req.Records))
		for i, r := range req.Records {
			r.Fitness = req.Curve.At(r.Fitness)
			records[i] = r
		}
	}

	scores, skipped := flatness.Split(flatness.ScoreGroups(records))
	report := model.FlatnessReport{
		VersionedRecord: storage.CurrentVersion(),
		ID:              c.newID(),
		SourceSetID:     req.SourceSetID,
		Scores:          scores,
		Skipped:         skipped,
		CreatedAtUTC:    model.FormatTimestamp(c.now()),
	}
	if err := c.store.SaveFlatnessReport(ctx, report); err != nil {
		return ScoreSummary{}, fmt.Errorf("save flatness report: %w", err)
	}
	return ScoreSummary{ReportID: report.ID, Scores: scores, Skipped: skipped}, nil
}

func (c *Client) Report(ctx context.Context, id string) (model.FlatnessReport, error) {
	if err := c.store.Init(ctx); err != nil {
		return model.FlatnessReport{}, err
	}
	report, ok, err := c.store.GetFlatnessReport(ctx, id)
	if err != nil {
		return model.FlatnessReport{}, err
	}
	if !ok {
		return model.FlatnessReport{}, fmt.Errorf("flatness report %s: %w", id, ErrNotFound)
	}
	return report, nil
}

func (c *Client) ExtractConsensus(ctx context.Context, req ExtractRequest) ([]consensus.Result, error) {
	ex := &consensus.Extractor{
		Runner:    req.Runner,
		Reference: req.Reference,
		VCF:       req.VCF,
		Locus:     req.Locus,
	}
	if err := req.Locus.Validate(); err != nil {
		return nil, err
	}
	samples := req.Samples
	if len(samples) == 0 {
		listed, err := ex.ListSamples(ctx)
		if err != nil {
			return nil, err
		}
		samples = listed
	}
	return ex.ExtractAll(ctx, samples)
}
