package consensus

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"planitia/internal/dna"
)

var ErrEmptyConsensus = errors.New("empty consensus sequence")

const (
	SkipToolFailed     = "tool_failed"
	SkipEmptyConsensus = "empty_consensus"
)

type Extractor struct {
	Runner    Runner
	Reference string
	VCF       string
	Locus     Locus
	// Samtools and Bcftools default to the binaries on PATH.
	Samtools string
	Bcftools string
}

// Result is the tagged outcome for one sample: Sequence when OK, otherwise
// SkipReason and Detail say why the sample was left out.
type Result struct {
	Sample     string
	Sequence   string
	SkipReason string
	Detail     string
}

func (r Result) OK() bool {
	return r.SkipReason == ""
}

func (e *Extractor) runner() Runner {
	if e.Runner == nil {
		return ExecRunner{}
	}
	return e.Runner
}

func (e *Extractor) samtools() string {
	if e.Samtools == "" {
		return "samtools"
	}
	return e.Samtools
}

func (e *Extractor) bcftools() string {
	if e.Bcftools == "" {
		return "bcftools"
	}
	return e.Bcftools
}

// ListSamples returns the sample names recorded in the VCF header.
func (e *Extractor) ListSamples(ctx context.Context) ([]string, error) {
	if strings.TrimSpace(e.VCF) == "" {
		return nil, fmt.Errorf("vcf path is required")
	}
	out, err := e.runner().Run(ctx, nil, e.bcftools(), "query", "-l", e.VCF)
	if err != nil {
		return nil, fmt.Errorf("list samples in %s: %w", e.VCF, err)
	}
	var samples []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			samples = append(samples, name)
		}
	}
	return samples, scanner.Err()
}

// Extract returns the oriented, window-truncated consensus for one sample.
func (e *Extractor) Extract(ctx context.Context, sample string) (string, error) {
	region, err := e.fetchRegion(ctx)
	if err != nil {
		return "", err
	}
	return e.consensusFor(ctx, region, sample)
}

// fetchRegion runs samtools faidx for the locus. Its output is the same
// for every sample.
func (e *Extractor) fetchRegion(ctx context.Context) ([]byte, error) {
	if err := e.Locus.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(e.Reference) == "" || strings.TrimSpace(e.VCF) == "" {
		return nil, fmt.Errorf("reference and vcf paths are required")
	}
	region, err := e.runner().Run(ctx, nil, e.samtools(), "faidx", e.Reference, e.Locus.Region())
	if err != nil {
		return nil, fmt.Errorf("faidx %s: %w", e.Locus.Region(), err)
	}
	if firstRecordSequence(region) == "" {
		return nil, fmt.Errorf("faidx %s: no sequence for region in %s", e.Locus.Region(), e.Reference)
	}
	return region, nil
}

func (e *Extractor) consensusFor(ctx context.Context, region []byte, sample string) (string, error) {
	fasta, err := e.runner().Run(ctx, bytes.NewReader(region), e.bcftools(), "consensus", "-s", sample, e.VCF)
	if err != nil {
		return "", fmt.Errorf("consensus %s: %w", sample, err)
	}

	seq := firstRecordSequence(fasta)
	if seq == "" {
		return "", fmt.Errorf("consensus %s: %w", sample, ErrEmptyConsensus)
	}
	if e.Locus.Strand == Minus {
		seq = dna.ReverseComplement(seq)
	} else {
		seq = strings.ToUpper(seq)
	}
	if w := e.Locus.Window; w > 0 && len(seq) > w {
		seq = seq[:w]
	}
	return seq, nil
}

// ExtractAll extracts every sample against one faidx region. A failure to
// fetch the region aborts the batch. A sample whose consensus run exits
// non-zero or yields no sequence is skipped with a reason; any other
// failure, such as a missing binary or a cancelled context, stops the
// batch.
func (e *Extractor) ExtractAll(ctx context.Context, samples []string) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	region, err := e.fetchRegion(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(samples))
	for _, sample := range samples {
		seq, err := e.consensusFor(ctx, region, sample)
		if err == nil {
			results = append(results, Result{Sample: sample, Sequence: seq})
			continue
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		var toolErr *ToolError
		switch {
		case errors.As(err, &toolErr):
			results = append(results, Result{Sample: sample, SkipReason: SkipToolFailed, Detail: toolErr.Error()})
		case errors.Is(err, ErrEmptyConsensus):
			results = append(results, Result{Sample: sample, SkipReason: SkipEmptyConsensus})
		default:
			return nil, err
		}
	}
	return results, nil
}

// firstRecordSequence joins the sequence lines of the first FASTA record.
func firstRecordSequence(data []byte) string {
	var b strings.Builder
	seenHeader := false
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, ">") {
			if seenHeader {
				break
			}
			seenHeader = true
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}
