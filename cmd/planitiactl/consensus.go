package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"planitia/internal/consensus"
	"planitia/internal/dataextract"
	api "planitia/pkg/planitia"
)

func runConsensus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("consensus", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional JSON run config")
	refPath := fs.String("ref", "", "indexed reference FASTA path")
	vcfPath := fs.String("vcf", "", "indexed multi-sample VCF path")
	gene := fs.String("gene", "", "gene name written to the output rows")
	chrom := fs.String("chrom", "", "chromosome of the promoter region")
	start := fs.Int("start", 0, "1-based region start")
	end := fs.Int("end", 0, "1-based inclusive region end")
	strand := fs.String("strand", string(consensus.Plus), "gene strand: +|-")
	window := fs.Int("window", 80, "keep this many bases of each consensus; 0 keeps all")
	envs := fs.String("env", "YPD,SD", "comma-separated environments, one output row each")
	samples := fs.String("samples", "", "comma-separated samples (default: all samples in the VCF)")
	outPath := fs.String("out", "", "CSV output path")
	skippedOut := fs.String("skipped-out", "", "optional CSV path listing skipped samples")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := resolveRunConfig(*configPath, visited(fs), map[string]any{
		"ref":         *refPath,
		"vcf":         *vcfPath,
		"gene":        *gene,
		"chrom":       *chrom,
		"start":       *start,
		"end":         *end,
		"strand":      *strand,
		"window":      *window,
		"env":         *envs,
		"out":         *outPath,
		"skipped-out": *skippedOut,
	})
	if err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Reference) == "" || strings.TrimSpace(cfg.VCF) == "" {
		return errors.New("consensus requires --ref and --vcf")
	}
	if strings.TrimSpace(cfg.Out) == "" {
		return errors.New("consensus requires --out")
	}

	// The client is only used for tool orchestration here; nothing is stored.
	client, err := api.New(api.Options{StoreKind: "memory"})
	if err != nil {
		return err
	}
	defer client.Close()

	results, err := client.ExtractConsensus(ctx, api.ExtractRequest{
		Reference: cfg.Reference,
		VCF:       cfg.VCF,
		Locus:     cfg.Locus,
		Samples:   splitList(*samples),
	})
	if err != nil {
		return err
	}

	skipped := 0
	for _, r := range results {
		if r.OK() {
			continue
		}
		skipped++
		fmt.Fprintf(os.Stderr, "warning skipped sample=%s reason=%s detail=%q\n", r.Sample, r.SkipReason, r.Detail)
	}

	rows := consensus.Rows(results, cfg.Locus, cfg.Environments)
	if err := dataextract.WriteCSVFile(cfg.Out, rows); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.SkippedOut) != "" {
		if err := dataextract.WriteCSVFile(cfg.SkippedOut, consensus.Skips(results)); err != nil {
			return err
		}
	}
	fmt.Printf("consensus gene=%s region=%s samples=%d extracted=%d skipped=%d rows=%d path=%s\n",
		cfg.Locus.Gene,
		cfg.Locus.Region(),
		len(results),
		len(results)-skipped,
		skipped,
		len(rows.Rows),
		cfg.Out,
	)
	return nil
}
