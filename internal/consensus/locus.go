// Package consensus extracts per-sample consensus sequences of a reference
// window by applying each sample's VCF variants with samtools and bcftools.
package consensus

import (
	"fmt"
	"strings"

	"planitia/internal/model"
)

type Strand string

const (
	Plus  Strand = "+"
	Minus Strand = "-"
)

// Locus is a reference window. Start and End are 1-based and inclusive,
// as samtools expects them.
type Locus struct {
	Gene   string `json:"gene"`
	Chrom  string `json:"chrom"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Strand Strand `json:"strand"`
	// Window truncates the oriented consensus; 0 keeps it whole.
	Window int `json:"window"`
}

func (l Locus) Region() string {
	return fmt.Sprintf("%s:%d-%d", l.Chrom, l.Start, l.End)
}

func (l Locus) Validate() error {
	if strings.TrimSpace(l.Chrom) == "" {
		return fmt.Errorf("%w: locus chromosome is required", model.ErrInvalidArgument)
	}
	if l.Start <= 0 || l.End < l.Start {
		return fmt.Errorf("%w: locus range %d-%d is invalid", model.ErrInvalidArgument, l.Start, l.End)
	}
	switch l.Strand {
	case Plus, Minus, "":
	default:
		return fmt.Errorf("%w: locus strand must be + or -, got %q", model.ErrInvalidArgument, l.Strand)
	}
	if l.Window < 0 {
		return fmt.Errorf("%w: locus window must not be negative", model.ErrInvalidArgument)
	}
	return nil
}
