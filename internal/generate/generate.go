// Package generate builds sets of random sequences whose members are
// pairwise at least a minimum Hamming distance apart.
//
// Candidates are drawn uniformly and accepted only when they clear the
// distance threshold against every sequence accepted so far, so the cost of
// one acceptance check grows with the set: O(n²·length) comparisons in the
// worst case. That is fine for the few hundred sequences an experiment
// orders and is the scaling limit to keep in mind above that.
package generate

import (
	"context"
	"fmt"
	"math/rand"

	"planitia/internal/dna"
	"planitia/internal/model"
)

const (
	DefaultLength      = 80
	DefaultMinDistance = 30

	// AttemptsPerSequence bounds the search at AttemptsPerSequence*Count draws.
	AttemptsPerSequence = 100
)

type Options struct {
	Count       int
	Length      int
	MinDistance int
	Seed        int64
	// Alphabet defaults to dna.Nucleotides.
	Alphabet dna.Alphabet
}

// Result is the outcome of one bounded search. Fewer sequences than
// requested is a normal outcome, reported through Shortfall.
type Result struct {
	Sequences   []string
	Requested   int
	Attempts    int
	MaxAttempts int
}

func (r Result) Shortfall() int {
	if missing := r.Requested - len(r.Sequences); missing > 0 {
		return missing
	}
	return 0
}

func (r Result) Complete() bool {
	return r.Shortfall() == 0
}

func (o Options) validate() error {
	if o.Count <= 0 {
		return fmt.Errorf("%w: count must be positive, got %d", model.ErrInvalidArgument, o.Count)
	}
	if o.Length <= 0 {
		return fmt.Errorf("%w: length must be positive, got %d", model.ErrInvalidArgument, o.Length)
	}
	if o.MinDistance <= 0 {
		return fmt.Errorf("%w: min distance must be positive, got %d", model.ErrInvalidArgument, o.MinDistance)
	}
	if o.MinDistance > o.Length {
		return fmt.Errorf("%w: min distance %d exceeds sequence length %d", model.ErrInvalidArgument, o.MinDistance, o.Length)
	}
	return nil
}

// Generate runs rejection sampling until opts.Count sequences are accepted
// or the attempt budget is spent. The same options always produce the same
// result.
func Generate(ctx context.Context, opts Options) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	alphabet := opts.Alphabet
	if alphabet == "" {
		alphabet = dna.Nucleotides
	}
	if alphabet.Size() < 2 {
		return Result{}, fmt.Errorf("%w: alphabet needs at least two symbols", model.ErrInvalidArgument)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	result := Result{
		Sequences:   make([]string, 0, opts.Count),
		Requested:   opts.Count,
		MaxAttempts: AttemptsPerSequence * opts.Count,
	}
	buf := make([]byte, opts.Length)
	for len(result.Sequences) < opts.Count && result.Attempts < result.MaxAttempts {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		result.Attempts++

		for i := range buf {
			buf[i] = alphabet[rng.Intn(alphabet.Size())]
		}
		candidate := string(buf)
		if farFromAll(candidate, result.Sequences, opts.MinDistance) {
			result.Sequences = append(result.Sequences, candidate)
		}
	}
	return result, nil
}

func farFromAll(candidate string, accepted []string, minDistance int) bool {
	for _, seq := range accepted {
		// equal lengths by construction
		if dna.TruncatedDistance(candidate, seq) < minDistance {
			return false
		}
	}
	return true
}
