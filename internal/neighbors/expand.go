// Package neighbors enumerates single-substitution neighborhoods.
//
// The enumeration order is part of the contract: downstream fitness tables
// associate the i-th measurement of a group with the i-th sequence emitted
// here. For a parent of length L over an alphabet of size K the group is
// the parent followed by L*(K-1) variants, position by position from the
// left, each position substituted with every other symbol in alphabet
// order.
package neighbors

import (
	"fmt"

	"planitia/internal/dna"
)

// Variant is one emitted member of a neighborhood. The parent itself has
// Position -1.
type Variant struct {
	Parent   int
	Position int
	From     byte
	To       byte
	Sequence string
}

// GroupSize returns the number of sequences Expand emits per parent.
func GroupSize(length int, alphabet dna.Alphabet) int {
	return 1 + length*(alphabet.Size()-1)
}

// Expand returns, for every input, the input followed by all of its
// single-substitution neighbors over dna.Nucleotides.
func Expand(sequences []string) ([]string, error) {
	variants, err := ExpandAnnotated(sequences, dna.Nucleotides)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(variants))
	for i, v := range variants {
		out[i] = v.Sequence
	}
	return out, nil
}

// ExpandAnnotated is Expand over an arbitrary alphabet, returning the
// substitution behind every emitted sequence.
func ExpandAnnotated(sequences []string, alphabet dna.Alphabet) ([]Variant, error) {
	total := 0
	normalized := make([]string, len(sequences))
	for i, raw := range sequences {
		seq := dna.Normalize(raw)
		if err := alphabet.Validate(seq); err != nil {
			return nil, fmt.Errorf("sequence %d: %w", i, err)
		}
		normalized[i] = seq
		total += GroupSize(len(seq), alphabet)
	}

	out := make([]Variant, 0, total)
	for parent, seq := range normalized {
		out = append(out, Variant{Parent: parent, Position: -1, Sequence: seq})
		buf := []byte(seq)
		for pos := 0; pos < len(buf); pos++ {
			orig := buf[pos]
			for k := 0; k < alphabet.Size(); k++ {
				sym := alphabet[k]
				if sym == orig {
					continue
				}
				buf[pos] = sym
				out = append(out, Variant{
					Parent:   parent,
					Position: pos,
					From:     orig,
					To:       sym,
					Sequence: string(buf),
				})
			}
			buf[pos] = orig
		}
	}
	return out, nil
}
