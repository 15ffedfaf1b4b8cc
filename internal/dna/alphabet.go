// Package dna holds the nucleotide alphabet and the sequence primitives
// shared by generation, neighbor expansion and consensus extraction.
package dna

import (
	"fmt"
	"strings"
	"unicode"

	"planitia/internal/model"
)

var ErrInvalidSymbol = fmt.Errorf("%w: symbol outside alphabet", model.ErrInvalidArgument)

// Alphabet is an ordered set of single-byte symbols. The order is the
// canonical enumeration order for substitutions.
type Alphabet string

// Nucleotides is the canonical DNA alphabet.
const Nucleotides Alphabet = "ACGT"

func (a Alphabet) Size() int {
	return len(a)
}

// Index returns the position of b in the alphabet, or -1.
func (a Alphabet) Index(b byte) int {
	return strings.IndexByte(string(a), b)
}

func (a Alphabet) Contains(b byte) bool {
	return a.Index(b) >= 0
}

// Validate reports the first symbol of seq that is not in the alphabet.
func (a Alphabet) Validate(seq string) error {
	for i := 0; i < len(seq); i++ {
		if !a.Contains(seq[i]) {
			return fmt.Errorf("%w: %q at position %d (alphabet %s)", ErrInvalidSymbol, seq[i], i+1, string(a))
		}
	}
	return nil
}

// Normalize removes whitespace and quotes and upper-cases the sequence.
func Normalize(seq string) string {
	var b strings.Builder
	b.Grow(len(seq))
	for _, r := range seq {
		if unicode.IsSpace(r) || r == '\'' || r == '"' {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
