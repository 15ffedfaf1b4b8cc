package dna

import (
	"fmt"

	"planitia/internal/model"
)

var ErrLengthMismatch = fmt.Errorf("%w: sequence length mismatch", model.ErrInvalidArgument)

// Distance returns the number of positions at which a and b differ.
// Sequences of different length are rejected; use TruncatedDistance to
// compare over the shorter prefix instead.
func Distance(a, b string) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(a), len(b))
	}
	return mismatches(a, b, len(a)), nil
}

// TruncatedDistance compares a and b over min(len(a), len(b)) positions.
func TruncatedDistance(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	return mismatches(a, b, n)
}

func mismatches(a, b string, n int) int {
	count := 0
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			count++
		}
	}
	return count
}
