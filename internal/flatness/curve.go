package flatness

import (
	"fmt"
	"math"
	"sort"

	"planitia/internal/model"
)

// Curve maps a predicted value to fitness by linear interpolation between
// measured points. Inputs outside the measured range take the fitness of
// the nearest end point.
type Curve struct {
	x []float64
	y []float64
}

func NewCurve(x, y []float64) (Curve, error) {
	if len(x) == 0 {
		return Curve{}, fmt.Errorf("%w: curve needs at least one point", model.ErrInvalidArgument)
	}
	if len(x) != len(y) {
		return Curve{}, fmt.Errorf("%w: curve has %d x values and %d y values", model.ErrInvalidArgument, len(x), len(y))
	}
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			return Curve{}, fmt.Errorf("%w: curve point %d is NaN", model.ErrInvalidArgument, i)
		}
		if i > 0 && x[i] < x[i-1] {
			return Curve{}, fmt.Errorf("%w: curve x values must be non-decreasing (index %d)", model.ErrInvalidArgument, i)
		}
	}
	return Curve{
		x: append([]float64(nil), x...),
		y: append([]float64(nil), y...),
	}, nil
}

// Len is the number of points; the zero Curve has none.
func (c Curve) Len() int {
	return len(c.x)
}

// At interpolates v. A Curve with no points returns v unchanged.
func (c Curve) At(v float64) float64 {
	n := len(c.x)
	if n == 0 {
		return v
	}
	if v <= c.x[0] {
		return c.y[0]
	}
	if v >= c.x[n-1] {
		return c.y[n-1]
	}
	// first index with x > v; 1 <= hi <= n-1 here
	hi := sort.Search(n, func(i int) bool { return c.x[i] > v })
	lo := hi - 1
	t := (v - c.x[lo]) / (c.x[hi] - c.x[lo])
	return c.y[lo] + t*(c.y[hi]-c.y[lo])
}

// Map interpolates every value.
func (c Curve) Map(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = c.At(v)
	}
	return out
}
