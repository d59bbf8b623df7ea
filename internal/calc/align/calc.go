package align

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/interp"
)

var ErrEmptyCurve = errors.New("curve has no points")

// Affine rescales the experimental X axis: X' = Scale*X + Offset.
type Affine struct {
	Scale  float64 `json:"scale"`
	Offset float64 `json:"offset"`
}

func (a Affine) Apply(x float64) float64 {
	return a.Scale*x + a.Offset
}

func (a Affine) Invert(x float64) float64 {
	return (x - a.Offset) / a.Scale
}

// Interpolator is a piecewise-linear curve over points sorted by X.
// Queries outside the X domain return the nearest boundary Y.
type Interpolator struct {
	pl   interp.PiecewiseLinear
	xs   []float64
	ys   []float64
	flat bool
}

// NewInterpolator sorts the points by X (stable) and keeps the first Y for
// repeated X values.
func NewInterpolator(xs, ys []float64) (*Interpolator, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("interpolator: %d x values, %d y values", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return nil, ErrEmptyCurve
	}

	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return xs[idx[i]] < xs[idx[j]] })

	sx := make([]float64, 0, len(xs))
	sy := make([]float64, 0, len(ys))
	for _, i := range idx {
		if n := len(sx); n > 0 && xs[i] == sx[n-1] {
			continue
		}
		sx = append(sx, xs[i])
		sy = append(sy, ys[i])
	}

	ip := &Interpolator{xs: sx, ys: sy}
	if len(sx) == 1 {
		ip.flat = true
		return ip, nil
	}
	if err := ip.pl.Fit(sx, sy); err != nil {
		return nil, fmt.Errorf("interpolator: %w", err)
	}
	return ip, nil
}

func (ip *Interpolator) At(x float64) float64 {
	if ip.flat {
		return ip.ys[0]
	}
	return ip.pl.Predict(x)
}

func (ip *Interpolator) AtEach(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = ip.At(x)
	}
	return out
}

// Domain returns the smallest and largest X covered by the curve.
func (ip *Interpolator) Domain() (float64, float64) {
	return ip.xs[0], ip.xs[len(ip.xs)-1]
}
