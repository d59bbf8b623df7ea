package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrLengthMismatch = errors.New("series length mismatch")

type Input struct {
	// Theoretical sample points and the experimental curve interpolated onto them.
	DisplacementMM  []float64 `json:"displacement_mm"`
	TheoreticalMPa  []float64 `json:"theoretical_mpa"`
	InterpolatedMPa []float64 `json:"interpolated_mpa"`

	// Full experimental curve, for its own peak.
	ExperimentalDisplacementMM []float64 `json:"experimental_displacement_mm"`
	ExperimentalMPa            []float64 `json:"experimental_mpa"`
}

type Point struct {
	DisplacementMM  float64 `json:"displacement_mm"`
	TheoreticalMPa  float64 `json:"theoretical_mpa"`
	ExperimentalMPa float64 `json:"experimental_mpa"`
	AbsErrorMPa     float64 `json:"abs_error_mpa"`
	PercentError    float64 `json:"percent_error"`
	// false when the theoretical stress is zero and the percentage is undefined
	Defined bool `json:"defined"`
}

type Peak struct {
	StressMPa      float64 `json:"stress_mpa"`
	DisplacementMM float64 `json:"displacement_mm"`
	Found          bool    `json:"found"`
}

type Result struct {
	Points           []Point `json:"points"`
	MAEMPa           float64 `json:"mae_mpa"`
	MAPEPercent      float64 `json:"mape_percent"`
	Undefined        int     `json:"undefined"`
	TheoreticalPeak  Peak    `json:"theoretical_peak"`
	ExperimentalPeak Peak    `json:"experimental_peak"`
	PeakDiffPercent  float64 `json:"peak_diff_percent"`
}

// Calculate compares the theoretical curve with the interpolated experimental
// one point by point and compares the two curve maxima.
func Calculate(in Input) (Result, error) {
	n := len(in.DisplacementMM)
	if len(in.TheoreticalMPa) != n || len(in.InterpolatedMPa) != n {
		return Result{}, fmt.Errorf("%w: %d displacements, %d theoretical, %d interpolated",
			ErrLengthMismatch, n, len(in.TheoreticalMPa), len(in.InterpolatedMPa))
	}
	if len(in.ExperimentalDisplacementMM) != len(in.ExperimentalMPa) {
		return Result{}, fmt.Errorf("%w: %d experimental displacements, %d stresses",
			ErrLengthMismatch, len(in.ExperimentalDisplacementMM), len(in.ExperimentalMPa))
	}

	res := Result{Points: make([]Point, n)}
	abs := make([]float64, n)
	pct := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		theo, exp := in.TheoreticalMPa[i], in.InterpolatedMPa[i]
		p := Point{
			DisplacementMM:  in.DisplacementMM[i],
			TheoreticalMPa:  theo,
			ExperimentalMPa: exp,
			AbsErrorMPa:     math.Abs(theo - exp),
			PercentError:    math.NaN(),
		}
		abs[i] = p.AbsErrorMPa
		if theo != 0 {
			p.PercentError = p.AbsErrorMPa / theo * 100
			p.Defined = true
			pct = append(pct, p.PercentError)
		} else {
			res.Undefined++
		}
		res.Points[i] = p
	}

	res.MAEMPa = mean(abs)
	res.MAPEPercent = mean(pct)
	res.TheoreticalPeak = peak(in.DisplacementMM, in.TheoreticalMPa)
	res.ExperimentalPeak = peak(in.ExperimentalDisplacementMM, in.ExperimentalMPa)
	res.PeakDiffPercent = math.NaN()
	if res.TheoreticalPeak.Found && res.ExperimentalPeak.Found {
		t, e := res.TheoreticalPeak.StressMPa, res.ExperimentalPeak.StressMPa
		res.PeakDiffPercent = math.Abs(t-e) / t * 100
	}
	return res, nil
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// peak is the first occurrence of the largest stress.
func peak(xs, ys []float64) Peak {
	if len(ys) == 0 {
		return Peak{StressMPa: math.NaN(), DisplacementMM: math.NaN()}
	}
	i := floats.MaxIdx(ys)
	return Peak{StressMPa: ys[i], DisplacementMM: xs[i], Found: true}
}
