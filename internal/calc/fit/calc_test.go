package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateIdenticalCurves(t *testing.T) {
	res, err := Calculate(Input{
		DisplacementMM:             []float64{1, 2, 3},
		TheoreticalMPa:             []float64{10, 20, 30},
		InterpolatedMPa:            []float64{10, 20, 30},
		ExperimentalDisplacementMM: []float64{1, 2, 3},
		ExperimentalMPa:            []float64{10, 20, 30},
	})
	require.NoError(t, err)

	assert.Zero(t, res.MAEMPa)
	assert.Zero(t, res.MAPEPercent)
	assert.Zero(t, res.PeakDiffPercent)
	assert.Zero(t, res.Undefined)
	assert.Equal(t, Peak{StressMPa: 30, DisplacementMM: 3, Found: true}, res.TheoreticalPeak)
	assert.Equal(t, Peak{StressMPa: 30, DisplacementMM: 3, Found: true}, res.ExperimentalPeak)
	require.Len(t, res.Points, 3)
	for _, p := range res.Points {
		assert.True(t, p.Defined)
	}
}

func TestCalculateErrors(t *testing.T) {
	res, err := Calculate(Input{
		DisplacementMM:             []float64{1, 2, 3, 4},
		TheoreticalMPa:             []float64{10, 20, 40, 50},
		InterpolatedMPa:            []float64{12, 18, 30, 55},
		ExperimentalDisplacementMM: []float64{0.5, 1.5, 2.5, 3.5},
		ExperimentalMPa:            []float64{8, 25, 25, 40},
	})
	require.NoError(t, err)

	assert.InDelta(t, (2.0+2+10+5)/4, res.MAEMPa, 1e-12)
	assert.InDelta(t, (20.0+10+25+10)/4, res.MAPEPercent, 1e-12)
	assert.Equal(t, Peak{StressMPa: 50, DisplacementMM: 4, Found: true}, res.TheoreticalPeak)
	// maxima located independently on each curve
	assert.Equal(t, Peak{StressMPa: 40, DisplacementMM: 3.5, Found: true}, res.ExperimentalPeak)
	assert.InDelta(t, 20.0, res.PeakDiffPercent, 1e-12)
	assert.InDelta(t, 2.0, res.Points[1].AbsErrorMPa, 1e-12)
}

func TestCalculateFirstMaximumWins(t *testing.T) {
	res, err := Calculate(Input{
		DisplacementMM:             []float64{1, 2, 3},
		TheoreticalMPa:             []float64{5, 9, 9},
		InterpolatedMPa:            []float64{5, 9, 9},
		ExperimentalDisplacementMM: []float64{1, 2},
		ExperimentalMPa:            []float64{7, 7},
	})
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.TheoreticalPeak.DisplacementMM)
	assert.Equal(t, 1.0, res.ExperimentalPeak.DisplacementMM)
}

func TestCalculateZeroTheoreticalStress(t *testing.T) {
	res, err := Calculate(Input{
		DisplacementMM:             []float64{0, 1, 2},
		TheoreticalMPa:             []float64{0, 10, 20},
		InterpolatedMPa:            []float64{0.5, 11, 18},
		ExperimentalDisplacementMM: []float64{0, 2},
		ExperimentalMPa:            []float64{0.5, 18},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Undefined)
	assert.False(t, res.Points[0].Defined)
	assert.True(t, math.IsNaN(res.Points[0].PercentError))
	assert.InDelta(t, 0.5, res.Points[0].AbsErrorMPa, 1e-12)
	// MAE keeps every point, MAPE only the defined ones
	assert.InDelta(t, (0.5+1+2)/3, res.MAEMPa, 1e-12)
	assert.InDelta(t, (10.0+10)/2, res.MAPEPercent, 1e-12)
	assert.False(t, math.IsInf(res.MAPEPercent, 0))
}

func TestCalculateWithoutTheoreticalCurve(t *testing.T) {
	res, err := Calculate(Input{
		ExperimentalDisplacementMM: []float64{1, 2},
		ExperimentalMPa:            []float64{3, 4},
	})
	require.NoError(t, err)

	assert.Empty(t, res.Points)
	assert.True(t, math.IsNaN(res.MAEMPa))
	assert.True(t, math.IsNaN(res.MAPEPercent))
	assert.False(t, res.TheoreticalPeak.Found)
	assert.True(t, math.IsNaN(res.PeakDiffPercent))
	assert.Equal(t, Peak{StressMPa: 4, DisplacementMM: 2, Found: true}, res.ExperimentalPeak)
}

func TestCalculateLengthMismatch(t *testing.T) {
	_, err := Calculate(Input{
		DisplacementMM:  []float64{1, 2},
		TheoreticalMPa:  []float64{1, 2},
		InterpolatedMPa: []float64{1},
	})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Calculate(Input{ExperimentalDisplacementMM: []float64{1}})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}
