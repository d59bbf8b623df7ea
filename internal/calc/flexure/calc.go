package flexure

import (
	"fmt"
	"math"
)

type Input struct {
	ForceN   float64 `json:"force_n"`
	SpanMM   float64 `json:"span_mm"`
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
}

type Result struct {
	MomentNMM  float64 `json:"moment_nmm"`
	InertiaMM4 float64 `json:"inertia_mm4"`
	FiberMM    float64 `json:"fiber_mm"`
	StressMPa  float64 `json:"stress_mpa"`
	Notes      string  `json:"notes"`
}

// Calculate returns the maximum flexural stress of a rectangular beam in
// three-point bending.
func Calculate(in Input) (Result, error) {
	if in.SpanMM <= 0 || in.WidthMM <= 0 || in.HeightMM <= 0 {
		return Result{}, fmt.Errorf("invalid input")
	}

	// Central point load, simply supported: M = F L / 4
	M := in.ForceN * in.SpanMM / 4.0
	I := Inertia(in.WidthMM, in.HeightMM)
	c := in.HeightMM / 2.0

	return Result{
		MomentNMM:  M,
		InertiaMM4: I,
		FiberMM:    c,
		StressMPa:  M * c / I, // N/mm2 = MPa
		Notes:      "Three-point bending, rectangular section.",
	}, nil
}

// Inertia of a rectangular section, mm^4.
func Inertia(widthMM, heightMM float64) float64 {
	return widthMM * math.Pow(heightMM, 3) / 12.0
}

// Stress is Calculate without the validation, for per-row use once the
// geometry has been checked. Zero width or height gives an undefined result.
func Stress(forceN, spanMM, widthMM, heightMM float64) float64 {
	M := forceN * spanMM / 4.0
	return M * (heightMM / 2.0) / Inertia(widthMM, heightMM)
}
