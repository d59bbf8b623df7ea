package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"Flexfit/internal/calc/align"
	"Flexfit/internal/calc/fit"
	"Flexfit/internal/calc/flexure"
	"Flexfit/internal/config"
	"Flexfit/internal/dataset"
	"Flexfit/internal/report"
)

type Outcome struct {
	// nil when the theoretical file was missing
	Theoretical  *dataset.TheoreticalCurve
	Experimental dataset.ExperimentalCurve
	Fit          fit.Result
	Document     report.Document
}

// Run loads both curves, aligns the experimental one onto the theoretical
// sample points and computes the fit metrics. Notices for the user go to out.
func Run(cfg config.Config, out io.Writer) (Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return Outcome{}, err
	}
	s := cfg.Specimen
	var res Outcome

	theo, err := dataset.LoadTheoretical(cfg.TheoreticalPath())
	switch {
	case errors.Is(err, dataset.ErrFileNotFound):
		fmt.Fprintf(out, "Theoretical data file not found: %s\n", cfg.TheoreticalPath())
	case err != nil:
		return Outcome{}, err
	default:
		theo.DeriveStress(func(f float64) float64 {
			return flexure.Stress(f, cfg.SpanMM, s.WidthMM, s.HeightMM)
		})
		res.Theoretical = &theo
	}

	exp, err := dataset.LoadExperimental(cfg.ExperimentalPath())
	if err != nil {
		return Outcome{}, err
	}
	tr := align.Affine{Scale: cfg.Transform.Scale, Offset: cfg.Transform.Offset}
	exp.Transform(tr.Apply)
	res.Experimental = exp

	ip, err := align.NewInterpolator(exp.Displacements(), exp.Stresses())
	if err != nil {
		return Outcome{}, fmt.Errorf("experimental curve %s: %w", exp.Path, err)
	}

	in := fit.Input{
		ExperimentalDisplacementMM: exp.Displacements(),
		ExperimentalMPa:            exp.Stresses(),
	}
	if res.Theoretical != nil {
		in.DisplacementMM = theo.Displacements()
		in.TheoreticalMPa = theo.Stresses()
		in.InterpolatedMPa = ip.AtEach(in.DisplacementMM)

		lo, hi := ip.Domain()
		outside := 0
		for _, x := range in.DisplacementMM {
			if x < lo || x > hi {
				outside++
			}
		}
		if outside > 0 {
			slog.Warn("theoretical points outside the experimental domain use boundary values",
				slog.Int("points", outside),
				slog.Float64("domain_min_mm", lo),
				slog.Float64("domain_max_mm", hi))
		}
	}

	res.Fit, err = fit.Calculate(in)
	if err != nil {
		return Outcome{}, err
	}
	if res.Fit.Undefined > 0 {
		slog.Warn("percentage error undefined where theoretical stress is zero; excluded from MAPE",
			slog.Int("points", res.Fit.Undefined))
	}

	// section properties, plus moment and stress at the peak measured force
	peakN := 0.0
	if res.Theoretical != nil {
		for _, p := range res.Theoretical.Points {
			peakN = max(peakN, p.ForceN)
		}
	}
	model, err := flexure.Calculate(flexure.Input{
		ForceN:   peakN,
		SpanMM:   cfg.SpanMM,
		WidthMM:  s.WidthMM,
		HeightMM: s.HeightMM,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("section model: %w", err)
	}

	res.Document = report.Document{
		Title:       fmt.Sprintf("Stress x Displacement - %s", s.Material),
		Specimen:    s,
		SpanMM:      cfg.SpanMM,
		ModelForceN: peakN,
		Model:       model,
		Result:      res.Fit,
		Notes:       notes(res),
	}
	return res, nil
}

// Chart renders the overlay figure for the outcome.
func Chart(cfg config.Config, res Outcome) ([]byte, error) {
	in := report.ChartInput{
		Title: res.Document.Title,
		Experimental: report.Series{
			Name: "Experimental curve",
			X:    res.Experimental.Displacements(),
			Y:    res.Experimental.Stresses(),
		},
		MinX: cfg.PlotMinMM,
		MaxX: cfg.PlotMaxMM,
	}
	if res.Theoretical != nil {
		in.Theoretical = report.Series{
			Name: "Theoretical model",
			X:    res.Theoretical.Displacements(),
			Y:    res.Theoretical.Stresses(),
		}
	}
	return report.RenderChart(in)
}

func notes(res Outcome) []string {
	var out []string
	if res.Theoretical == nil {
		out = append(out, "Theoretical data file not found; only the experimental curve is shown.")
	} else if res.Theoretical.Dropped > 0 {
		out = append(out, fmt.Sprintf("%d of %d theoretical rows dropped as non-numeric.",
			res.Theoretical.Dropped, res.Theoretical.Rows))
	}
	if res.Experimental.Dropped > 0 {
		out = append(out, fmt.Sprintf("%d of %d experimental rows dropped as non-numeric.",
			res.Experimental.Dropped, res.Experimental.Rows))
	}
	return out
}
