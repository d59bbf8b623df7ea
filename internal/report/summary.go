package report

import (
	"fmt"
	"io"

	"Flexfit/internal/calc/fit"
)

// SummaryLines are the five fit-quality lines printed after a run.
func SummaryLines(res fit.Result) []string {
	return []string{
		fmt.Sprintf("Mean Absolute Error (MAE): %.4f MPa", res.MAEMPa),
		fmt.Sprintf("Mean Absolute Percentage Error (MAPE): %.2f %%", res.MAPEPercent),
		fmt.Sprintf("Theoretical Maximum: %.2f MPa at %.2f mm", res.TheoreticalPeak.StressMPa, res.TheoreticalPeak.DisplacementMM),
		fmt.Sprintf("Experimental Maximum: %.2f MPa at %.2f mm", res.ExperimentalPeak.StressMPa, res.ExperimentalPeak.DisplacementMM),
		fmt.Sprintf("Percentage Difference Between Maxima: %.2f %%", res.PeakDiffPercent),
	}
}

func WriteSummary(w io.Writer, res fit.Result) error {
	for _, line := range SummaryLines(res) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
