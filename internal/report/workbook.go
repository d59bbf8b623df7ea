package report

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"Flexfit/internal/calc/fit"
)

const (
	errorsSheet  = "Errors"
	summarySheet = "Summary"
)

var errorsHeader = []string{
	"Displacement (mm)",
	"Theoretical (MPa)",
	"Experimental (MPa)",
	"Absolute error (MPa)",
	"Percentage error (%)",
}

// WriteWorkbook exports the error series and the summary lines as xlsx.
func WriteWorkbook(w io.Writer, res fit.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", errorsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	if err := f.SetSheetRow(errorsSheet, "A1", &errorsHeader); err != nil {
		return err
	}
	for i, p := range res.Points {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			cellValue(p.DisplacementMM),
			cellValue(p.TheoreticalMPa),
			cellValue(p.ExperimentalMPa),
			cellValue(p.AbsErrorMPa),
			cellValue(p.PercentError),
		}
		if err := f.SetSheetRow(errorsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	for i, line := range SummaryLines(res) {
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+1), line); err != nil {
			return err
		}
	}
	if err := f.SetCellValue(summarySheet, "A7", "Undefined percentage errors"); err != nil {
		return err
	}
	if err := f.SetCellValue(summarySheet, "B7", res.Undefined); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

// cellValue leaves NaN and Inf cells blank.
func cellValue(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
