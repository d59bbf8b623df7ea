package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
)

var ErrFileNotFound = errors.New("data file not found")

// TheoreticalHeaderRows is the number of leading lines the testing machine
// writes before the displacement/force columns.
const TheoreticalHeaderRows = 4

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type TheoreticalPoint struct {
	DisplacementMM float64 `json:"displacement_mm"`
	ForceN         float64 `json:"force_n"`
	StressMPa      float64 `json:"stress_mpa"`
}

type TheoreticalCurve struct {
	Path    string             `json:"path"`
	Points  []TheoreticalPoint `json:"points"`
	Rows    int                `json:"rows"`
	Dropped int                `json:"dropped"`
}

type ExperimentalPoint struct {
	RawX           float64 `json:"raw_x"`
	StressMPa      float64 `json:"stress_mpa"`
	DisplacementMM float64 `json:"displacement_mm"`
}

type ExperimentalCurve struct {
	Path    string              `json:"path"`
	Points  []ExperimentalPoint `json:"points"`
	Rows    int                 `json:"rows"`
	Dropped int                 `json:"dropped"`
}

// LoadTheoretical reads the machine export: header lines, then
// comma-separated displacement (mm) and force (N).
func LoadTheoretical(path string) (TheoreticalCurve, error) {
	f, err := openData(path)
	if err != nil {
		return TheoreticalCurve{}, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	for i := 0; i < TheoreticalHeaderRows; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				break
			}
			return TheoreticalCurve{}, fmt.Errorf("read header %s: %w", path, err)
		}
	}

	pairs, rows, err := readPairs(br, ',', false)
	if err != nil {
		return TheoreticalCurve{}, fmt.Errorf("read %s: %w", path, err)
	}
	curve := TheoreticalCurve{Path: path, Rows: rows, Dropped: rows - len(pairs)}
	curve.Points = make([]TheoreticalPoint, len(pairs))
	for i, p := range pairs {
		curve.Points[i] = TheoreticalPoint{DisplacementMM: p[0], ForceN: p[1]}
	}
	slog.Debug("theoretical curve loaded",
		slog.String("path", path),
		slog.Int("rows", rows),
		slog.Int("dropped", curve.Dropped))
	return curve, nil
}

// LoadExperimental reads a headerless semicolon-separated X;Y file with
// comma decimal separators.
func LoadExperimental(path string) (ExperimentalCurve, error) {
	f, err := openData(path)
	if err != nil {
		return ExperimentalCurve{}, err
	}
	defer f.Close()

	pairs, rows, err := readPairs(f, ';', true)
	if err != nil {
		return ExperimentalCurve{}, fmt.Errorf("read %s: %w", path, err)
	}
	curve := ExperimentalCurve{Path: path, Rows: rows, Dropped: rows - len(pairs)}
	curve.Points = make([]ExperimentalPoint, len(pairs))
	for i, p := range pairs {
		curve.Points[i] = ExperimentalPoint{RawX: p[0], StressMPa: p[1], DisplacementMM: p[0]}
	}
	slog.Debug("experimental curve loaded",
		slog.String("path", path),
		slog.Int("rows", rows),
		slog.Int("dropped", curve.Dropped))
	return curve, nil
}

// DeriveStress fills the stress column from each row's force.
func (c *TheoreticalCurve) DeriveStress(model func(forceN float64) float64) {
	for i := range c.Points {
		c.Points[i].StressMPa = model(c.Points[i].ForceN)
	}
}

// Transform maps raw X onto the displacement axis.
func (c *ExperimentalCurve) Transform(fn func(x float64) float64) {
	for i := range c.Points {
		c.Points[i].DisplacementMM = fn(c.Points[i].RawX)
	}
}

func (c TheoreticalCurve) Displacements() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.DisplacementMM
	}
	return out
}

func (c TheoreticalCurve) Stresses() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.StressMPa
	}
	return out
}

func (c ExperimentalCurve) Displacements() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.DisplacementMM
	}
	return out
}

func (c ExperimentalCurve) Stresses() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.StressMPa
	}
	return out
}

func openData(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	return f, nil
}

// readPairs returns the rows whose first two fields both parse as numbers,
// and the number of non-blank rows seen.
func readPairs(r io.Reader, comma rune, decimalComma bool) ([][2]float64, int, error) {
	br := bufio.NewReader(r)
	// Excel "CSV UTF-8" exports start with a byte-order mark
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var pairs [][2]float64
	rows := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				rows++
				continue
			}
			return nil, rows, err
		}
		rows++
		if len(rec) < 2 {
			continue
		}
		x, errX := parseNumber(rec[0], decimalComma)
		y, errY := parseNumber(rec[1], decimalComma)
		if errX != nil || errY != nil {
			continue
		}
		pairs = append(pairs, [2]float64{x, y})
	}
	return pairs, rows, nil
}

func parseNumber(s string, decimalComma bool) (float64, error) {
	s = strings.TrimSpace(s)
	if decimalComma {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	// NaN/Inf spellings are missing values, not data
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}
