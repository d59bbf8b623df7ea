package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Specimen struct {
	Material           string  `json:"material" validate:"required"`
	WidthMM            float64 `json:"width_mm" validate:"gt=0"`
	HeightMM           float64 `json:"height_mm" validate:"gt=0"`
	FlexuralModulusMPa float64 `json:"flexural_modulus_mpa"`
	OffsetStrengthMPa  float64 `json:"offset_strength_mpa"` // sigma 0.2
	TheoreticalFile    string  `json:"theoretical_file" validate:"required"`
}

// Transform maps raw experimental X onto displacement: X' = Scale*X + Offset.
type Transform struct {
	Scale  float64 `json:"scale" validate:"ne=0"`
	Offset float64 `json:"offset"`
}

// Runtime holds the ambient settings that may come from .env or FLEXFIT_* variables.
type Runtime struct {
	DataDir    string `envconfig:"DATA_DIR" default:"."`
	ReportPDF  string `envconfig:"REPORT_PDF"`
	ReportXLSX string `envconfig:"REPORT_XLSX"`
	Display    bool   `envconfig:"DISPLAY" default:"true"`
	ViewerAddr string `envconfig:"VIEWER_ADDR" default:"127.0.0.1:8765"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

type Config struct {
	Specimen         Specimen  `validate:"required"`
	SpanMM           float64   `validate:"gt=0"`
	Transform        Transform `validate:"required"`
	ExperimentalFile string    `validate:"required"`
	PlotMinMM        float64
	PlotMaxMM        float64 `validate:"gtfield=PlotMinMM"`
	Runtime          Runtime
}

// Default returns the fixed run constants for the polycarbonate sample.
func Default() Config {
	return Config{
		Specimen: Specimen{
			Material:           "Polycarbonate",
			WidthMM:            13.58,
			HeightMM:           6.11,
			FlexuralModulusMPa: 274,
			OffsetStrengthMPa:  21.8,
			TheoreticalFile:    "Mecanicos.2.TXT",
		},
		SpanMM: 127,
		// reference points: 28.1143 raw units correspond to 6.44 mm
		Transform:        Transform{Scale: 6.44 / 28.1143, Offset: 0},
		ExperimentalFile: "Default Dataset.csv",
		PlotMinMM:        0,
		PlotMaxMM:        10,
		Runtime: Runtime{
			DataDir:    ".",
			Display:    true,
			ViewerAddr: "127.0.0.1:8765",
			LogLevel:   "info",
		},
	}
}

// Load builds the run configuration: fixed constants plus runtime settings
// from an optional .env file and the environment.
func Load() (Config, error) {
	cfg := Default()
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := envconfig.Process("FLEXFIT", &cfg.Runtime); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) TheoreticalPath() string {
	return filepath.Join(c.Runtime.DataDir, c.Specimen.TheoreticalFile)
}

func (c Config) ExperimentalPath() string {
	return filepath.Join(c.Runtime.DataDir, c.ExperimentalFile)
}

func (c Config) LogLevel() slog.Level {
	switch c.Runtime.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
