// Package config loads server settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-edit-mcp/internal/imaging"
	"github.com/ironsheep/image-edit-mcp/internal/transform"
)

// Environment variables read by LoadFromEnv.
const (
	EnvConfigPath = "IMAGE_EDIT_MCP_CONFIG"
	EnvLogLevel   = "IMAGE_EDIT_MCP_LOG_LEVEL"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the complete server configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Save     SaveConfig     `yaml:"save"`
	Defaults DefaultsConfig `yaml:"defaults"`
	OCR      OCRConfig      `yaml:"ocr"`
}

// LogConfig controls the stderr logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SaveConfig controls encoding on save.
type SaveConfig struct {
	JPEGQuality int `yaml:"jpeg_quality"`
}

// DefaultsConfig holds the parameter values used when an apply request omits
// them.
type DefaultsConfig struct {
	BlurKernel   int     `yaml:"blur_kernel"`
	CannyLow     int     `yaml:"canny_low"`
	CannyHigh    int     `yaml:"canny_high"`
	Brightness   int     `yaml:"brightness"`
	Contrast     float64 `yaml:"contrast"`
	ScalePercent float64 `yaml:"scale_percent"`
	FlipMode     string  `yaml:"flip_mode"`
}

// OCRConfig controls text extraction.
type OCRConfig struct {
	Language string `yaml:"language"`
}

// Default returns the built-in configuration.
func Default() *Config {
	p := transform.DefaultParams()
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: FormatText,
		},
		Save: SaveConfig{
			JPEGQuality: imaging.DefaultJPEGQuality,
		},
		Defaults: DefaultsConfig{
			BlurKernel:   p.KernelSize,
			CannyLow:     p.Threshold1,
			CannyHigh:    p.Threshold2,
			Brightness:   p.Brightness,
			Contrast:     p.Contrast,
			ScalePercent: p.ScalePercent,
			FlipMode:     p.Mode,
		},
		OCR: OCRConfig{
			Language: "eng",
		},
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result. Settings the file omits keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ParseError{Path: path, Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv builds the configuration from the environment.
//
// EnvConfigPath names an optional YAML file; when it is set the file must
// exist. EnvLogLevel, when set, overrides log.level.
func LoadFromEnv() (*Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv(EnvConfigPath)); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		cfg.Log.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting and returns the first problem found as a
// *ValidationError.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return &ValidationError{Field: "log.level", Message: "unknown log level", Value: c.Log.Level}
	}
	switch c.Log.Format {
	case FormatText, FormatJSON:
	default:
		return &ValidationError{Field: "log.format", Message: "must be text or json", Value: c.Log.Format}
	}
	if c.Save.JPEGQuality < 1 || c.Save.JPEGQuality > 100 {
		return &ValidationError{Field: "save.jpeg_quality", Message: "must be between 1 and 100", Value: c.Save.JPEGQuality}
	}
	if c.Defaults.CannyLow < 0 || c.Defaults.CannyHigh < 0 {
		return &ValidationError{Field: "defaults.canny_low", Message: "thresholds must not be negative",
			Value: fmt.Sprintf("%d/%d", c.Defaults.CannyLow, c.Defaults.CannyHigh)}
	}
	if c.Defaults.BlurKernel > transform.MaxKernelSize {
		return &ValidationError{Field: "defaults.blur_kernel", Message: fmt.Sprintf("must not exceed %d", transform.MaxKernelSize), Value: c.Defaults.BlurKernel}
	}
	if c.Defaults.ScalePercent > transform.MaxScalePercent {
		return &ValidationError{Field: "defaults.scale_percent", Message: fmt.Sprintf("must not exceed %d", transform.MaxScalePercent), Value: c.Defaults.ScalePercent}
	}
	if c.Defaults.Contrast < 0 {
		return &ValidationError{Field: "defaults.contrast", Message: "must not be negative", Value: c.Defaults.Contrast}
	}
	if c.OCR.Language == "" {
		return &ValidationError{Field: "ocr.language", Message: "must not be empty", Value: c.OCR.Language}
	}
	return nil
}

// LogLevel returns the parsed log level. Call after Validate.
func (c *Config) LogLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Params converts the apply defaults to transform parameters.
func (d DefaultsConfig) Params() transform.Params {
	return transform.Params{
		KernelSize:   d.BlurKernel,
		Threshold1:   d.CannyLow,
		Threshold2:   d.CannyHigh,
		Brightness:   d.Brightness,
		Contrast:     d.Contrast,
		ScalePercent: d.ScalePercent,
		Mode:         d.FlipMode,
	}
}

// SaveOptions converts the save settings to encoder options.
func (s SaveConfig) SaveOptions() imaging.SaveOptions {
	return imaging.SaveOptions{JPEGQuality: s.JPEGQuality}
}
