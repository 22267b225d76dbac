package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-edit-mcp/internal/transform"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != FormatText {
		t.Errorf("log: got %+v", cfg.Log)
	}
	if cfg.Save.JPEGQuality != 95 {
		t.Errorf("jpeg_quality: got %d, want 95", cfg.Save.JPEGQuality)
	}
	if cfg.OCR.Language != "eng" {
		t.Errorf("ocr.language: got %q, want eng", cfg.OCR.Language)
	}
	if got, want := cfg.Defaults.Params(), transform.DefaultParams(); got != want {
		t.Errorf("defaults: got %+v, want %+v", got, want)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
save:
  jpeg_quality: 80
defaults:
  blur_kernel: 7
  canny_low: 50
  canny_high: 150
  contrast: 1.5
ocr:
  language: deu
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogLevel() != logrus.DebugLevel {
		t.Errorf("level: got %v, want debug", cfg.LogLevel())
	}
	if cfg.Log.Format != FormatJSON {
		t.Errorf("format: got %q, want json", cfg.Log.Format)
	}
	if cfg.Save.SaveOptions().JPEGQuality != 80 {
		t.Errorf("jpeg_quality: got %d, want 80", cfg.Save.JPEGQuality)
	}
	p := cfg.Defaults.Params()
	if p.KernelSize != 7 || p.Threshold1 != 50 || p.Threshold2 != 150 || p.Contrast != 1.5 {
		t.Errorf("params: got %+v", p)
	}

	// Omitted settings keep their defaults
	if p.ScalePercent != 100 || p.Mode != transform.FlipHorizontal {
		t.Errorf("omitted defaults changed: got %+v", p)
	}
	if cfg.OCR.Language != "deu" {
		t.Errorf("ocr.language: got %q, want deu", cfg.OCR.Language)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Save.JPEGQuality != 95 {
		t.Errorf("jpeg_quality: got %d, want 95", cfg.Save.JPEGQuality)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(error) bool
	}{
		{
			name:    "malformed yaml",
			content: "log: [unclosed",
			check: func(err error) bool {
				var pe *ParseError
				return errors.As(err, &pe)
			},
		},
		{
			name:    "unknown field",
			content: "logging:\n  level: debug\n",
			check: func(err error) bool {
				var pe *ParseError
				return errors.As(err, &pe)
			},
		},
		{
			name:    "bad level",
			content: "log:\n  level: loud\n",
			check:   func(err error) bool { return errors.Is(err, ErrValidationFailed) },
		},
		{
			name:    "bad format",
			content: "log:\n  format: xml\n",
			check:   func(err error) bool { return errors.Is(err, ErrValidationFailed) },
		},
		{
			name:    "quality too high",
			content: "save:\n  jpeg_quality: 101\n",
			check:   func(err error) bool { return errors.Is(err, ErrValidationFailed) },
		},
		{
			name:    "quality zero",
			content: "save:\n  jpeg_quality: 0\n",
			check:   func(err error) bool { return errors.Is(err, ErrValidationFailed) },
		},
		{
			name:    "blur kernel too large",
			content: "defaults:\n  blur_kernel: 999\n",
			check:   func(err error) bool { return errors.Is(err, ErrValidationFailed) },
		},
		{
			name:    "scale percent too large",
			content: "defaults:\n  scale_percent: 100000\n",
			check:   func(err error) bool { return errors.Is(err, ErrValidationFailed) },
		},
		{
			name:    "empty ocr language",
			content: "ocr:\n  language: \"\"\n",
			check:   func(err error) bool { return errors.Is(err, ErrValidationFailed) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error type: %v (%T)", err, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("error: got %v, want ErrFileNotFound", err)
	}
}

func TestLoadFromEnv_NoVariables(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("level: got %q, want info", cfg.Log.Level)
	}
}

func TestLoadFromEnv_LevelOverridesFile(t *testing.T) {
	t.Setenv(EnvConfigPath, writeConfig(t, "log:\n  level: warn\n"))
	t.Setenv(EnvLogLevel, "trace")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.LogLevel() != logrus.TraceLevel {
		t.Errorf("level: got %v, want trace", cfg.LogLevel())
	}
}

func TestLoadFromEnv_ExplicitMissingFile(t *testing.T) {
	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := LoadFromEnv()
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("error: got %v, want ErrFileNotFound", err)
	}
}

func TestLoadFromEnv_InvalidLevel(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvLogLevel, "chatty")

	_, err := LoadFromEnv()

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error: got %v, want *ValidationError", err)
	}
	if ve.Field != "log.level" {
		t.Errorf("field: got %q, want log.level", ve.Field)
	}
}
