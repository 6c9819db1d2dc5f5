// Package config provides centralized configuration management for the converter.
// It applies defaults, an optional YAML file and environment variables, in that
// order, and validates all settings up front to fail fast on misconfiguration.
package config

import (
	"os"
	"path/filepath"
)

// Default file locations relative to the project root.
const (
	DefaultInputRel  = "public/data/chinapoi.csv"
	DefaultOutputRel = "public/data/chinapoi.json"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ConvertConfig holds the conversion pipeline settings.
type ConvertConfig struct {
	// RootDir is the project root used to derive default paths
	// (default: parent of the executable's directory)
	RootDir string `env:"POICONV_ROOT" yaml:"root_dir"`

	// InputPath is the source CSV file (default: <root>/public/data/chinapoi.csv)
	InputPath string `env:"POICONV_INPUT" yaml:"input_path"`

	// OutputPath is the JSON file to write (default: <root>/public/data/chinapoi.json)
	OutputPath string `env:"POICONV_OUTPUT" yaml:"output_path"`

	// Shape selects the JSON layout: objects or columnar (default: columnar)
	Shape string `env:"POICONV_SHAPE" default:"columnar" yaml:"shape"`

	// Encodings is the ordered list of candidate text encodings
	Encodings []string `env:"POICONV_ENCODINGS" default:"utf-8-sig,utf-8,gb18030,gbk" yaml:"encodings"`

	// Columns is the column order used by the columnar shape
	Columns []string `env:"POICONV_COLUMNS" default:"id,name,name_en,city,rank,rankInCity,lng,lat" yaml:"columns"`

	// RejectsPath receives rejected rows as CSV (default: disabled)
	RejectsPath string `env:"POICONV_REJECTS" yaml:"rejects_path"`

	// Compress also writes a zstd copy of the output next to it (default: false)
	Compress bool `env:"POICONV_COMPRESS" default:"false" yaml:"compress"`

	// Verify reads the output back and checks it after writing (default: true)
	Verify bool `env:"POICONV_VERIFY" default:"true" yaml:"verify"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info" yaml:"level"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text" yaml:"format"`

	// File additionally writes logs to a rotating file (default: disabled)
	File string `env:"LOG_FILE" yaml:"file"`

	// FileMaxSizeMB is the size at which the log file is rotated (default: 16)
	FileMaxSizeMB int `env:"LOG_FILE_MAX_SIZE_MB" default:"16" yaml:"file_max_size_mb"`
}

// MetricsConfig holds run metrics settings.
type MetricsConfig struct {
	// TextfilePath is where Prometheus metrics are written after a run (default: disabled)
	TextfilePath string `env:"POICONV_METRICS_FILE" yaml:"textfile_path"`
}

// ResolvePaths fills in RootDir, InputPath and OutputPath when they are unset.
// The root defaults to the parent of the directory containing the executable.
func (c *ConvertConfig) ResolvePaths() error {
	if c.RootDir == "" {
		root, err := executableRoot()
		if err != nil {
			return err
		}
		c.RootDir = root
	}
	if c.InputPath == "" {
		c.InputPath = filepath.Join(c.RootDir, filepath.FromSlash(DefaultInputRel))
	}
	if c.OutputPath == "" {
		c.OutputPath = filepath.Join(c.RootDir, filepath.FromSlash(DefaultOutputRel))
	}
	return nil
}

func executableRoot() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return os.Getwd()
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe)), nil
}
