package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/poiconv/internal/core"
)

// FileEnv names the environment variable that points at an optional YAML config file.
const FileEnv = "POICONV_CONFIG"

// Load builds the configuration from tag defaults, the YAML file named by
// POICONV_CONFIG (if set) and environment variables, in that order of precedence.
// Default paths are resolved and the result is validated.
func Load() (*Config, error) {
	cfg := &Config{}
	v := reflect.ValueOf(cfg).Elem()

	if err := applyTags(v, "default"); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	if path := os.Getenv(FileEnv); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("config load: %w", err)
		}
	}

	if err := applyTags(v, "env"); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Convert.ResolvePaths(); err != nil {
		return nil, fmt.Errorf("config paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadFile overlays the YAML document at path onto cfg.
// Keys absent from the file leave the current values untouched.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// applyTags recursively populates struct fields. With source "default" the value
// comes from the default tag; with source "env" it comes from the environment
// variable named by the env tag. Empty values are skipped.
func applyTags(v reflect.Value, source string) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := applyTags(fieldVal, source); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		var value string
		switch source {
		case "default":
			value = field.Tag.Get("default")
		case "env":
			value = os.Getenv(envName)
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		field.Set(reflect.ValueOf(splitList(value)))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// splitList splits comma-separated values, trimming whitespace and dropping blanks.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Conversion validation
	if c.Convert.InputPath == "" {
		errs = append(errs, "POICONV_INPUT must not be empty")
	}
	if c.Convert.OutputPath == "" {
		errs = append(errs, "POICONV_OUTPUT must not be empty")
	}
	if c.Convert.InputPath != "" && c.Convert.InputPath == c.Convert.OutputPath {
		errs = append(errs, "POICONV_OUTPUT must differ from POICONV_INPUT")
	}
	if _, ok := core.LookupShape(c.Convert.Shape); !ok {
		errs = append(errs, fmt.Sprintf("POICONV_SHAPE (%q) must be one of: %s",
			c.Convert.Shape, strings.Join(core.Shapes(), ", ")))
	}
	if len(c.Convert.Encodings) == 0 {
		errs = append(errs, "POICONV_ENCODINGS must list at least one encoding")
	}
	if len(c.Convert.Columns) == 0 {
		errs = append(errs, "POICONV_COLUMNS must list at least one column")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}
	if c.Logging.File != "" && c.Logging.FileMaxSizeMB <= 0 {
		errs = append(errs, "LOG_FILE_MAX_SIZE_MB must be positive when LOG_FILE is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a compact representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Convert: {Input: %q, Output: %q, Shape: %q, Encodings: %v, Verify: %v, Compress: %v}, ",
		c.Convert.InputPath, c.Convert.OutputPath, c.Convert.Shape, c.Convert.Encodings,
		c.Convert.Verify, c.Convert.Compress))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q, File: %q}, ",
		c.Logging.Level, c.Logging.Format, c.Logging.File))
	b.WriteString(fmt.Sprintf("Metrics: {Textfile: %q}", c.Metrics.TextfilePath))
	b.WriteString("}")
	return b.String()
}
