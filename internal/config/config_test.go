package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/poiconv/internal/core"
)

func TestLoad_Defaults(t *testing.T) {
	root := t.TempDir()
	os.Setenv("POICONV_ROOT", root)
	defer os.Unsetenv("POICONV_ROOT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantInput := filepath.Join(root, "public", "data", "chinapoi.csv")
	if cfg.Convert.InputPath != wantInput {
		t.Errorf("Convert.InputPath = %q, want %q", cfg.Convert.InputPath, wantInput)
	}
	wantOutput := filepath.Join(root, "public", "data", "chinapoi.json")
	if cfg.Convert.OutputPath != wantOutput {
		t.Errorf("Convert.OutputPath = %q, want %q", cfg.Convert.OutputPath, wantOutput)
	}
	if cfg.Convert.Shape != "columnar" {
		t.Errorf("Convert.Shape = %q, want %q", cfg.Convert.Shape, "columnar")
	}
	wantEnc := []string{"utf-8-sig", "utf-8", "gb18030", "gbk"}
	if strings.Join(cfg.Convert.Encodings, ",") != strings.Join(wantEnc, ",") {
		t.Errorf("Convert.Encodings = %v, want %v", cfg.Convert.Encodings, wantEnc)
	}
	if len(cfg.Convert.Columns) != 8 {
		t.Errorf("Convert.Columns length = %d, want 8", len(cfg.Convert.Columns))
	}
	if !cfg.Convert.Verify {
		t.Error("Convert.Verify = false, want true")
	}
	if cfg.Convert.Compress {
		t.Error("Convert.Compress = true, want false")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.FileMaxSizeMB != 16 {
		t.Errorf("Logging.FileMaxSizeMB = %d, want %d", cfg.Logging.FileMaxSizeMB, 16)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("POICONV_INPUT", "/tmp/in.csv")
	os.Setenv("POICONV_OUTPUT", "/tmp/out.json")
	os.Setenv("POICONV_SHAPE", "objects")
	os.Setenv("POICONV_VERIFY", "false")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("POICONV_INPUT")
		os.Unsetenv("POICONV_OUTPUT")
		os.Unsetenv("POICONV_SHAPE")
		os.Unsetenv("POICONV_VERIFY")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Convert.InputPath != "/tmp/in.csv" {
		t.Errorf("Convert.InputPath = %q, want %q", cfg.Convert.InputPath, "/tmp/in.csv")
	}
	if cfg.Convert.OutputPath != "/tmp/out.json" {
		t.Errorf("Convert.OutputPath = %q, want %q", cfg.Convert.OutputPath, "/tmp/out.json")
	}
	if cfg.Convert.Shape != "objects" {
		t.Errorf("Convert.Shape = %q, want %q", cfg.Convert.Shape, "objects")
	}
	if cfg.Convert.Verify {
		t.Error("Convert.Verify = true, want false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	os.Setenv("POICONV_ROOT", t.TempDir())
	os.Setenv("POICONV_ENCODINGS", " gbk , utf-8,, ")
	defer func() {
		os.Unsetenv("POICONV_ROOT")
		os.Unsetenv("POICONV_ENCODINGS")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"gbk", "utf-8"}
	if len(cfg.Convert.Encodings) != len(expected) {
		t.Fatalf("Encodings length = %d, want %d", len(cfg.Convert.Encodings), len(expected))
	}
	for i, v := range expected {
		if cfg.Convert.Encodings[i] != v {
			t.Errorf("Encodings[%d] = %q, want %q", i, cfg.Convert.Encodings[i], v)
		}
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poiconv.yaml")
	doc := `convert:
  root_dir: ` + dir + `
  shape: objects
  compress: true
  columns: [id, name, lng, lat]
logging:
  format: json
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	os.Setenv(FileEnv, path)
	os.Setenv("LOG_FORMAT", "text")
	defer func() {
		os.Unsetenv(FileEnv)
		os.Unsetenv("LOG_FORMAT")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Convert.Shape != "objects" {
		t.Errorf("Convert.Shape = %q, want %q", cfg.Convert.Shape, "objects")
	}
	if !cfg.Convert.Compress {
		t.Error("Convert.Compress = false, want true")
	}
	if strings.Join(cfg.Convert.Columns, ",") != "id,name,lng,lat" {
		t.Errorf("Convert.Columns = %v, want [id name lng lat]", cfg.Convert.Columns)
	}
	// Environment wins over the file.
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "text")
	}
	// Keys missing from the file keep their defaults.
	if !cfg.Convert.Verify {
		t.Error("Convert.Verify = false, want default true")
	}
	if cfg.Convert.InputPath != filepath.Join(dir, "public", "data", "chinapoi.csv") {
		t.Errorf("Convert.InputPath = %q, want path under %q", cfg.Convert.InputPath, dir)
	}
}

func TestLoad_MissingYAMLFile(t *testing.T) {
	os.Setenv(FileEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	defer os.Unsetenv(FileEnv)

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for missing config file")
	}
}

func TestLoad_InvalidBool(t *testing.T) {
	os.Setenv("POICONV_COMPRESS", "maybe")
	defer os.Unsetenv("POICONV_COMPRESS")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for invalid boolean")
	}
	if !strings.Contains(err.Error(), "POICONV_COMPRESS") {
		t.Errorf("error should mention POICONV_COMPRESS: %v", err)
	}
}

func validConfig() *Config {
	return &Config{
		Convert: ConvertConfig{
			InputPath:  "in.csv",
			OutputPath: "out.json",
			Shape:      "columnar",
			Encodings:  []string{"utf-8"},
			Columns:    []string{"id"},
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "unknown shape",
			mutate:  func(c *Config) { c.Convert.Shape = "table" },
			wantErr: "POICONV_SHAPE",
		},
		{
			name:    "no encodings",
			mutate:  func(c *Config) { c.Convert.Encodings = nil },
			wantErr: "POICONV_ENCODINGS",
		},
		{
			name:    "no columns",
			mutate:  func(c *Config) { c.Convert.Columns = nil },
			wantErr: "POICONV_COLUMNS",
		},
		{
			name:    "output overwrites input",
			mutate:  func(c *Config) { c.Convert.OutputPath = c.Convert.InputPath },
			wantErr: "must differ",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
		{
			name: "log file without size",
			mutate: func(c *Config) {
				c.Logging.File = "poiconv.log"
				c.Logging.FileMaxSizeMB = 0
			},
			wantErr: "LOG_FILE_MAX_SIZE_MB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should mention %s: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Convert.Shape = "bogus"
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"POICONV_SHAPE", "LOG_LEVEL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestValidate_ShapeFollowsRegistry(t *testing.T) {
	cfg := validConfig()
	cfg.Convert.Shape = "lines"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() accepted an unregistered shape")
	}
	if !strings.Contains(err.Error(), strings.Join(core.Shapes(), ", ")) {
		t.Errorf("error should list the registered shapes: %v", err)
	}

	core.RegisterShape(core.ShapeDefinition{
		Name: "lines",
		Encode: func(records []core.POIRecord, _ []string) ([]byte, error) {
			return core.EncodeObjects(records)
		},
	})
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want registered shape accepted", err)
	}
}

func TestResolvePaths_KeepsExplicitPaths(t *testing.T) {
	c := &ConvertConfig{RootDir: "/srv/app", InputPath: "/data/a.csv"}
	if err := c.ResolvePaths(); err != nil {
		t.Fatalf("ResolvePaths() error = %v", err)
	}
	if c.InputPath != "/data/a.csv" {
		t.Errorf("InputPath = %q, want %q", c.InputPath, "/data/a.csv")
	}
	want := filepath.Join("/srv/app", "public", "data", "chinapoi.json")
	if c.OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", c.OutputPath, want)
	}
}

func TestConfigString(t *testing.T) {
	cfg := validConfig()
	str := cfg.String()
	for _, want := range []string{"in.csv", "out.json", "columnar"} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %q, should contain %q", str, want)
		}
	}
}
