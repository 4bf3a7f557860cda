package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mbourmaud/failprint/internal/capture"
	"github.com/mbourmaud/failprint/internal/format"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Capture != "both" {
		t.Errorf("expected capture 'both', got '%s'", cfg.Capture)
	}
	if !cfg.Progress {
		t.Error("expected progress to be enabled by default")
	}
	if cfg.Format != "" {
		t.Errorf("expected empty format, got '%s'", cfg.Format)
	}
	if cfg.PTY || cfg.Quiet || cfg.Silent || cfg.NoFail {
		t.Error("expected pty, quiet, silent and nofail to be disabled by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".failprint.yaml")

	content := `format: tap
capture: stderr
pty: true
progress: false
quiet: true
nofail: true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Format != "tap" {
		t.Errorf("expected format 'tap', got '%s'", cfg.Format)
	}
	if cfg.Capture != "stderr" {
		t.Errorf("expected capture 'stderr', got '%s'", cfg.Capture)
	}
	if !cfg.PTY {
		t.Error("expected pty to be enabled")
	}
	if cfg.Progress {
		t.Error("expected progress to be disabled")
	}
	if !cfg.Quiet || !cfg.NoFail {
		t.Error("expected quiet and nofail to be enabled")
	}
	if cfg.Silent {
		t.Error("expected silent to stay disabled")
	}

	mode, err := cfg.CaptureMode()
	if err != nil {
		t.Fatalf("CaptureMode failed: %v", err)
	}
	if mode != capture.Stderr {
		t.Errorf("expected capture.Stderr, got %v", mode)
	}
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".failprint.toml")

	content := `format = "pretty"
capture = "stdout"
silent = true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Format != "pretty" {
		t.Errorf("expected format 'pretty', got '%s'", cfg.Format)
	}
	if cfg.Capture != "stdout" {
		t.Errorf("expected capture 'stdout', got '%s'", cfg.Capture)
	}
	if !cfg.Silent {
		t.Error("expected silent to be enabled")
	}
	if !cfg.Progress {
		t.Error("expected progress to keep its default")
	}
}

func TestLoadNonExistent(t *testing.T) {
	_, err := Load("/nonexistent/path/.failprint.yaml")
	if err == nil {
		t.Error("expected error when loading non-existent config file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".failprint.yaml")

	content := `capture: [invalid yaml
  this is not valid
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("expected error when loading invalid YAML config")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".failprint.toml")

	if err := os.WriteFile(configPath, []byte("capture = \n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("expected error when loading invalid TOML config")
	}
}

func TestLoadPartialConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".failprint.yml")

	if err := os.WriteFile(configPath, []byte("quiet: true\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !cfg.Quiet {
		t.Error("expected quiet to be enabled")
	}
	if cfg.Capture != "both" {
		t.Errorf("expected default capture 'both', got '%s'", cfg.Capture)
	}
	if !cfg.Progress {
		t.Error("expected default progress")
	}
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"out.yaml", "out.toml"} {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), name)

			cfg := Default()
			cfg.Format = "tap"
			cfg.Capture = "none"
			cfg.PTY = true
			cfg.Progress = false

			if err := cfg.Save(configPath); err != nil {
				t.Fatalf("failed to save config: %v", err)
			}

			info, err := os.Stat(configPath)
			if err != nil {
				t.Fatalf("failed to stat saved config: %v", err)
			}
			if info.Mode().Perm() != 0600 {
				t.Errorf("expected permissions 0600, got %o", info.Mode().Perm())
			}

			loaded, err := Load(configPath)
			if err != nil {
				t.Fatalf("failed to load saved config: %v", err)
			}
			if *loaded != *cfg {
				t.Errorf("expected %+v, got %+v", *cfg, *loaded)
			}
		})
	}
}

func TestSaveTOMLSyntax(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".failprint.toml")
	if err := Default().Save(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if !strings.Contains(string(data), `capture = "both"`) {
		t.Errorf("expected TOML output, got:\n%s", data)
	}
}

func TestFind(t *testing.T) {
	tmpDir := t.TempDir()

	if got := Find(tmpDir); got != "" {
		t.Errorf("expected no config file, got %s", got)
	}

	tomlPath := filepath.Join(tmpDir, ".failprint.toml")
	if err := os.WriteFile(tomlPath, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}
	if got := Find(tmpDir); got != tomlPath {
		t.Errorf("expected %s, got %s", tomlPath, got)
	}

	yamlPath := filepath.Join(tmpDir, ".failprint.yaml")
	if err := os.WriteFile(yamlPath, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}
	if got := Find(tmpDir); got != yamlPath {
		t.Errorf("expected YAML file to take precedence, got %s", got)
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadOrDefault()
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.Capture != "both" {
		t.Errorf("expected defaults, got %+v", *cfg)
	}

	if err := os.WriteFile(".failprint.yaml", []byte("capture: stdout\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadOrDefault()
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.Capture != "stdout" {
		t.Errorf("expected capture 'stdout', got '%s'", cfg.Capture)
	}

	if err := os.WriteFile(".failprint.yaml", []byte("capture: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrDefault(); err == nil {
		t.Error("expected error for an invalid config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:   "valid default",
			modify: func(c *Config) {},
		},
		{
			name:   "valid tap format",
			modify: func(c *Config) { c.Format = "tap" },
		},
		{
			name:   "valid custom format",
			modify: func(c *Config) { c.Format = "custom={{.code}}" },
		},
		{
			name:    "invalid capture",
			modify:  func(c *Config) { c.Capture = "everything" },
			wantErr: capture.ErrInvalidMode,
		},
		{
			name:    "unknown format",
			modify:  func(c *Config) { c.Format = "xml" },
			wantErr: format.ErrUnknownFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
