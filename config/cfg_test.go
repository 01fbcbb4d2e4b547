package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rupor-github/gencfg"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}

	if !cfg.Reader.AnimatedNavigation {
		t.Error("Expected animated navigation by default")
	}

	if cfg.Reader.HighlightTint != "#FFFF00" {
		t.Errorf("HighlightTint = %q, want #FFFF00", cfg.Reader.HighlightTint)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
reader:
  animated_navigation: false
  highlight_tint: "rgba(255, 0, 0, 0.5)"
  snippet_length: 80
  preferences:
    font_size: 1.2
    theme: sepia
logging:
  console:
    level: normal
  file:
    level: debug
    destination: /tmp/test.log
    mode: append
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}

	if cfg.Reader.AnimatedNavigation {
		t.Error("Expected animated navigation to be disabled")
	}

	if cfg.Reader.SnippetLength != 80 {
		t.Errorf("SnippetLength = %d, want 80", cfg.Reader.SnippetLength)
	}

	if cfg.Reader.Preferences.FontSize != 1.2 {
		t.Errorf("FontSize = %f, want 1.2", cfg.Reader.Preferences.FontSize)
	}

	if cfg.Reader.Preferences.Theme != "sepia" {
		t.Errorf("Theme = %q, want sepia", cfg.Reader.Preferences.Theme)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	_, err := LoadConfiguration("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "unknown.yaml")

	configWithUnknown := `version: 1
unknown_field: value
reader:
  animated_navigation: true
`

	if err := os.WriteFile(configPath, []byte(configWithUnknown), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfiguration(configPath)
	if err == nil {
		t.Error("Expected error for unknown fields")
	}
}

func TestLoadConfiguration_ValidationError(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_values.yaml")

	// Invalid version number
	configWithInvalidVersion := `version: 2
reader:
  animated_navigation: true
`

	if err := os.WriteFile(configPath, []byte(configWithInvalidVersion), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfiguration(configPath)
	if err == nil {
		t.Error("Expected validation error for invalid version")
	}
}

func TestLoadConfiguration_BadEnumValue(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad_theme.yaml")

	configWithBadTheme := `version: 1
reader:
  highlight_tint: "#FFFF00"
  preferences:
    theme: solarized
`

	if err := os.WriteFile(configPath, []byte(configWithBadTheme), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfiguration(configPath)
	if err == nil {
		t.Error("Expected validation error for unknown theme")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {
		// Options are opaque, just test that we can pass them
	}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if len(data) == 0 {
		t.Error("Prepare() returned empty data")
	}

	// Verify it's valid YAML by trying to unmarshal
	cfg := &Config{}
	_, err = unmarshalConfig(data, cfg, true)
	if err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("Dump() returned empty data")
	}

	if _, err := unmarshalConfig(data, &Config{}, false); err != nil {
		t.Errorf("Dumped config does not round-trip: %v", err)
	}
}

func TestPreferencesWire(t *testing.T) {
	scroll := true
	p := PreferencesConfig{
		FontSize: 1.1,
		Theme:    "dark",
		Scroll:   &scroll,
	}
	w := p.Wire()

	if w.FontSize == nil || *w.FontSize != 1.1 {
		t.Errorf("FontSize = %v", w.FontSize)
	}
	if w.Theme == nil || *w.Theme != "dark" {
		t.Errorf("Theme = %v", w.Theme)
	}
	if w.Scroll == nil || !*w.Scroll {
		t.Errorf("Scroll = %v", w.Scroll)
	}
	if w.FontFamily != nil || w.TextColor != nil || w.ColumnCount != nil {
		t.Error("unset fields must stay absent")
	}
}
