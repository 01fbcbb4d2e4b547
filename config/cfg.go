package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"pubnav/wire"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	// PreferencesConfig holds the rendering preferences applied to every
	// reader view before the host supplies its own. Zero values mean "no
	// default", matching the per-field-optional wire record.
	PreferencesConfig struct {
		FontFamily      string  `yaml:"font_family,omitempty"`
		FontSize        float64 `yaml:"font_size,omitempty" validate:"omitempty,gt=0"`
		Theme           string  `yaml:"theme,omitempty" validate:"omitempty,oneof=light dark sepia"`
		TextAlign       string  `yaml:"text_align,omitempty" validate:"omitempty,oneof=start left right justify"`
		ColumnCount     string  `yaml:"column_count,omitempty" validate:"omitempty,oneof=auto 1 2"`
		Scroll          *bool   `yaml:"scroll,omitempty"`
		PublisherStyles *bool   `yaml:"publisher_styles,omitempty"`
		TextColor       string  `yaml:"text_color,omitempty"`
		BackgroundColor string  `yaml:"background_color,omitempty"`
	}

	ReaderConfig struct {
		AnimatedNavigation bool              `yaml:"animated_navigation"`
		HighlightTint      string            `yaml:"highlight_tint" validate:"required"`
		SnippetLength      int               `yaml:"snippet_length" validate:"min=0,max=1000"`
		Preferences        PreferencesConfig `yaml:"preferences"`
	}

	Config struct {
		Version int           `yaml:"version" validate:"eq=1"`
		Reader  ReaderConfig  `yaml:"reader"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

// Wire converts configured defaults to the wire preferences record. Only
// fields the configuration actually sets are present.
func (p *PreferencesConfig) Wire() wire.Preferences {
	var out wire.Preferences
	if len(p.FontFamily) > 0 {
		v := p.FontFamily
		out.FontFamily = &v
	}
	if p.FontSize > 0 {
		v := p.FontSize
		out.FontSize = &v
	}
	if len(p.Theme) > 0 {
		v := p.Theme
		out.Theme = &v
	}
	if len(p.TextAlign) > 0 {
		v := p.TextAlign
		out.TextAlign = &v
	}
	if len(p.ColumnCount) > 0 {
		v := p.ColumnCount
		out.ColumnCount = &v
	}
	if p.Scroll != nil {
		v := *p.Scroll
		out.Scroll = &v
	}
	if p.PublisherStyles != nil {
		v := *p.PublisherStyles
		out.PublisherStyles = &v
	}
	if len(p.TextColor) > 0 {
		v := p.TextColor
		out.TextColor = &v
	}
	if len(p.BackgroundColor) > 0 {
		v := p.BackgroundColor
		out.BackgroundColor = &v
	}
	return out
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
