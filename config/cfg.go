package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	SourcesConfig struct {
		Stylesheet string `yaml:"stylesheet" validate:"required"`
		Markup     string `yaml:"markup"`
	}

	ThemesConfig struct {
		Selector   string   `yaml:"selector" validate:"required"`
		Schemes    []string `yaml:"schemes" validate:"dive,required"`
		Reference  string   `yaml:"reference"`
		Required   []string `yaml:"required" validate:"dive,startswith=--"`
		CrossCheck bool     `yaml:"cross_check"`
	}

	ContrastConfig struct {
		Background string   `yaml:"background" validate:"required,startswith=--"`
		Foreground []string `yaml:"foreground" validate:"dive,startswith=--"`
		Minimum    float64  `yaml:"minimum" validate:"gte=1,lte=21"`
		Suggest    bool     `yaml:"suggest"`
	}

	FontsConfig struct {
		Domain string   `yaml:"domain" validate:"required,hostname"`
		Expect []string `yaml:"expect" validate:"dive,required"`
		Forbid []string `yaml:"forbid" validate:"dive,required"`
	}

	IconsConfig struct {
		Check bool `yaml:"check"`
	}

	OutputConfig struct {
		SummaryTemplate string `yaml:"summary_template"`
		JUnit           string `yaml:"junit"`
	}

	HistoryConfig struct {
		Destination string `yaml:"destination"`
		Keep        int    `yaml:"keep" validate:"gte=0"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Sources   SourcesConfig  `yaml:"sources"`
		Themes    ThemesConfig   `yaml:"themes"`
		Contrast  ContrastConfig `yaml:"contrast"`
		Fonts     FontsConfig    `yaml:"fonts"`
		Icons     IconsConfig    `yaml:"icons"`
		Output    OutputConfig   `yaml:"output"`
		History   HistoryConfig  `yaml:"history"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	SummaryTemplateFieldName TemplateFieldName = "summary_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(SummaryTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// Only fields we defined are allowed, so no plain yaml.Unmarshal here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
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

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
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
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
