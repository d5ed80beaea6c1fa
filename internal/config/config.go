package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/distlab-cli/internal/standardize"
	"github.com/KaramelBytes/distlab-cli/internal/utils"
)

// Global configuration structure.
type Global struct {
	DefaultDataset string `mapstructure:"default_dataset" yaml:"default_dataset"`
	Language       string `mapstructure:"language" yaml:"language"`
	Theme          string `mapstructure:"theme" yaml:"theme"`

	// Mapping-confidence weights
	ConfidenceMapped   int `mapstructure:"confidence_mapped" yaml:"confidence_mapped"`
	ConfidenceRequired int `mapstructure:"confidence_required" yaml:"confidence_required"`
	ConfidenceDates    int `mapstructure:"confidence_dates" yaml:"confidence_dates"`
	ConfidenceQuantity int `mapstructure:"confidence_quantity" yaml:"confidence_quantity"`

	// Analytics tuning
	AnomalyWindow    int     `mapstructure:"anomaly_window" yaml:"anomaly_window"`
	AnomalyThreshold float64 `mapstructure:"anomaly_threshold" yaml:"anomaly_threshold"`
	ParetoCutoff     float64 `mapstructure:"pareto_cutoff" yaml:"pareto_cutoff"`
	TopN             int     `mapstructure:"top_n" yaml:"top_n"`

	// Note organizer
	HighlightColor string `mapstructure:"highlight_color" yaml:"highlight_color"`
}

// Weights maps the confidence settings onto the standardizer's weight struct.
func (c *Global) Weights() standardize.ConfidenceWeights {
	return standardize.ConfidenceWeights{
		Mapped:   c.ConfidenceMapped,
		Required: c.ConfidenceRequired,
		Dates:    c.ConfidenceDates,
		Quantity: c.ConfidenceQuantity,
	}
}

// Default returns the built-in configuration, used when no file or
// environment overrides apply.
func Default() *Global {
	return &Global{
		Language:           "en",
		Theme:              "dark",
		ConfidenceMapped:   60,
		ConfidenceRequired: 20,
		ConfidenceDates:    10,
		ConfidenceQuantity: 10,
		AnomalyWindow:      7,
		AnomalyThreshold:   2.5,
		ParetoCutoff:       0.8,
		TopN:               10,
		HighlightColor:     "#ffd54f",
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.distlab/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".distlab")
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DISTLAB")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("default_dataset", "")
	v.SetDefault("language", "en")
	v.SetDefault("theme", "dark")
	v.SetDefault("confidence_mapped", 60)
	v.SetDefault("confidence_required", 20)
	v.SetDefault("confidence_dates", 10)
	v.SetDefault("confidence_quantity", 10)
	v.SetDefault("anomaly_window", 7)
	v.SetDefault("anomaly_threshold", 2.5)
	v.SetDefault("pareto_cutoff", 0.8)
	v.SetDefault("top_n", 10)
	v.SetDefault("highlight_color", "#ffd54f")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".distlab")
		_ = utils.EnsureDir(dir)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
