// Package config loads and writes kestrel.yaml.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file kestrel looks for in the working
// directory.
const DefaultFileName = "kestrel.yaml"

// Config represents kestrel.yaml configuration.
type Config struct {
	Project  ProjectConfig `yaml:"project" mapstructure:"project"`
	Scan     ScanConfig    `yaml:"scan" mapstructure:"scan"`
	Layout   LayoutConfig  `yaml:"layout" mapstructure:"layout"`
	Output   OutputConfig  `yaml:"output" mapstructure:"output"`
	Features FeatureFlags  `yaml:"features" mapstructure:"features"`
}

// ProjectConfig holds project metadata.
type ProjectConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
}

// ScanConfig controls tree traversal and resolution.
type ScanConfig struct {
	IgnoreDirs []string `yaml:"ignore_dirs" mapstructure:"ignore_dirs"`
	Languages  []string `yaml:"languages" mapstructure:"languages"`
	Workers    int      `yaml:"workers" mapstructure:"workers"`
}

// LayoutConfig selects and tunes the layout style.
type LayoutConfig struct {
	Style string `yaml:"style" mapstructure:"style"`
}

// OutputConfig defines output settings.
type OutputConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Format string `yaml:"format" mapstructure:"format"`
}

// FeatureFlags controls optional behavior.
type FeatureFlags struct {
	Externals  bool `yaml:"externals" mapstructure:"externals"`
	CyclesOnly bool `yaml:"cycles_only" mapstructure:"cycles_only"`
}

// Load reads configuration from path, layering KESTREL_* environment
// variables over the file and defaults under both. A missing file is not
// an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("KESTREL")
	// Nested keys map to KESTREL_SECTION_KEY env names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("project.name", def.Project.Name)
	v.SetDefault("scan.ignore_dirs", def.Scan.IgnoreDirs)
	v.SetDefault("scan.languages", def.Scan.Languages)
	v.SetDefault("scan.workers", def.Scan.Workers)
	v.SetDefault("layout.style", def.Layout.Style)
	v.SetDefault("output.path", def.Output.Path)
	v.SetDefault("output.format", def.Output.Format)
	v.SetDefault("features.externals", def.Features.Externals)
	v.SetDefault("features.cycles_only", def.Features.CyclesOnly)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return &cfg, nil
}

// Default returns a config with sensible defaults.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			IgnoreDirs: nil, // Scanner applies its own ignore list when empty
			Languages:  nil, // All resolvers
			Workers:    0,   // NumCPU
		},
		Layout: LayoutConfig{
			Style: "circular",
		},
		Output: OutputConfig{
			Path:   "./deps",
			Format: "svg",
		},
		Features: FeatureFlags{
			Externals: true,
		},
	}
}

// Save writes configuration to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
