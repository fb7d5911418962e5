// Package config resolves runtime settings from flags, environment, and
// an optional config file, and loads alternate classifier keyword sets
// from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/JahnaviEra/pubmed-paper-fetcher/internal/classify"
)

// Defaults for settings not given by flag, env, or file.
const (
	DefaultMaxResults = 10
	DefaultChunkSize  = 50
	DefaultTimeout    = 30 * time.Second
	DefaultOutputFile = "results.csv"
)

// Config holds the resolved runtime settings for one pipeline run.
type Config struct {
	MaxResults int           `mapstructure:"max_results"`
	ChunkSize  int           `mapstructure:"chunk_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
	OutputFile string        `mapstructure:"output_file"`
	APIKey     string        `mapstructure:"api_key"`
	Tool       string        `mapstructure:"tool"`
	Email      string        `mapstructure:"email"`
}

// SetDefaults registers the default values on a viper instance. Call
// before ReadInConfig so file and env values can override them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("max_results", DefaultMaxResults)
	v.SetDefault("chunk_size", DefaultChunkSize)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("output_file", DefaultOutputFile)
	v.SetDefault("tool", "")
	v.SetDefault("email", "")
	v.SetDefault("api_key", "")
}

// Load resolves the final Config from a viper instance.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.MaxResults <= 0 {
		return Config{}, fmt.Errorf("max_results must be positive, got %d", cfg.MaxResults)
	}
	if cfg.ChunkSize <= 0 {
		return Config{}, fmt.Errorf("chunk_size must be positive, got %d", cfg.ChunkSize)
	}
	return cfg, nil
}

// keywordFile is the on-disk shape of a keyword set.
type keywordFile struct {
	Keywords classify.Keywords `yaml:"keywords"`
}

// LoadKeywords reads a classifier keyword set from a YAML file. Both
// lists must be non-empty; a partial file is rejected rather than
// silently merged with the defaults.
func LoadKeywords(path string) (classify.Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return classify.Keywords{}, fmt.Errorf("reading keywords file: %w", err)
	}

	var f keywordFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return classify.Keywords{}, fmt.Errorf("parsing keywords file %s: %w", path, err)
	}

	if len(f.Keywords.Academic) == 0 || len(f.Keywords.Company) == 0 {
		return classify.Keywords{}, fmt.Errorf("keywords file %s must list both academic and company terms", path)
	}
	return f.Keywords, nil
}

// SaveKeywords writes a keyword set to a YAML file, used to export the
// defaults as a starting point for customization.
func SaveKeywords(path string, kw classify.Keywords) error {
	data, err := yaml.Marshal(keywordFile{Keywords: kw})
	if err != nil {
		return fmt.Errorf("marshaling keywords: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing keywords file: %w", err)
	}
	return nil
}
