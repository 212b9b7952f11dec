// Package config loads and validates the docsearch configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	dserrors "git.home.luguber.info/inful/docsearch/internal/errors"
	"git.home.luguber.info/inful/docsearch/internal/searchidx"
)

// Config represents the application configuration
type Config struct {
	DocsDir   string         `yaml:"docs_dir"`
	OutputDir string         `yaml:"output_dir"`
	AssetsDir string         `yaml:"assets_dir,omitempty"` // lunr-language support files to copy from
	Search    SearchConfig   `yaml:"search"`
	Notify    *NotifyConfig  `yaml:"notify,omitempty"`
	Metrics   *MetricsConfig `yaml:"metrics,omitempty"`
}

// SearchConfig carries the raw search index options. Lang and PrebuildIndex
// are loosely typed because the file format allows both scalar and list /
// bool and string forms; searchidx.Configure owns their validation.
type SearchConfig struct {
	Lang            any    `yaml:"lang,omitempty"` // string or list of strings
	Separator       string `yaml:"separator,omitempty"`
	MinSearchLength *int   `yaml:"min_search_length,omitempty"`
	PrebuildIndex   any    `yaml:"prebuild_index,omitempty"` // bool, "node" or "python"
	Indexing        string `yaml:"indexing,omitempty"`       // full, sections or titles
}

// NotifyConfig enables NATS rebuild notifications in watch mode.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// MetricsConfig enables the Prometheus endpoint in watch mode.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; missing files are fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, dserrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, dserrors.ConfigInvalid(configPath, err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, dserrors.ConfigInvalid(configPath, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DocsDir == "" {
		c.DocsDir = "docs"
	}
	if c.OutputDir == "" {
		c.OutputDir = "site"
	}
}

// SearchOptions maps the raw search config to engine options, applying the
// documented defaults for absent keys.
func (c *Config) SearchOptions() searchidx.Options {
	minLen := searchidx.DefaultMinSearchLength
	if c.Search.MinSearchLength != nil {
		minLen = *c.Search.MinSearchLength
	}

	prebuild := searchidx.PrebuildMode("")
	switch t := c.Search.PrebuildIndex.(type) {
	case bool:
		if t {
			prebuild = searchidx.PrebuildOn
		} else {
			prebuild = searchidx.PrebuildOff
		}
	case string:
		prebuild = searchidx.PrebuildMode(t)
	}

	return searchidx.Options{
		Lang:            c.Search.Lang,
		Separator:       c.Search.Separator,
		MinSearchLength: minLen,
		Prebuild:        prebuild,
		Indexing:        searchidx.Granularity(c.Search.Indexing),
	}
}

const starterConfig = `# docsearch configuration
docs_dir: docs
output_dir: site

search:
  lang: [en]
  separator: '[\s\-]+'
  min_search_length: 3
  indexing: full

# assets_dir: ./lunr-language
# notify:
#   nats_url: nats://localhost:4222
#   subject: docsearch.rebuilt
# metrics:
#   listen: :9100
`

// Init writes a starter configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return dserrors.New(dserrors.CategoryConfig, dserrors.SeverityFatal,
			"configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath)
	}
	if err := os.WriteFile(configPath, []byte(starterConfig), 0o644); err != nil {
		return dserrors.ConfigInvalid(configPath, err)
	}
	return nil
}
