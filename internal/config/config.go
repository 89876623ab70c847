package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dario.cat/mergo"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/league-stats/internal/stats"
)

const (
	// AppName is the application name used for XDG directory paths
	AppName = "league-stats"

	// DefaultConfigFile is the run file name inside the XDG config directory
	DefaultConfigFile = "config.yaml"

	DefaultCacheDir    = "data_cache"
	DefaultTopN        = 5
	DefaultExcelFile   = "passing_comparison.xlsx"
	DefaultTimeout     = 10 * time.Second
	DefaultConcurrency = 1
	DefaultFormat      = "text"
	DefaultLogLevel    = "info"
)

var (
	ErrConfigNotFound     = errors.New("configuration file not found")
	ErrInvalidTimeout     = errors.New("timeout must be positive")
	ErrNoTeams            = errors.New("at least one team is required")
	ErrInvalidTopN        = errors.New("top-n must be at least 1")
	ErrInvalidConcurrency = errors.New("concurrency must be at least 1")
	ErrNoCacheDir         = errors.New("cache directory is required")
	ErrNoMetric           = errors.New("ranking metric is required")
)

// Metrics names the ranking column for each statistic kind
type Metrics struct {
	Passing  string `yaml:"passing"`
	Shooting string `yaml:"shooting"`
}

// URLs overrides the source page for each statistic kind
type URLs struct {
	Passing  string `yaml:"passing"`
	Shooting string `yaml:"shooting"`
}

// Plot configures the bar chart
type Plot struct {
	Metric string `yaml:"metric"`
	Title  string `yaml:"title"`
}

// Config is the full run configuration
type Config struct {
	CacheDir       string        `yaml:"cache_dir"`
	URLs           URLs          `yaml:"urls"`
	Teams          []string      `yaml:"teams"`
	CompareColumns []string      `yaml:"compare_columns"`
	Metrics        Metrics       `yaml:"metrics"`
	TopN           int           `yaml:"top_n"`
	ExcelFile      string        `yaml:"excel_file"`
	Plot           Plot          `yaml:"plot"`
	Timeout        time.Duration `yaml:"timeout"`
	Concurrency    int           `yaml:"concurrency"`
	KeepGoing      bool          `yaml:"keep_going"`
	Format         string        `yaml:"format"`
	LogLevel       string        `yaml:"log_level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		CacheDir:       DefaultCacheDir,
		URLs: URLs{
			Passing:  stats.PassingURL,
			Shooting: stats.ShootingURL,
		},
		Teams:          []string{"Arsenal", "Nott'ham Forest"},
		CompareColumns: []string{"Squad", "Total_Cmp", "Total_Att", "Total_Cmp%", "Total_TotDist"},
		Metrics: Metrics{
			Passing:  "Total_Cmp%",
			Shooting: "Standard_Sh",
		},
		TopN:      DefaultTopN,
		ExcelFile: DefaultExcelFile,
		Plot: Plot{
			Metric: "Total_Cmp%",
			Title:  "Arsenal vs Nottham Forest - Pass Completion %",
		},
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
		Format:      DefaultFormat,
		LogLevel:    DefaultLogLevel,
	}
}

// XDGConfigDir returns the XDG config directory for league-stats.
// On Linux: ~/.config/league-stats
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// FindConfigFile returns the run file to load, or "" when there is none.
// An explicit path is returned as is so a missing file is reported.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	path := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// Load returns the defaults merged with the run file found for explicit
func Load(explicit string) (*Config, error) {
	cfg := Default()

	path := FindConfigFile(explicit)
	if path == "" {
		return cfg, nil
	}

	file, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Merge(file); err != nil {
		return nil, fmt.Errorf("merging %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFile parses a YAML run file without applying defaults
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return &cfg, nil
}

// Merge overlays the non-zero fields of override onto c
func (c *Config) Merge(override *Config) error {
	if override == nil {
		return nil
	}
	return mergo.Merge(c, *override, mergo.WithOverride)
}

// MetricFor returns the ranking metric for a statistic kind
func (c *Config) MetricFor(kind stats.Kind) string {
	if kind == stats.KindShooting {
		return c.Metrics.Shooting
	}
	return c.Metrics.Passing
}

// Pages returns the statistics pages in fetch order with configured URLs
func (c *Config) Pages() []stats.Page {
	pages := stats.Pages()
	for i, p := range pages {
		switch p.Kind {
		case stats.KindPassing:
			if c.URLs.Passing != "" {
				pages[i].URL = c.URLs.Passing
			}
		case stats.KindShooting:
			if c.URLs.Shooting != "" {
				pages[i].URL = c.URLs.Shooting
			}
		}
	}
	return pages
}

// Page returns the configured page for one kind
func (c *Config) Page(kind stats.Kind) (stats.Page, error) {
	for _, p := range c.Pages() {
		if p.Kind == kind {
			return p, nil
		}
	}
	return stats.Page{}, fmt.Errorf("unknown statistic kind %q", kind)
}

// Validate checks that the configuration can drive a run
func (c *Config) Validate() error {
	if c.CacheDir == "" {
		return ErrNoCacheDir
	}
	if len(c.Teams) == 0 {
		return ErrNoTeams
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.TopN < 1 {
		return ErrInvalidTopN
	}
	if c.Concurrency < 1 {
		return ErrInvalidConcurrency
	}
	if c.Metrics.Passing == "" || c.Metrics.Shooting == "" || c.Plot.Metric == "" {
		return ErrNoMetric
	}
	return nil
}
