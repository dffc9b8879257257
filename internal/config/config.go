// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-layout/internal/layout"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use the layout defaults or CLI flags.
type Config struct {
	// Page geometry, in layout units
	PageWidth             float64  `json:"page_width,omitempty"`
	PageHeight            float64  `json:"page_height,omitempty"`
	FirstPageHeaderOffset *float64 `json:"first_page_header_offset,omitempty"` // Space reserved for the name/title block on page 0
	PageTopOffset         *float64 `json:"page_top_offset,omitempty"`          // Space reserved at the top of later pages

	// Packing
	MinUsefulHeight    *float64 `json:"min_useful_height,omitempty"`   // Smallest leftover space worth filling before moving a section
	SplittableSections []string `json:"splittable_sections,omitempty"` // Section IDs whose items may split across pages

	// Behavior
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Concurrency int    `json:"concurrency,omitempty"`  // Documents paginated in parallel by the CLI
	OutDir      string `json:"out_dir,omitempty"`      // Where the CLI writes page JSON
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.PageWidth < 0 {
		return fmt.Errorf("config error: 'page_width' must be positive")
	}
	if c.PageHeight < 0 {
		return fmt.Errorf("config error: 'page_height' must be positive")
	}
	if c.FirstPageHeaderOffset != nil && *c.FirstPageHeaderOffset < 0 {
		return fmt.Errorf("config error: 'first_page_header_offset' must be non-negative")
	}
	if c.PageTopOffset != nil && *c.PageTopOffset < 0 {
		return fmt.Errorf("config error: 'page_top_offset' must be non-negative")
	}
	if c.MinUsefulHeight != nil && *c.MinUsefulHeight < 0 {
		return fmt.Errorf("config error: 'min_useful_height' must be non-negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}

	height := c.PageHeight
	if height == 0 {
		height = layout.DefaultPageHeight
	}
	if c.FirstPageHeaderOffset != nil && *c.FirstPageHeaderOffset >= height {
		return fmt.Errorf("config error: 'first_page_header_offset' must be smaller than the page height")
	}
	if c.PageTopOffset != nil && *c.PageTopOffset >= height {
		return fmt.Errorf("config error: 'page_top_offset' must be smaller than the page height")
	}

	for _, id := range c.SplittableSections {
		if id == "" {
			return fmt.Errorf("config error: 'splittable_sections' contains an empty section ID")
		}
	}

	if c.OutDir != "" {
		if info, err := os.Stat(c.OutDir); err == nil && !info.IsDir() {
			return fmt.Errorf("config error: out_dir is not a directory: %s", c.OutDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.PageWidth == 0 {
		result.PageWidth = defaults.PageWidth
	}
	if result.PageHeight == 0 {
		result.PageHeight = defaults.PageHeight
	}
	if result.FirstPageHeaderOffset == nil {
		result.FirstPageHeaderOffset = defaults.FirstPageHeaderOffset
	}
	if result.PageTopOffset == nil {
		result.PageTopOffset = defaults.PageTopOffset
	}
	if result.MinUsefulHeight == nil {
		result.MinUsefulHeight = defaults.MinUsefulHeight
	}
	if len(result.SplittableSections) == 0 {
		result.SplittableSections = defaults.SplittableSections
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.OutDir == "" {
		result.OutDir = defaults.OutDir
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LayoutOptions converts the layout tunables into packer options.
// Unset values keep the layout defaults.
func (c *Config) LayoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	if c == nil {
		return opts
	}
	if c.PageWidth > 0 {
		opts.PageWidth = c.PageWidth
	}
	if c.PageHeight > 0 {
		opts.PageHeight = c.PageHeight
	}
	if c.FirstPageHeaderOffset != nil {
		opts.FirstPageHeaderOffset = *c.FirstPageHeaderOffset
	}
	if c.PageTopOffset != nil {
		opts.PageTopOffset = *c.PageTopOffset
	}
	if c.MinUsefulHeight != nil {
		opts.MinUsefulHeight = *c.MinUsefulHeight
	}
	if len(c.SplittableSections) > 0 {
		opts.SplittableSections = append([]string(nil), c.SplittableSections...)
	}
	return opts
}
