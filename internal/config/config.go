// Package config defines the settings of a sync run.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// defaults
const (
	DefaultSheetURL      = "https://docs.google.com/spreadsheets/d/e/2PACX-1vQUgbmLaIQcadhPZSGf2nUBoSOhvcqMMoU0DPWlRUKmRrYHYtXsvWxGgqhWRjqpakry4VBTB2CHtMen/pub?gid=1592321778&single=true&output=csv"
	DefaultIconMapPath   = "IconMap.js"
	DefaultColumn        = 6 // column G
	DefaultLookupBaseURL = "https://www.wowhead.com"
	DefaultDelay         = 200 * time.Millisecond
	DefaultSheetRetries  = 2
	DefaultTimeout       = 30 * time.Second
	DefaultUserAgent     = "iconmapsync"
)

var ErrInvalid = errors.New("invalid config")

// Config holds all parameters of a sync run.
type Config struct {
	SheetURL      string        `yaml:"sheet_url"`
	IconMapPath   string        `yaml:"iconmap_path"`
	Column        int           `yaml:"column"`
	LookupBaseURL string        `yaml:"lookup_base_url"`
	Delay         time.Duration `yaml:"delay"`
	SheetRetries  int           `yaml:"sheet_retries"`
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
}

// Default returns a config with the default values.
func Default() Config {
	return Config{
		SheetURL:      DefaultSheetURL,
		IconMapPath:   DefaultIconMapPath,
		Column:        DefaultColumn,
		LookupBaseURL: DefaultLookupBaseURL,
		Delay:         DefaultDelay,
		SheetRetries:  DefaultSheetRetries,
		Timeout:       DefaultTimeout,
		UserAgent:     DefaultUserAgent,
	}
}

// Load returns the default config overlaid with the values from the YAML file at path.
// Keys missing in the file keep their default.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("load config %s: %w", path, err)
	}
	return c, nil
}

// Validate reports an error when the config can not be used for a run.
func (c Config) Validate() error {
	if c.SheetURL == "" {
		return fmt.Errorf("%w: sheet URL is empty", ErrInvalid)
	}
	if c.LookupBaseURL == "" {
		return fmt.Errorf("%w: lookup base URL is empty", ErrInvalid)
	}
	if c.IconMapPath == "" {
		return fmt.Errorf("%w: icon map path is empty", ErrInvalid)
	}
	if c.Column < 0 {
		return fmt.Errorf("%w: column must not be negative: %d", ErrInvalid, c.Column)
	}
	if c.Delay < 0 {
		return fmt.Errorf("%w: delay must not be negative: %s", ErrInvalid, c.Delay)
	}
	if c.SheetRetries < 0 {
		return fmt.Errorf("%w: sheet retries must not be negative: %d", ErrInvalid, c.SheetRetries)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative: %s", ErrInvalid, c.Timeout)
	}
	return nil
}
