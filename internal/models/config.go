package models

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config describes one index-generation run: repository identity plus
// the artifacts to index.
type Config struct {
	// Repository metadata embedded in the Release document
	Origin string `toml:"origin"`
	Label  string `toml:"label"`

	// Directory the generated documents are written to
	OutputDir string `toml:"output_dir"`

	Packages []PackageEntry `toml:"packages"`
}

// PackageEntry describes one artifact in the manifest
type PackageEntry struct {
	Name    string    `toml:"name"`
	Version string    `toml:"version"`
	URL     string    `toml:"url"`
	Created time.Time `toml:"created"`
}

// LoadConfig reads and validates a TOML manifest
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, &IndexError{Type: ErrInvalidConfig, Err: err}
	}

	for i, entry := range cfg.Packages {
		if entry.URL == "" {
			return nil, &IndexError{
				Type: ErrInvalidConfig,
				Err:  fmt.Errorf("package entry %d is missing a url", i),
			}
		}
	}

	return &cfg, nil
}
