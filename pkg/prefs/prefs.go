// Package prefs persists presentation preferences that survive restarts:
// which table columns are visible and whether the filter controls panel
// is open. Preferences never affect what is fetched, only what is shown.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/offerdeck/offerdeck/pkg/config"
	"github.com/offerdeck/offerdeck/pkg/log"
)

// Prefs is the on-disk preference record.
type Prefs struct {
	// ColumnVisibility maps a column key to an explicit override. Columns
	// absent from the map keep their built-in default.
	ColumnVisibility map[string]bool `toml:"column_visibility"`

	// ControlsOpen remembers whether the filter controls panel was open.
	ControlsOpen bool `toml:"controls_open"`
}

// Default returns the zero preference set: no overrides, panel closed.
func Default() *Prefs {
	return &Prefs{ColumnVisibility: make(map[string]bool)}
}

// DefaultPath returns the preference file location under the config dir.
func DefaultPath() (string, error) {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "prefs.toml"), nil
}

// Load reads preferences from path. A missing or malformed file yields
// the defaults rather than an error: preferences are never worth failing
// a command over.
func Load(path string) *Prefs {
	logger := log.ForComponent("prefs")

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Debugf("reading preferences: %v", err)
		}
		return Default()
	}

	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		logger.Errorf("preferences file %s is malformed, using defaults: %v", path, err)
		return Default()
	}
	if p.ColumnVisibility == nil {
		p.ColumnVisibility = make(map[string]bool)
	}
	return &p
}

// Save writes preferences to path, creating the directory if needed.
func (p *Prefs) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating preferences directory: %w", err)
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling preferences: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// SetColumn records an explicit visibility override for a column key.
func (p *Prefs) SetColumn(key string, visible bool) {
	if p.ColumnVisibility == nil {
		p.ColumnVisibility = make(map[string]bool)
	}
	p.ColumnVisibility[key] = visible
}
