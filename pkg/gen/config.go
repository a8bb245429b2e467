package gen

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the generator toggles, loaded from a TOML file.
type Config struct {
	// GenerateComment puts a provenance comment at the top of the
	// generated output.
	GenerateComment bool `toml:"generate-comment"`

	// Linearize emits the flat variable table instead of nested
	// struct declarations.
	Linearize bool `toml:"linearize"`
}

// DefaultConfig returns the generator defaults: provenance comment
// on, linearization off.
func DefaultConfig() Config {
	return Config{GenerateComment: true, Linearize: false}
}

// LoadConfig reads generator settings from a TOML file. Keys absent
// from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}

	return cfg, nil
}
