// Package config holds the run configuration for the cleaning tools.
// Everything has an in-code default; a TOML file only overrides what it sets.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the run configuration for clean-pet-supplies.
type Config struct {
	Input   string  `toml:"input"`
	OutDir  string  `toml:"out_dir"`
	CSV     string  `toml:"csv"`
	SQLite  string  `toml:"sqlite"`
	Report  string  `toml:"report"`
	Allowed Allowed `toml:"allowed"`
}

// Allowed are the fixed value sets for the categorical columns. Values
// outside a column's set are replaced with "Unknown" during cleaning.
type Allowed struct {
	Category []string `toml:"category"`
	Animal   []string `toml:"animal"`
	Size     []string `toml:"size"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Input:  "pet_supplies.csv",
		OutDir: "outputs",
		Allowed: Allowed{
			Category: []string{"Housing", "Food", "Toys", "Equipment", "Medicine", "Accessory"},
			Animal:   []string{"Dog", "Cat", "Fish", "Bird"},
			Size:     []string{"Small", "Medium", "Large"},
		},
	}
}

// Load reads a TOML file over the defaults. Keys absent from the file keep
// their default value; an empty allowed set in the file is treated as unset.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	var file Config
	if err := toml.Unmarshal(b, &file); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if file.Input != "" {
		cfg.Input = file.Input
	}
	if file.OutDir != "" {
		cfg.OutDir = file.OutDir
	}
	if file.CSV != "" {
		cfg.CSV = file.CSV
	}
	if file.SQLite != "" {
		cfg.SQLite = file.SQLite
	}
	if file.Report != "" {
		cfg.Report = file.Report
	}
	if len(file.Allowed.Category) > 0 {
		cfg.Allowed.Category = file.Allowed.Category
	}
	if len(file.Allowed.Animal) > 0 {
		cfg.Allowed.Animal = file.Allowed.Animal
	}
	if len(file.Allowed.Size) > 0 {
		cfg.Allowed.Size = file.Allowed.Size
	}
	return cfg, nil
}
