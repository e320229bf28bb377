// Package config loads the optional run-time configuration for the typer:
// where to look for prelude/import sources, plus two behavior flags (see
// RunConfig). The typer itself never reads this file: the CLI harness loads
// it and hands RunConfig to NewFileResolver; NewInferenceState takes no
// configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig is loaded from an optional noolang.yaml in the working
// directory (or a path given via --config). Every field has a sane zero
// value, so a missing file is equivalent to RunConfig{}.
type RunConfig struct {
	// PreludePaths lists directories searched, in order, for imported
	// modules (spec §6's Import node resolves a Path against these).
	PreludePaths []string `yaml:"prelude_paths"`

	// StrictAmbiguity is loaded from strict_ambiguity and defaults to true.
	// No code outside this package reads it: an ambiguous trait resolution
	// (spec §4.5, invariant 6) is always a hard error, whatever its value.
	StrictAmbiguity bool `yaml:"strict_ambiguity"`

	// AllowUnionNarrowing is loaded from allow_union_narrowing and defaults
	// to true. No code outside this package reads it: unifying a union with
	// a bare type variable always fails with UnionVarError, whatever its
	// value.
	AllowUnionNarrowing bool `yaml:"allow_union_narrowing"`
}

// Default returns the configuration the typer uses when no noolang.yaml is
// present: spec-compliant defaults, no prelude search path.
func Default() RunConfig {
	return RunConfig{
		StrictAmbiguity:     true,
		AllowUnionNarrowing: true,
	}
}

// Load reads and parses a noolang.yaml file at path. A missing file is not
// an error — it returns Default().
func Load(path string) (RunConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
