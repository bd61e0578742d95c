// Package config provides configuration management for the martlint
// CLI. It layers defaults, the martlint.yaml project file, MARTLINT_
// environment variables, and CLI flags, in that precedence order.
package config

import (
	sharedcfg "github.com/ryandataengineergit/martlint/internal/config"
)

// LintConfig is an alias for the shared lint configuration.
type LintConfig = sharedcfg.LintConfig

// UtilityConfig is an alias for the shared utility policy config.
type UtilityConfig = sharedcfg.UtilityConfig

// Config holds all CLI configuration options.
type Config struct {
	ModelsDir    string      `koanf:"models_dir"`
	Verbose      bool        `koanf:"verbose"`
	OutputFormat string      `koanf:"output"`
	Lint         *LintConfig `koanf:"lint"`

	// ProjectRoot is the directory config-relative paths resolve
	// against; set during load, never read from the file.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values - uses shared defaults from internal/config.
const (
	DefaultModelsDir = sharedcfg.DefaultModelsDir
	DefaultOutput    = sharedcfg.DefaultOutput
)
