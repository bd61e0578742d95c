// Package config provides shared configuration types for martlint.
// It is decoupled from CLI concerns so other tools embedding the
// linter can load project configuration the same way.
package config

import "github.com/ryandataengineergit/martlint/pkg/lint"

// Default configuration values.
const (
	DefaultModelsDir = "models"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=text without styling
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "martlint.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "martlint.yml"

// LintConfig holds lint rule configuration.
type LintConfig struct {
	// Disabled contains rule IDs to disable.
	Disabled []string `koanf:"disabled"`

	// Severity maps rule ID to severity override (error, warning, info, hint).
	Severity map[string]string `koanf:"severity"`

	// Rules contains rule-specific options keyed by rule ID.
	Rules map[string]map[string]any `koanf:"rules"`

	// Utility controls how utility-layer models participate in checks.
	Utility *UtilityConfig `koanf:"utility"`
}

// UtilityConfig is the file-level form of lint.UtilityPolicy.
// Pointer fields distinguish "unset" from "false".
type UtilityConfig struct {
	ExemptLayerChecks *bool `koanf:"exempt_layer_checks"`
	CycleChecks       *bool `koanf:"cycle_checks"`
}

// Policy resolves the configured utility policy over the defaults.
func (u *UtilityConfig) Policy() lint.UtilityPolicy {
	policy := lint.DefaultUtilityPolicy()
	if u == nil {
		return policy
	}
	if u.ExemptLayerChecks != nil {
		policy.ExemptLayerChecks = *u.ExemptLayerChecks
	}
	if u.CycleChecks != nil {
		policy.CycleChecks = *u.CycleChecks
	}
	return policy
}

// ProjectConfig holds the project configuration shared by the CLI and
// any embedding tool.
type ProjectConfig struct {
	ModelsDir string      `koanf:"models_dir"`
	Lint      *LintConfig `koanf:"lint"`
}

// ApplyDefaults applies default values to a ProjectConfig.
func (c *ProjectConfig) ApplyDefaults() {
	if c == nil {
		return
	}
	if c.ModelsDir == "" {
		c.ModelsDir = DefaultModelsDir
	}
}
