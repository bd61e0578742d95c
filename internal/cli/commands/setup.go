// Package commands implements the martlint subcommands.
package commands

import (
	"log/slog"
	"os"

	"github.com/ryandataengineergit/martlint/internal/cli/config"
	"github.com/ryandataengineergit/martlint/internal/cli/output"
	intconfig "github.com/ryandataengineergit/martlint/internal/config"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the command's
// environment.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back
// to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	modelsDir := getEnvOrDefault("MARTLINT_MODELS_DIR", intconfig.DefaultModelsDir)
	verbose := os.Getenv("MARTLINT_VERBOSE") == "true"
	outputFormat := os.Getenv("MARTLINT_OUTPUT")

	return &config.Config{
		ModelsDir:    modelsDir,
		Verbose:      verbose,
		OutputFormat: outputFormat,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
