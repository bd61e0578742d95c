package commands

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ryandataengineergit/martlint/internal/cli/config"
	"github.com/ryandataengineergit/martlint/internal/cli/output"
	"github.com/ryandataengineergit/martlint/internal/loader"
	"github.com/ryandataengineergit/martlint/internal/watch"
	"github.com/ryandataengineergit/martlint/pkg/core"
	"github.com/ryandataengineergit/martlint/pkg/lint"
	_ "github.com/ryandataengineergit/martlint/pkg/lint/rules" // register rules
	"github.com/ryandataengineergit/martlint/pkg/registry"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Path      string   // Models directory override
	Format    string   // Output format: text, markdown, json
	Disable   []string // Rule IDs to disable
	Severity  string   // Minimum severity to display: error, warning, info, hint
	Rules     []string // Run only specific rules
	SkipGraph bool     // Skip graph-level rules
	Watch     bool     // Re-run on declaration file changes
	Workers   int      // Parallel model-check workers
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Validate model declarations",
		Long: `Load model declarations and run all convention checks.

Every model is checked against naming, layering, materialization and
test conventions, and the reference graph is checked for cycles and
layer skips. All findings are collected; a single bad model never
stops the run.

The command exits non-zero when any error-severity finding remains.
Warnings never affect the exit code.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable report`,
		Example: `  # Check the configured models directory
  martlint check

  # Check a specific directory
  martlint check ./models

  # Output the full report as JSON
  martlint check --format json

  # Disable specific rules
  martlint check --disable MS02,MG02

  # Only report errors
  martlint check --severity error

  # Re-run automatically on changes
  martlint check --watch`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Path = args[0]
			}
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity to display: error, warning, info, hint")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().BoolVar(&opts.SkipGraph, "skip-graph", false, "Skip graph-level checks")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run when declaration files change")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Parallel model-check workers (0 = NumCPU)")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	dir := cfg.ModelsDir
	if opts.Path != "" {
		dir = opts.Path
	}

	if !opts.Watch {
		return checkOnce(cmdCtx, r, cfg, opts, dir)
	}

	// Watch mode: run once, then re-run on changes. Failing runs do not
	// stop the loop.
	if err := checkOnce(cmdCtx, r, cfg, opts, dir); err != nil {
		r.Errorf("%v\n", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.Println("")
	r.Println(r.Styles().Muted.Render(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", dir)))

	w := watch.New(dir, cmdCtx.Logger, func() {
		r.Println("")
		if err := checkOnce(cmdCtx, r, cfg, opts, dir); err != nil {
			r.Errorf("%v\n", err)
		}
	})
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// checkOnce loads, validates and reports a single run.
func checkOnce(cmdCtx *CommandContext, r *output.Renderer, cfg *config.Config, opts *CheckOptions, dir string) error {
	logger := cmdCtx.Logger

	result, err := loader.Load(dir)
	if err != nil {
		return err
	}
	logger.Debug("loaded declarations",
		"files", len(result.Files),
		"models", len(result.Models),
		"sources", len(result.Sources))

	reg, err := registry.Build(result.Models, result.Sources)
	if err != nil {
		return err
	}

	policy := lint.DefaultUtilityPolicy()
	ruleOptions := make(map[string]lint.RuleOptions)
	if cfg.Lint != nil {
		policy = cfg.Lint.Utility.Policy()
		for id, o := range cfg.Lint.Rules {
			ruleOptions[id] = lint.RuleOptions(o)
		}
	}

	analyzer := lint.NewAnalyzer(buildAnalyzerConfig(cfg, opts))
	report := analyzer.Run(lint.NewContext(reg, policy, ruleOptions))

	renderReport(r, report, opts.Severity)

	if !report.Pass {
		return fmt.Errorf("validation failed: %d errors", report.Counts.Errors)
	}
	return nil
}

// buildAnalyzerConfig merges project config and CLI flags. CLI flags
// take precedence.
func buildAnalyzerConfig(cfg *config.Config, opts *CheckOptions) *lint.AnalyzerConfig {
	analyzerCfg := lint.NewAnalyzerConfig()
	analyzerCfg.Workers = opts.Workers

	// Apply project config first (lower precedence)
	if cfg != nil && cfg.Lint != nil {
		for _, id := range cfg.Lint.Disabled {
			analyzerCfg.DisabledRules[strings.TrimSpace(id)] = true
		}
		for id, sev := range cfg.Lint.Severity {
			if s, ok := core.ParseSeverity(sev); ok {
				analyzerCfg.SeverityOverrides[id] = s
			}
		}
	}

	// Apply CLI overrides (higher precedence)
	for _, id := range opts.Disable {
		analyzerCfg.DisabledRules[strings.TrimSpace(id)] = true
	}

	if opts.SkipGraph {
		for _, rule := range lint.GetAll() {
			if rule.Type() == "graph" {
				analyzerCfg.DisabledRules[rule.ID] = true
			}
		}
	}

	// If --rule specified, disable all others
	if len(opts.Rules) > 0 {
		enabledSet := make(map[string]bool)
		for _, id := range opts.Rules {
			enabledSet[strings.TrimSpace(id)] = true
		}
		for _, rule := range lint.GetAll() {
			if !enabledSet[rule.ID] {
				analyzerCfg.DisabledRules[rule.ID] = true
			}
		}
	}

	return analyzerCfg
}

// renderReport writes the report in the renderer's effective mode.
// The severity threshold only limits what is displayed; the report
// itself (and the JSON form) always carries every finding.
func renderReport(r *output.Renderer, report *lint.Report, severityThreshold string) {
	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(report)
		return
	}

	threshold, ok := core.ParseSeverity(severityThreshold)
	if !ok {
		threshold = core.SeverityHint
	}

	visible := make([]lint.Violation, 0, len(report.Violations))
	for _, v := range report.Violations {
		if v.Severity <= threshold {
			visible = append(visible, v)
		}
	}

	if len(visible) == 0 {
		r.Success(fmt.Sprintf("%d models checked, no issues found", report.Models))
		return
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		renderReportMarkdown(r, report, visible)
		return
	}
	renderReportText(r, report, visible)
}

func renderReportText(r *output.Renderer, report *lint.Report, visible []lint.Violation) {
	styles := r.Styles()

	currentModel := "\x00"
	for _, v := range visible {
		if v.Model != currentModel {
			currentModel = v.Model
			label := v.Model
			if label == "" {
				label = "(project)"
			}
			r.Println("")
			r.Println(styles.ModelName.Render(label))
		}
		r.Printf("  %s  %s  %s\n",
			violationSeverityStyle(r, v.Severity),
			styles.Bold.Render(v.RuleID),
			v.Message,
		)
	}

	r.Println("")
	r.Printf("Summary: %s in %d models\n", summaryLine(report), report.Models)
}

func renderReportMarkdown(r *output.Renderer, report *lint.Report, visible []lint.Violation) {
	r.Println(output.FormatHeader(1, "Validation Report"))
	r.Println("")

	currentModel := "\x00"
	for _, v := range visible {
		if v.Model != currentModel {
			currentModel = v.Model
			label := v.Model
			if label == "" {
				label = "(project)"
			}
			r.Println(output.FormatHeader(2, label))
		}
		r.Printf("- **%s** (%s): %s\n", v.RuleID, v.Severity.String(), v.Message)
	}

	r.Println("")
	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Models", fmt.Sprintf("%d", report.Models)))
	r.Println(output.FormatKeyValue("Findings", summaryLine(report)))
	r.Println(output.FormatKeyValue("Pass", fmt.Sprintf("%t", report.Pass)))
}

func summaryLine(report *lint.Report) string {
	total := len(report.Violations)
	parts := []string{fmt.Sprintf("%d findings", total)}
	if report.Counts.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", report.Counts.Errors))
	}
	if report.Counts.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", report.Counts.Warnings))
	}
	if report.Counts.Info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", report.Counts.Info))
	}
	if report.Counts.Hints > 0 {
		parts = append(parts, fmt.Sprintf("%d hints", report.Counts.Hints))
	}
	return strings.Join(parts, ", ")
}

func violationSeverityStyle(r *output.Renderer, sev core.Severity) string {
	switch sev {
	case core.SeverityError:
		return r.Styles().Error.Render("error  ")
	case core.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case core.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	case core.SeverityHint:
		return r.Styles().Muted.Render("hint   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}
