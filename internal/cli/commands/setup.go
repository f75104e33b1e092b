package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlint/internal/cli/config"
	"github.com/leapstack-labs/sqlint/internal/cli/output"
	"github.com/leapstack-labs/sqlint/pkg/core"
	_ "github.com/leapstack-labs/sqlint/pkg/dialects/all" // register dialects
	_ "github.com/leapstack-labs/sqlint/pkg/lint/rules"   // register rules
	"github.com/leapstack-labs/sqlint/pkg/linter"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
// A non-empty format overrides the configured output mode.
func NewCommandContext(cmd *cobra.Command, format string) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	if format == "" {
		format = cfg.OutputFormat
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// NewLinter creates a linter for the loaded configuration. Files are
// streamed through a formatter that shows violations matching filter.
func (c *CommandContext) NewLinter(filter linter.ViolationFilter) *linter.Linter {
	formatter := output.NewFormatter(c.Renderer, filter, c.Cfg.Verbose, c.Logger)
	return linter.New(c.Cfg.Lint(),
		linter.WithLogger(c.Logger),
		linter.WithFormatter(formatter),
	)
}

// getConfig returns the current configuration, or defaults when no
// configuration has been loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{Config: *core.DefaultConfig(), OutputFormat: config.DefaultOutput}
}
