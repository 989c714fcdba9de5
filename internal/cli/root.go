package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"vtd-cli/internal/config"
	"vtd-cli/internal/format"
	"vtd-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	File       string
	ConfigPath string
	Contexts   []string
	NoContexts []string
	NowFlag    string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "vtd",
		Short:        "Plain-text trusted system: parse, filter, and complete your outline",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive view browser
  vtd

  # Scriptable views
  vtd view next --context home --format text

  # Complete the action on line 42
  vtd complete 42 --write

  # Surface parse warnings
  vtd check --fail
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.File, "file", envOr("VTD_FILE", ""), "Outline file (overrides config)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("VTD_CONFIG", ""), "Config file (default: ~/.vtd/config.yaml)")
	cmd.PersistentFlags().StringSliceVar(&app.Contexts, "context", nil, "Context to include (repeatable; adds to config)")
	cmd.PersistentFlags().StringSliceVar(&app.NoContexts, "no-context", nil, "Context to exclude (repeatable; exclusion dominates)")
	cmd.PersistentFlags().StringVar(&app.NowFlag, "now", "", "Resolution instant (YYYY-MM-DD HH:MM or RFC3339; default: wall clock)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("VTD_FORMAT", "json"), "Output format (json|text)")

	cmd.AddCommand(newViewCmd(app))
	cmd.AddCommand(newCompleteCmd(app))
	cmd.AddCommand(newCheckCmd(app))
	cmd.AddCommand(newContextsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	path, err := resolveFile(app)
	if err != nil {
		return err
	}
	include, exclude, err := resolveContexts(app)
	if err != nil {
		return err
	}
	return tui.Run(path, include, exclude)
}

// resolveFile picks the outline file: --file first, then the config.
func resolveFile(app *App) (string, error) {
	if app.File != "" {
		return app.File, nil
	}
	cfg, err := loadConfig(app)
	if err != nil {
		return "", err
	}
	if cfg == nil || cfg.File == "" {
		return "", errors.New("no outline file; pass --file or set `file:` in ~/.vtd/config.yaml")
	}
	return cfg.File, nil
}

// loadConfig returns nil without error when no config file exists and
// none was explicitly requested.
func loadConfig(app *App) (*config.Config, error) {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		var miss *config.MissingFileError
		if errors.As(err, &miss) && app.ConfigPath == "" {
			return nil, nil
		}
		return nil, err
	}
	return cfg, nil
}

// resolveContexts merges config contexts with the --context/--no-context
// flags. Flags add to the config sets rather than replacing them.
func resolveContexts(app *App) (include, exclude []string, err error) {
	cfg, err := loadConfig(app)
	if err != nil {
		return nil, nil, err
	}
	if cfg != nil {
		include, exclude = cfg.IncludeExclude()
	}
	include = append(include, app.Contexts...)
	exclude = append(exclude, app.NoContexts...)
	return include, exclude, nil
}

func readSource(app *App) (string, string, error) {
	path, err := resolveFile(app)
	if err != nil {
		return "", "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read outline: %w", err)
	}
	return string(b), path, nil
}

func resolveNow(app *App) (time.Time, error) {
	if app.NowFlag == "" {
		return time.Now(), nil
	}
	if ts, err := time.ParseInLocation("2006-01-02 15:04", app.NowFlag, time.Local); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(time.RFC3339, app.NowFlag); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("invalid --now %q (expected YYYY-MM-DD HH:MM or RFC3339)", app.NowFlag)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}
