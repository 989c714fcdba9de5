package cli

import (
	"fmt"

	"vtd-cli/internal/engine"
	"vtd-cli/internal/views"

	"github.com/spf13/cobra"
)

var viewKinds = map[string]views.Kind{
	"next":      views.Next,
	"inboxes":   views.Inboxes,
	"recurring": views.Recurring,
	"waiting":   views.Waiting,
	"all":       views.All,
}

func newViewCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "view {next|inboxes|recurring|waiting|all}",
		Short:     "Render a filtered view of the outline",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"next", "inboxes", "recurring", "waiting", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := viewKinds[args[0]]
			if !ok {
				return fmt.Errorf("unknown view %q", args[0])
			}

			text, path, err := readSource(app)
			if err != nil {
				return err
			}
			now, err := resolveNow(app)
			if err != nil {
				return err
			}

			include, exclude, err := resolveContexts(app)
			if err != nil {
				return err
			}

			doc := engine.Parse(text, path, now)
			lines := engine.RenderView(doc, kind, include, exclude, now)
			if app.Format == "text" {
				return writeOut(cmd, app, lines)
			}
			return writeOut(cmd, app, map[string]any{
				"view":     args[0],
				"lines":    lines,
				"warnings": doc.Warnings,
			})
		},
	}
	return cmd
}
