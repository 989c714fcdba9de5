package cli

import (
	"errors"

	"vtd-cli/internal/engine"
	"vtd-cli/internal/model"

	"github.com/spf13/cobra"
)

var errCheckIssuesFound = errors.New("outline has warnings")

func newCheckCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Parse the outline and report warnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, path, err := readSource(app)
			if err != nil {
				return err
			}
			now, err := resolveNow(app)
			if err != nil {
				return err
			}

			doc := engine.Parse(text, path, now)
			nodes := 0
			doc.Walk(func(*model.Node) { nodes++ })

			if err := writeOut(cmd, app, map[string]any{
				"file":     path,
				"nodes":    nodes,
				"warnings": doc.Warnings,
			}); err != nil {
				return err
			}
			if fail && len(doc.Warnings) > 0 {
				return errCheckIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if warnings are found")
	return cmd
}
