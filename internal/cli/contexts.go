package cli

import (
	"github.com/spf13/cobra"
)

func newContextsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contexts",
		Short: "Show the effective context include/exclude sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			include, exclude, err := resolveContexts(app)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{
				"include": include,
				"exclude": exclude,
			})
		},
	}
	return cmd
}
