package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"vtd-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newCompleteCmd(app *App) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "complete <line-number>",
		Short: "Stamp one outline line as done (or advance its LASTDONE)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineNo, err := strconv.Atoi(args[0])
			if err != nil || lineNo < 1 {
				return fmt.Errorf("invalid line number %q", args[0])
			}

			text, path, err := readSource(app)
			if err != nil {
				return err
			}
			lines := strings.Split(text, "\n")
			if lineNo > len(lines) {
				return fmt.Errorf("line %d past end of %s (%d lines)", lineNo, path, len(lines))
			}
			now, err := resolveNow(app)
			if err != nil {
				return err
			}

			edit, target, err := mutate.CompleteAt(lines, lineNo-1, now)
			if errors.Is(err, mutate.ErrNotCompletable) {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			if err != nil {
				return err
			}

			if write {
				lines[target] = edit.Line
				if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
					return fmt.Errorf("write outline: %w", err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"line":    target + 1,
				"edit":    edit,
				"written": write,
			})
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Apply the edit to the outline file")
	return cmd
}
