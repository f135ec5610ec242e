package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/project-outline/internal/registry"
)

// levelsCmd represents the levels command
var levelsCmd = &cobra.Command{
	Use:   "levels <file>",
	Short: "List the levels available for a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		return executeLevels(cmd.OutOrStdout(), eng.Registry(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(levelsCmd)
}

func executeLevels(w io.Writer, reg *registry.Registry, path string) error {
	desc, err := reg.Resolve(path)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s %s", desc.Icon, desc.Name)))
	for _, level := range desc.DeclaredLevels() {
		ld := desc.Levels[level]
		handler := ld.Analyzer
		if ld.Builtin() {
			handler = "built-in"
		}
		fmt.Fprintf(w, "  %d  %s  %s\n", level, nameStyle.Render(ld.Name), dimStyle.Render(ld.Breadcrumb))
		fmt.Fprintf(w, "     handler: %s", handler)
		if len(ld.NextLevels) > 0 {
			next := make([]string, len(ld.NextLevels))
			for i, n := range ld.NextLevels {
				next[i] = fmt.Sprintf("%d", n)
			}
			fmt.Fprintf(w, "  next: %s", strings.Join(next, ", "))
		}
		fmt.Fprintln(w)
	}
	return nil
}
