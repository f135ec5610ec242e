package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/project-outline/internal/registry"
)

// typesCmd represents the types command
var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List supported file types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		executeTypes(cmd.OutOrStdout(), eng.Registry())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

func executeTypes(w io.Writer, reg *registry.Registry) {
	descriptors := reg.Descriptors()
	for _, d := range descriptors {
		levels := make([]string, 0, len(d.Levels))
		for _, l := range d.DeclaredLevels() {
			levels = append(levels, fmt.Sprintf("%d", l))
		}
		fmt.Fprintf(w, "%-26s %s  %s  %s\n",
			nameStyle.Render(d.Name),
			categoryStyle.Render(d.Analyzer),
			strings.Join(reg.Extensions(d), " "),
			dimStyle.Render("levels "+strings.Join(levels, ",")))
	}
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("%d file types", len(descriptors))))
}
