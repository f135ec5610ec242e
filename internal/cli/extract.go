package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/project-outline/internal/engine"
)

var extractJSON bool

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file> <name>",
	Short: "Print the source of a named element",
	Long: `Print the exact source lines of an element.

The name is matched against qualified paths ("Server.Start", "server.port")
first, then bare names. When several elements share a name all of them are
printed.

Examples:
  outline extract main.go Server.Start
  outline extract config.yaml database.host --json`,
	Args: cobra.ExactArgs(2),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "print JSON")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	return executeExtract(cmd.Context(), cmd.OutOrStdout(), eng, args[0], args[1], extractJSON)
}

func executeExtract(ctx context.Context, w io.Writer, eng *engine.Engine, path, name string, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	matches, err := eng.Extract(ctx, path, name)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(w, matches)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no element named %q in %s", name, path)
	}

	for i, m := range matches {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s\n", nameStyle.Render(m.Name), linesStyle.Render("lines "+m.Lines))
		fmt.Fprintln(w, m.Content)
	}
	return nil
}
