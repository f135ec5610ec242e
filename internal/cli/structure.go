package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/project-outline/internal/engine"
)

var (
	structureLevel  int
	structureOffset int
	structureLimit  int
	structureJSON   bool
)

// structureCmd represents the structure command
var structureCmd = &cobra.Command{
	Use:   "structure <file>",
	Short: "Show the structure of a file",
	Long: `Show the elements of a file with their line ranges.

Without --level the descriptor's structure level is shown. Level 3 prints the
file content a page at a time; use --offset and --limit to move through it.

Examples:
  outline structure main.go
  outline structure config.yaml --level 0
  outline structure app.py --level 3 --offset 200 --limit 100
  outline structure main.go --json`,
	Args: cobra.ExactArgs(1),
	RunE: runStructure,
}

func init() {
	structureCmd.Flags().IntVarP(&structureLevel, "level", "l", -1, "level of detail (0-3)")
	structureCmd.Flags().IntVar(&structureOffset, "offset", 0, "first line of a level 3 page")
	structureCmd.Flags().IntVar(&structureLimit, "limit", 0, "lines per level 3 page")
	structureCmd.Flags().BoolVar(&structureJSON, "json", false, "print JSON")
	rootCmd.AddCommand(structureCmd)
}

func runStructure(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	opts := engine.Options{Level: structureLevel, Offset: structureOffset, Limit: structureLimit}
	return executeStructure(cmd.Context(), cmd.OutOrStdout(), eng, args[0], opts, structureJSON)
}

func executeStructure(ctx context.Context, w io.Writer, eng *engine.Engine, path string, opts engine.Options, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := eng.Analyze(ctx, path, opts)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(w, result)
	}
	renderResult(w, result)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
