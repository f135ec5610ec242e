package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/project-outline/internal/engine"
	"github.com/mvp-joe/project-outline/internal/structure"
)

var (
	watchLevel int
	watchJSON  bool
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-outline files as they change",
	Long: `Watch a directory and print the structure of every supported file
that changes. Press Ctrl+C to stop.

Examples:
  outline watch
  outline watch ./src --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVarP(&watchLevel, "level", "l", -1, "level of detail (0-3)")
	watchCmd.Flags().BoolVar(&watchJSON, "json", false, "print results as JSON lines")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	eng, err := newEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Watching %s for changes...", root)
	return executeWatch(ctx, cmd.OutOrStdout(), eng, root, engine.Options{Level: watchLevel}, watchJSON)
}

func executeWatch(ctx context.Context, w io.Writer, eng *engine.Engine, root string, opts engine.Options, asJSON bool) error {
	return eng.Watch(ctx, root, opts, func(r *engine.FileResult) {
		if asJSON {
			if err := writeJSONLine(w, r); err != nil {
				log.Printf("Warning: failed to write result for %s: %v", r.Path, err)
			}
			return
		}
		fmt.Fprintln(w, watchLine(r))
	})
}

// watchLine summarises one change event.
func watchLine(r *engine.FileResult) string {
	switch {
	case r.Removed:
		return dimStyle.Render("- " + r.Path)
	case r.Err != nil:
		return warnStyle.Render(fmt.Sprintf("! %s: %s", r.Path, r.Error))
	default:
		return successStyle.Render("✓ ") + fmt.Sprintf("%s  %d elements", r.Path, structure.Count(r.Elements))
	}
}
