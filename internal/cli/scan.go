package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/project-outline/internal/engine"
)

var (
	scanLevel int
	scanJSON  bool
	scanQuiet bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Outline every supported file in a directory",
	Long: `Analyze every supported file under a directory in parallel.

Files are selected with scan.include and scan.ignore from the configuration.
Files that cannot be analyzed are listed after the summary.

Examples:
  outline scan
  outline scan ./internal --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVarP(&scanLevel, "level", "l", -1, "level of detail (0-3)")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "print results as JSON lines")
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "suppress progress output")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	eng, err := newEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	quiet := scanQuiet || scanJSON
	_, err = executeScan(ctx, cmd.OutOrStdout(), eng, root, engine.Options{Level: scanLevel}, scanJSON, quiet)
	return err
}

func executeScan(ctx context.Context, w io.Writer, eng *engine.Engine, root string, opts engine.Options, asJSON, quiet bool) (*engine.ScanSummary, error) {
	if !quiet {
		log.Println("Discovering files...")
	}
	files, err := eng.Discover(root)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	var bar *progressbar.ProgressBar
	if !quiet {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Analyzing files"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files/s"),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(os.Stderr)
			}),
		)
	}

	var failed []*engine.FileResult
	summary, err := eng.ScanFiles(ctx, root, files, opts, func(r *engine.FileResult) {
		if bar != nil {
			bar.Add(1)
		}
		if r.Err != nil {
			failed = append(failed, r)
		}
		if asJSON {
			if err := writeJSONLine(w, r); err != nil {
				log.Printf("Warning: failed to write result for %s: %v", r.Path, err)
			}
		}
	})
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return summary, err
	}

	if asJSON {
		return summary, writeJSONLine(w, summary)
	}

	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("✓ Scanned %s files in %.1fs", formatNumber(summary.Files), summary.Duration.Seconds())))
	fmt.Fprintf(w, "  Elements:  %s\n", formatNumber(summary.Elements))
	fmt.Fprintf(w, "  Succeeded: %s\n", formatNumber(summary.Succeeded))
	fmt.Fprintf(w, "  Degraded:  %s\n", formatNumber(summary.Degraded))
	fmt.Fprintf(w, "  Failed:    %s\n", formatNumber(summary.Failed))

	sort.Slice(failed, func(i, j int) bool { return failed[i].Path < failed[j].Path })
	for _, r := range failed {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("  %s: %s", r.Path, r.Error)))
	}
	return summary, nil
}

func writeJSONLine(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}
