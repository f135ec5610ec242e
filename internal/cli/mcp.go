package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/project-outline/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve outline_structure and outline_extract over MCP stdio",
	Long: `Serve the outline tools to an MCP client over stdin/stdout.

Tools:
  outline_structure  path, level, offset, limit
  outline_extract    path, name`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "outline mcp %s: %d file types\n", Version, len(eng.Registry().Descriptors()))

	srv, err := mcp.NewServer(eng, Version)
	if err != nil {
		eng.Close()
		return err
	}
	defer srv.Close()

	return srv.Serve(cmd.Context())
}
