package mcp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/project-outline/internal/analyzer"
	"github.com/mvp-joe/project-outline/internal/engine"
	"github.com/mvp-joe/project-outline/internal/registry"
)

// StructureRequest is the argument shape of outline_structure.
type StructureRequest struct {
	Path   string `json:"path"`
	Level  *int   `json:"level,omitempty"`
	Offset int    `json:"offset,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// AddStructureTool registers the outline_structure tool.
func AddStructureTool(s *server.MCPServer, eng *engine.Engine) {
	tool := mcp.NewTool(
		"outline_structure",
		mcp.WithDescription(`Return the structure of a source or data file at a level of detail.

Levels:
- 0: file metadata (size, lines, modified time)
- 1: elements (classes, functions, keys, sections) with line ranges
- 2: elements plus the first lines of each
- 3: verbatim content, paged with offset/limit

The response lists next_levels for drilling further. Use outline_extract to
read a single element.`),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the file to outline")),
		mcp.WithNumber("level",
			mcp.Description("Level of detail (0-3). Defaults to the structure level.")),
		mcp.WithNumber("offset",
			mcp.Description("First line of a level 3 page, 1-indexed")),
		mcp.WithNumber("limit",
			mcp.Description("Lines in a level 3 page")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createStructureHandler(eng))
}

func createStructureHandler(eng *engine.Engine) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.GetRawArguments().(map[string]interface{}); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var req StructureRequest
		if err := bindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}
		if req.Path == "" {
			return mcp.NewToolResultError("path parameter is required"), nil
		}

		opts := engine.Options{Level: -1, Offset: req.Offset, Limit: req.Limit}
		if req.Level != nil {
			opts.Level = *req.Level
		}

		result, err := eng.Analyze(ctx, req.Path, opts)
		if err != nil {
			if isUserError(err) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}

		return marshalToolResponse(result)
	}
}

// isUserError reports whether err stems from the request rather than the server.
func isUserError(err error) bool {
	return errors.Is(err, registry.ErrNotFound) ||
		errors.Is(err, registry.ErrUnknownLevel) ||
		errors.Is(err, engine.ErrTooLarge) ||
		errors.Is(err, engine.ErrNotAFile) ||
		errors.Is(err, engine.ErrExtractUnsupported) ||
		errors.Is(err, analyzer.ErrGrammarUnavailable) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission)
}
