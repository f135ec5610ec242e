package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/project-outline/internal/engine"
	"github.com/mvp-joe/project-outline/internal/structure"
)

// ExtractRequest is the argument shape of outline_extract.
type ExtractRequest struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// ExtractResponse lists every element matching the requested name.
type ExtractResponse struct {
	Path    string                 `json:"path"`
	Name    string                 `json:"name"`
	Matches []structure.Extraction `json:"matches"`
	Total   int                    `json:"total"`
}

// AddExtractTool registers the outline_extract tool.
func AddExtractTool(s *server.MCPServer, eng *engine.Engine) {
	tool := mcp.NewTool(
		"outline_extract",
		mcp.WithDescription("Return the exact source of a named element (function, class, method, key or section). Qualified paths such as 'Server.Start' or 'server.port' select nested elements; several matches are all returned."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the file")),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Element name or qualified path")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createExtractHandler(eng))
}

func createExtractHandler(eng *engine.Engine) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.GetRawArguments().(map[string]interface{}); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var req ExtractRequest
		if err := bindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}
		if req.Path == "" {
			return mcp.NewToolResultError("path parameter is required"), nil
		}
		if req.Name == "" {
			return mcp.NewToolResultError("name parameter is required"), nil
		}

		matches, err := eng.Extract(ctx, req.Path, req.Name)
		if err != nil {
			if isUserError(err) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}

		return marshalToolResponse(&ExtractResponse{
			Path:    req.Path,
			Name:    req.Name,
			Matches: matches,
			Total:   len(matches),
		})
	}
}
