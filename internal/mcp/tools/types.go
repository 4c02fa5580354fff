package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Laisky/searchhub/library/search"
)

// Searcher runs one query against the search page. It never fails,
// failures are reported inside the response.
type Searcher interface {
	Search(ctx context.Context, query string) *search.Response
}

// Limiter decides whether a caller may search right now.
type Limiter interface {
	Allow(key string) bool
}

// Tool exposes the capabilities required by the MCP server registration lifecycle.
type Tool interface {
	Definition() mcp.Tool
	Handle(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
}
