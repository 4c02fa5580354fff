// Package mcp exposes the search core to MCP clients over streamable HTTP.
package mcp

import (
	"net/http"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	srv "github.com/mark3labs/mcp-go/server"

	"github.com/Laisky/searchhub/internal/mcp/tools"
	"github.com/Laisky/searchhub/library/log"
)

const (
	serverName    = "searchhub"
	serverVersion = "1.0.0"
)

// Server wraps the MCP server state for the HTTP transport.
type Server struct {
	handler http.Handler
	logger  logSDK.Logger
}

// NewServer constructs a remote MCP server exposing the web_search tool.
// limiter may be nil.
func NewServer(searcher tools.Searcher, limiter tools.Limiter, logger logSDK.Logger) (*Server, error) {
	if searcher == nil {
		return nil, errors.New("searcher is required")
	}
	if logger == nil {
		logger = log.Logger
	}

	webSearch, err := tools.NewWebSearchTool(searcher, limiter, logger.Named("web_search"))
	if err != nil {
		return nil, errors.Wrap(err, "new web_search tool")
	}

	mcpServer := srv.NewMCPServer(
		serverName,
		serverVersion,
		srv.WithToolCapabilities(true),
		srv.WithInstructions("Use the web_search tool to search the web through DuckDuckGo. "+
			"Set variant to news or images to bias the query."),
		srv.WithRecovery(),
		srv.WithHooks(newMCPHooks(logger.Named("mcp_hooks"))),
	)
	registerTools(mcpServer, webSearch)

	return &Server{
		handler: withHTTPLogging(srv.NewStreamableHTTPServer(mcpServer), logger.Named("mcp_http")),
		logger:  logger.Named("mcp"),
	}, nil
}

func registerTools(mcpServer *srv.MCPServer, all ...tools.Tool) {
	for _, tool := range all {
		mcpServer.AddTool(tool.Definition(), tool.Handle)
	}
}

// Handler returns the HTTP handler that should be mounted to serve MCP traffic.
func (s *Server) Handler() http.Handler {
	return s.handler
}
