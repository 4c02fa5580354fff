package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	mcp "github.com/mark3labs/mcp-go/mcp"
	srv "github.com/mark3labs/mcp-go/server"

	"github.com/Laisky/searchhub/library/search"
)

// WebSearchToolName is the MCP name of the tool.
const WebSearchToolName = "web_search"

// WebSearchTool implements the web_search MCP tool.
type WebSearchTool struct {
	searcher Searcher
	limiter  Limiter
	logger   logSDK.Logger
}

// NewWebSearchTool constructs a WebSearchTool. limiter may be nil.
func NewWebSearchTool(searcher Searcher, limiter Limiter, logger logSDK.Logger) (*WebSearchTool, error) {
	if searcher == nil {
		return nil, errors.New("searcher is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	return &WebSearchTool{
		searcher: searcher,
		limiter:  limiter,
		logger:   logger,
	}, nil
}

// Definition returns the MCP metadata describing the tool.
func (t *WebSearchTool) Definition() mcp.Tool {
	return mcp.NewTool(
		WebSearchToolName,
		mcp.WithDescription("Search the public web through DuckDuckGo and return the result titles and links."),
		mcp.WithString(
			"query",
			mcp.Required(),
			mcp.Description("Plain text search query."),
		),
		mcp.WithString(
			"variant",
			mcp.Description("Search flavour. \"news\" and \"images\" append that word to the query. Defaults to \"web\"."),
			mcp.Enum(string(search.VariantWeb), string(search.VariantNews), string(search.VariantImages)),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

// Handle executes the web_search tool logic using the configured dependencies.
func (t *WebSearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return mcp.NewToolResultError("query cannot be empty"), nil
	}

	variant, err := search.ParseVariant(optionalString(req, "variant"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if t.limiter != nil && !t.limiter.Allow(limiterKey(ctx)) {
		t.logger.Info("web_search throttled", zap.Int("query_len", len(query)))
		return mcp.NewToolResultError("too many searches, please slow down"), nil
	}

	start := time.Now()
	sent := variant.Apply(query)
	t.logger.Debug("web_search started",
		zap.Int("query_len", len(sent)),
		zap.String("variant", string(variant)))

	resp := t.searcher.Search(ctx, sent)
	if resp == nil {
		return mcp.NewToolResultError("search failed: empty response"), nil
	}
	if resp.Failed() {
		t.logger.Error("web_search failed", zap.Error(resp.Failure), zap.Int("query_len", len(sent)))
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", resp.Failure)), nil
	}

	t.logger.Debug("web_search completed",
		zap.Int("query_len", len(sent)),
		zap.Int("results_count", len(resp.Results)),
		zap.Duration("duration", time.Since(start)),
	)

	toolResult, err := mcp.NewToolResultJSON(resp)
	if err != nil {
		t.logger.Error("encode search result", zap.Error(err))
		return mcp.NewToolResultError("failed to encode search result"), nil
	}

	return toolResult, nil
}

// limiterKey throttles each MCP session separately.
func limiterKey(ctx context.Context) string {
	if session := srv.ClientSessionFromContext(ctx); session != nil {
		return "mcp:" + session.SessionID()
	}
	return "mcp"
}

func optionalString(req mcp.CallToolRequest, key string) string {
	if args, ok := req.Params.Arguments.(map[string]any); ok {
		if raw, ok := args[key].(string); ok {
			return raw
		}
	}
	return ""
}
