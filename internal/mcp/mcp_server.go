// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/newsline/core"
	"github.com/huangsam/newsline/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// scopeOption is shared by both tools.
func scopeOption() mcp.ToolOption {
	return mcp.WithString("scope",
		mcp.Description("Scope of the retrieval (country, narrative, entity). Defaults to the configured scope."),
		mcp.Enum("country", "narrative", "entity"))
}

// NewMCPServer initializes and configures the Newsline MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, deps core.Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"Newsline Retrieval Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		deps:    deps,
	}

	// --- 1. Tool: temporal_retrieve ---
	s.AddTool(mcp.NewTool("temporal_retrieve",
		mcp.WithDescription("Retrieve a ranked, deduplicated and explained news timeline for a query."),
		mcp.WithString("query", mcp.Description("Free-text query, e.g. 'Gazprom exports last 7 days'."), mcp.Required()),
		scopeOption(),
		mcp.WithString("countries", mcp.Description("Comma-separated ISO country codes for country scope.")),
		mcp.WithNumber("narrative_id", mcp.Description("Narrative id for narrative scope.")),
		mcp.WithString("time_from", mcp.Description("ISO-8601 lower bound of the time window.")),
		mcp.WithString("time_to", mcp.Description("ISO-8601 upper bound of the time window.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of timeline items (default 120, max 1000).")),
		mcp.WithArray("documents",
			mcp.Description("Documents to rank instead of the configured dataset. Fields: articleId, title, source, publishedAt, sentiment, countryCode, narrativeId."),
			mcp.Items(map[string]any{"type": "object"})),
	), h.handleTemporalRetrieve)

	// --- 2. Tool: parse_query ---
	s.AddTool(mcp.NewTool("parse_query",
		mcp.WithDescription("Parse a query into intent, entities and time window, and show its subqueries without scoring."),
		mcp.WithString("query", mcp.Description("Free-text query to parse."), mcp.Required()),
		scopeOption(),
		mcp.WithString("countries", mcp.Description("Comma-separated ISO country codes for country scope.")),
		mcp.WithNumber("narrative_id", mcp.Description("Narrative id for narrative scope.")),
		mcp.WithString("time_from", mcp.Description("ISO-8601 lower bound of the time window.")),
		mcp.WithString("time_to", mcp.Description("ISO-8601 upper bound of the time window.")),
	), h.handleParseQuery)

	return s
}

// StartMCPServer starts the Newsline MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, deps core.Deps) error {
	s := NewMCPServer(baseCfg, deps)
	return server.ServeStdio(s)
}
