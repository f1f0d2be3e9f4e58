package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/huangsam/newsline/core"
	"github.com/huangsam/newsline/internal/contract"
	mcp_internal "github.com/huangsam/newsline/internal/mcp"
	"github.com/huangsam/newsline/internal/upstream"
	"github.com/huangsam/newsline/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(retriever contract.Retriever) *server.MCPServer {
	baseCfg := &contract.Config{
		Scope:       schema.CountryScope{},
		ResultLimit: 120,
	}
	deps := core.Deps{
		Engine:    core.NewEngine(schema.DefaultEngineConfig(), nil),
		Retriever: retriever,
	}
	return mcp_internal.NewMCPServer(baseCfg, deps)
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := newTestServer(nil)

	t.Run("temporal_retrieve missing query", func(t *testing.T) {
		res := callTool(t, s, "temporal_retrieve", map[string]any{"query": ""})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(res), "retrieval failed")
	})

	t.Run("temporal_retrieve unknown scope", func(t *testing.T) {
		res := callTool(t, s, "temporal_retrieve", map[string]any{"query": "oil", "scope": "planet", "documents": []any{}})
		assert.True(t, res.IsError)
	})

	t.Run("temporal_retrieve without document source", func(t *testing.T) {
		res := callTool(t, s, "temporal_retrieve", map[string]any{"query": "oil exports"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), core.ErrNoDocumentSource.Error())
	})

	t.Run("temporal_retrieve malformed documents", func(t *testing.T) {
		res := callTool(t, s, "temporal_retrieve", map[string]any{"query": "oil", "documents": "not a list"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "invalid documents")
	})

	t.Run("parse_query missing query", func(t *testing.T) {
		res := callTool(t, s, "parse_query", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "parse failed")
	})
}

func TestMCPTemporalRetrieve(t *testing.T) {
	docs := []map[string]any{
		{"articleId": 1, "title": "Oil exports rise", "source": "TASS", "publishedAt": "2026-03-15T10:00:00Z", "countryCode": "RU"},
		{"articleId": 2, "title": "Football results", "source": "TASS", "publishedAt": "2026-03-15T11:00:00Z", "countryCode": "RU"},
	}
	args := map[string]any{"query": "oil exports", "documents": []any{docs[0], docs[1]}}

	res := callTool(t, newTestServer(nil), "temporal_retrieve", args)
	require.False(t, res.IsError, resultText(res))

	var decoded core.RetrieveResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &decoded))
	require.Len(t, decoded.Result.Timeline, 1)
	assert.Equal(t, 1, decoded.Result.Timeline[0].ArticleID)
	assert.Equal(t, schema.CountryScopeKind, decoded.Result.Parsed.Scope)
}

func TestMCPTemporalRetrieveConfiguredDataset(t *testing.T) {
	retriever := upstream.NewStaticRetriever([]schema.Document{
		{ArticleID: 5, Title: "Oil exports rise", Source: "TASS", PublishedAt: "2026-03-15T10:00:00Z", CountryCode: "RU"},
		{ArticleID: 6, Title: "Oil exports fall", Source: "Kazinform", PublishedAt: "2026-03-15T09:00:00Z", CountryCode: "KZ"},
	})

	res := callTool(t, newTestServer(retriever), "temporal_retrieve", map[string]any{
		"query":     "oil exports",
		"countries": "kz",
	})
	require.False(t, res.IsError, resultText(res))
	assert.Contains(t, resultText(res), `"articleId": 6`)
	assert.NotContains(t, resultText(res), `"articleId": 5`)
}

func TestMCPParseQuery(t *testing.T) {
	res := callTool(t, newTestServer(nil), "parse_query", map[string]any{
		"query":        "why did narrative shift",
		"scope":        "narrative",
		"narrative_id": 4.0,
		"time_from":    "2026-01-01T00:00:00Z",
		"time_to":      "2026-03-01T00:00:00Z",
	})
	require.False(t, res.IsError, resultText(res))

	var decoded core.PreviewResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &decoded))
	assert.Equal(t, schema.IntentInvestigate, decoded.Parsed.Intent)
	assert.Equal(t, schema.NarrativeScopeKind, decoded.Parsed.Scope)
	require.NotNil(t, decoded.Parsed.NarrativeID)
	assert.Equal(t, 4, *decoded.Parsed.NarrativeID)
	assert.Len(t, decoded.Subqueries, 2)
}
