package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/newsline/core"
	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	deps    core.Deps
}

// buildRequest overlays the tool arguments on the configured defaults.
func (h *toolHandler) buildRequest(request mcp.CallToolRequest) (core.RetrieveRequest, error) {
	cfg := h.baseCfg.Clone()
	req := core.RetrieveRequest{
		Query:       request.GetString("query", ""),
		Countries:   cfg.Countries,
		NarrativeID: cfg.NarrativeID,
		TimeFrom:    cfg.TimeFrom,
		TimeTo:      cfg.TimeTo,
		Limit:       cfg.ResultLimit,
	}
	if cfg.Scope != nil {
		req.Scope = cfg.Scope.Kind()
	}

	if s := request.GetString("scope", ""); s != "" {
		req.Scope = schema.ScopeKind(s)
	}
	if c := request.GetString("countries", ""); c != "" {
		req.Countries = schema.NormalizeCountryCodes(contract.SplitList(c))
	}
	if n := request.GetInt("narrative_id", 0); n != 0 {
		req.NarrativeID = &n
	}
	if f := request.GetString("time_from", ""); f != "" {
		req.TimeFrom = f
	}
	if t := request.GetString("time_to", ""); t != "" {
		req.TimeTo = t
	}
	if l := request.GetInt("limit", 0); l != 0 {
		req.Limit = l
	}

	if raw, ok := request.GetArguments()["documents"]; ok && raw != nil {
		docs, err := decodeDocuments(raw)
		if err != nil {
			return req, err
		}
		req.Documents = docs
	}
	return req, nil
}

// decodeDocuments round-trips the loosely typed tool argument through JSON.
func decodeDocuments(raw any) ([]schema.Document, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid documents: %w", err)
	}
	docs := []schema.Document{}
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("invalid documents: %w", err)
	}
	return docs, nil
}

func (h *toolHandler) handleTemporalRetrieve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := h.buildRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := core.Retrieve(ctx, h.deps, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retrieval failed: %v", err)), nil
	}
	if resp.Result.Timeline == nil {
		resp.Result.Timeline = []schema.TimelineItem{}
	}

	jsonData, _ := json.MarshalIndent(resp, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleParseQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := h.buildRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := core.Preview(ctx, h.deps, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parse failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(resp, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
