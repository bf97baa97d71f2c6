package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/docweave/docsearch/internal/searcher"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyQuery    = -32004 // Query parameter is empty
)

// handleSearchDocs handles the search_docs tool invocation
func (s *Server) handleSearchDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", searcher.DefaultLimit)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	req := searcher.SearchRequest{
		Query:       query,
		Limit:       limit,
		Context:     getStringDefault(args, "context", ""),
		AllContexts: getBoolDefault(args, "all_contexts", false),
		UseCache:    getBoolDefault(args, "use_cache", true),
	}

	response, err := s.engine.Search(ctx, req)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := make([]map[string]interface{}, 0, len(response.Results))
	for _, r := range response.Results {
		results = append(results, map[string]interface{}{
			"slug":           r.Document.Slug,
			"title":          r.Document.Title,
			"category":       r.Document.Category,
			"chunk_id":       r.Chunk.ID,
			"preview":        r.HighlightedPreview,
			"keyword_score":  r.KeywordScore,
			"semantic_score": r.SemanticScore,
			"final_score":    r.FinalScore,
			"semantic_only":  r.SemanticOnly,
		})
	}

	out := map[string]interface{}{
		"results":         results,
		"total_results":   response.TotalResults,
		"semantic_active": response.SemanticActive,
		"cache_hit":       response.CacheHit,
		"duration_ms":     response.Duration.Milliseconds(),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// handleSuggestDocs handles the suggest_docs tool invocation
func (s *Server) handleSuggestDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	partial, ok := args["partial"].(string)
	if !ok || partial == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "partial parameter is required", map[string]interface{}{
			"param":  "partial",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 8)
	if limit < 1 || limit > 25 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 25", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	suggestions := s.engine.Suggest(partial, limit)
	if suggestions == nil {
		suggestions = []string{}
	}

	out := map[string]interface{}{
		"partial":     partial,
		"suggestions": suggestions,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// handleEnhancerStatus handles the enhancer_status tool invocation
func (s *Server) handleEnhancerStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	if getBoolDefault(args, "dismiss", false) {
		s.enhancer.Dismiss()
	}

	status := s.enhancer.Status()
	out := map[string]interface{}{
		"state":       string(status.State),
		"progress":    status.Progress,
		"message":     status.Message,
		"dismissible": status.Dismissible,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// handleReloadCorpus handles the reload_corpus tool invocation
func (s *Server) handleReloadCorpus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.loader.Refresh(ctx); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "corpus refresh failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	out := map[string]interface{}{
		"reloaded": true,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
