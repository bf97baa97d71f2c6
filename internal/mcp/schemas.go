package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchDocsTool returns the tool definition for search_docs
func searchDocsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_docs",
		Description: "Search the documentation corpus with keyword and semantic matching",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (keywords or natural language)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"context": map[string]interface{}{
					"type":        "string",
					"description": "Documentation context token (version like 'v2' or state like 'drafts'); empty means current version",
				},
				"all_contexts": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, search across every documentation context",
					"default":     false,
				},
				"use_cache": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, serve repeated queries from the query cache",
					"default":     true,
				},
			},
			Required: []string{"query"},
		},
	}
}

// suggestDocsTool returns the tool definition for suggest_docs
func suggestDocsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "suggest_docs",
		Description: "Autocomplete completions for a partial documentation query",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"partial": map[string]interface{}{
					"type":        "string",
					"description": "Partial query text; the last term is completed",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of suggestions (1-25)",
					"default":     8,
					"minimum":     1,
					"maximum":     25,
				},
			},
			Required: []string{"partial"},
		},
	}
}

// enhancerStatusTool returns the tool definition for enhancer_status
func enhancerStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "enhancer_status",
		Description: "Report the semantic enhancement layer's lifecycle state, optionally dismissing it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"dismiss": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, permanently disable semantic enhancement for this session",
					"default":     false,
				},
			},
		},
	}
}

// reloadCorpusTool returns the tool definition for reload_corpus
func reloadCorpusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "reload_corpus",
		Description: "Refresh the documentation corpus from its configured source",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
