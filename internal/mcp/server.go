package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/docweave/docsearch/internal/corpus"
	"github.com/docweave/docsearch/internal/enhancer"
	"github.com/docweave/docsearch/internal/searcher"
)

const (
	// ServerName is the MCP server name
	ServerName = "docsearch"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	engine   *searcher.Engine
	loader   *corpus.Loader
	enhancer *enhancer.Enhancer
	log      zerolog.Logger
}

// Deps are the application components the server exposes over MCP. They
// are constructed and started by the caller; the server only dispatches
// to them.
type Deps struct {
	Engine   *searcher.Engine
	Loader   *corpus.Loader
	Enhancer *enhancer.Enhancer
	Log      zerolog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(deps Deps) *Server {
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		engine:   deps.Engine,
		loader:   deps.Loader,
		enhancer: deps.Enhancer,
		log:      deps.Log,
	}

	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchDocsTool(), s.handleSearchDocs)
	s.mcp.AddTool(suggestDocsTool(), s.handleSuggestDocs)
	s.mcp.AddTool(enhancerStatusTool(), s.handleEnhancerStatus)
	s.mcp.AddTool(reloadCorpusTool(), s.handleReloadCorpus)
}
