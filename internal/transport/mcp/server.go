package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	promptsvc "github.com/alanyang/llm-roles/internal/service/prompt"
)

const (
	serverName    = "llm-roles"
	serverVersion = "1.0.0"
)

// Server wraps the mark3labs/mcp-go MCPServer and its StreamableHTTPServer.
// [SRP] Lifecycle only; prompt definitions live in prompts.go.
type Server struct {
	mcp     *mcpserver.MCPServer
	httpSrv *mcpserver.StreamableHTTPServer
}

func New(promptSvc *promptsvc.Service) *Server {
	mcpSrv := mcpserver.NewMCPServer(
		serverName,
		serverVersion,
		mcpserver.WithPromptCapabilities(true),
	)
	RegisterPrompts(mcpSrv, promptSvc)

	return &Server{
		mcp:     mcpSrv,
		httpSrv: mcpserver.NewStreamableHTTPServer(mcpSrv),
	}
}

// Handler serves the streamable HTTP endpoint.
func (s *Server) Handler() http.Handler {
	return s.httpSrv
}

// MCPServer exposes the underlying server for in-process clients.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}
