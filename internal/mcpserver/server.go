// Package mcpserver exposes engine operations as MCP tools. It owns only
// the wire framing; all behavior lives in the engine and registry.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/promptdeco/promptdeco/internal/decorator"
	"github.com/promptdeco/promptdeco/internal/engine"
)

// ServerName and ServerVersion identify the MCP server to clients.
const (
	ServerName    = "promptdeco"
	ServerVersion = "1.0.0"
)

// New wires the decorator tools into an MCP server over the given
// registry. The registry must be loaded before serving.
func New(reg *decorator.Registry, strict bool) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	h := &handlers{
		reg:    reg,
		engine: engine.New(reg),
	}
	h.engine.Strict = strict

	s.AddTool(mcp.NewTool("list_decorators",
		mcp.WithDescription("List all registered prompt decorators with their parameter schemas"),
	), h.listDecorators)

	s.AddTool(mcp.NewTool("get_decorator",
		mcp.WithDescription("Get one decorator definition summary by name"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Decorator name (case-sensitive)")),
	), h.getDecorator)

	s.AddTool(mcp.NewTool("apply_decorators",
		mcp.WithDescription("Apply all +++Decorator(...) annotations in a prompt and return the transformed text"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Annotated prompt text")),
	), h.applyDecorators)

	return s
}

// Serve runs the server on stdio until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
