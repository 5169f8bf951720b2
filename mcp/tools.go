package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all eventflow MCP tools with the server.
func RegisterTools(s *server.MCPServer, deps *Dependencies) {
	s.AddTool(mcp.NewTool("run_program",
		mcp.WithDescription("Compile and execute an eventflow program document, returning its result or a full execution trace"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the program document (.yaml, .yml or .toml)")),
		mcp.WithObject("args",
			mcp.Description("Arguments passed to the program's main block")),
		mcp.WithBoolean("trace",
			mcp.Description("Return a full step-by-step execution trace instead of just the result (default: false)")),
		mcp.WithNumber("step_limit",
			mcp.Description("Maximum steps to dispatch, 0 = unlimited (default: 0)")),
	), deps.handleRunProgram)

	s.AddTool(mcp.NewTool("compile_program",
		mcp.WithDescription("Compile an eventflow program document and return its control-flow graph as JSON"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the program document (.yaml, .yml or .toml)")),
	), deps.handleCompileProgram)

	s.AddTool(mcp.NewTool("check_program",
		mcp.WithDescription("Discover and compile every program document under a path, reporting which ones fail"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Root path to discover program documents under")),
	), deps.handleCheckProgram)
}
