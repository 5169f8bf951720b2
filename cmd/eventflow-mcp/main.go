// Command eventflow-mcp exposes eventflow's run/compile/check operations
// as an MCP server over stdio.
package main

import (
	"fmt"
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tocque/eventflow/internal/config"
	"github.com/tocque/eventflow/mcp"
)

const (
	serverName    = "eventflow"
	serverVersion = "1.0.0"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	server := mcpserver.NewMCPServer(
		serverName,
		serverVersion,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	configPath := os.Getenv("EVENTFLOW_CONFIG")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("warning: failed to load config: %v, using defaults", err)
		cfg = config.DefaultConfig()
	}

	deps := mcp.NewDependencies(cfg)
	mcp.RegisterTools(server, deps)

	log.Printf("starting %s MCP server v%s\n", serverName, serverVersion)
	log.Println("registered tools: run_program, compile_program, check_program")
	log.Println("server ready - waiting for MCP client connection...")

	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
