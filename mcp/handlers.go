package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tocque/eventflow/domain"
)

func (d *Dependencies) handleRunProgram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}

	programArgs := map[string]any{}
	if raw, ok := args["args"].(map[string]interface{}); ok {
		for k, v := range raw {
			programArgs[k] = v
		}
	}

	trace, _ := args["trace"].(bool)
	stepLimit := 0
	if n, ok := args["step_limit"].(float64); ok {
		stepLimit = int(n)
	}

	var out bytes.Buffer
	req := domain.RunRequest{
		Path:         path,
		Args:         programArgs,
		Env:          map[string]any{},
		StepLimit:    stepLimit,
		Trace:        trace,
		OutputFormat: domain.OutputFormatJSON,
		Output:       &out,
	}

	if err := d.runUseCase().Execute(ctx, req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("run failed: %v", err)), nil
	}
	return mcp.NewToolResultText(out.String()), nil
}

func (d *Dependencies) handleCompileProgram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}

	var out bytes.Buffer
	req := domain.CompileRequest{
		Path:         path,
		OutputFormat: domain.OutputFormatJSON,
		Output:       &out,
	}
	if err := d.compileUseCase().Execute(req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("compile failed: %v", err)), nil
	}
	return mcp.NewToolResultText(out.String()), nil
}

func (d *Dependencies) handleCheckProgram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}

	results, err := d.checkUseCase().Execute(domain.CheckRequest{
		Paths:           []string{path},
		IncludePatterns: d.cfg.Discovery.IncludePatterns,
		ExcludePatterns: d.cfg.Discovery.ExcludePatterns,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("check failed: %v", err)), nil
	}

	data, err := json.Marshal(results)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
