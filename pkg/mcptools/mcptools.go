// Package mcptools imports the tool list of an MCP server as function tool
// definitions. Tools are only listed, never called.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/germanamz/promptcfg/pkg/prompts/config"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Client is a connected MCP session used to list tools.
type Client struct {
	session *mcp.ClientSession
	logger  *slog.Logger
}

// Dial spawns an MCP server process and connects to it over stdio.
func Dial(ctx context.Context, logger *slog.Logger, command string, args ...string) (*Client, error) {
	transport := &mcp.CommandTransport{
		Command: exec.Command(command, args...), //nolint:gosec // command comes from the user's CLI invocation
	}

	return connect(ctx, logger, transport)
}

// DialSSE connects to an SSE-based MCP server at url.
func DialSSE(ctx context.Context, logger *slog.Logger, url string) (*Client, error) {
	return connect(ctx, logger, &mcp.SSEClientTransport{Endpoint: url})
}

func connect(ctx context.Context, logger *slog.Logger, transport mcp.Transport) (*Client, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "promptcfg",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("mcptools: connect: %w", err)
	}

	return &Client{session: session, logger: logger}, nil
}

// Tools lists the server's tools as function ToolDefinitions in server order.
func (c *Client) Tools(ctx context.Context) ([]config.ToolDefinition, error) {
	result, err := c.session.ListTools(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("mcptools: list tools: %w", err)
	}

	defs := make([]config.ToolDefinition, 0, len(result.Tools))
	for _, t := range result.Tools {
		def, err := toDefinition(t)
		if err != nil {
			return nil, fmt.Errorf("mcptools: convert tool %q: %w", t.Name, err)
		}
		defs = append(defs, def)
	}

	c.logger.InfoContext(ctx, "mcp tools listed", "count", len(defs))

	return defs, nil
}

// Close ends the session. For a spawned server this also stops the process.
func (c *Client) Close() error {
	return c.session.Close()
}

// Import appends the server's tools to cfg. Tools whose names are already
// present in cfg are skipped so repeated imports stay idempotent.
func Import(ctx context.Context, c *Client, cfg config.Config) (config.Config, int, error) {
	defs, err := c.Tools(ctx)
	if err != nil {
		return cfg, 0, err
	}

	seen := make(map[string]bool, len(cfg.Tools))
	for _, t := range cfg.Tools {
		if t.Function != nil {
			seen[t.Function.Name] = true
		}
	}

	var added []config.ToolDefinition
	for _, d := range defs {
		if seen[d.Function.Name] {
			c.logger.DebugContext(ctx, "mcp tool already present", "name", d.Function.Name)
			continue
		}
		seen[d.Function.Name] = true
		added = append(added, d)
	}

	return cfg.AppendTools(added...), len(added), nil
}

// toDefinition converts an SDK tool. The input schema is round-tripped
// through JSON since the SDK exposes it as an untyped value.
func toDefinition(t *mcp.Tool) (config.ToolDefinition, error) {
	var params map[string]any
	if t.InputSchema != nil {
		data, err := json.Marshal(t.InputSchema)
		if err != nil {
			return config.ToolDefinition{}, fmt.Errorf("marshal input schema: %w", err)
		}
		if err := json.Unmarshal(data, &params); err != nil {
			return config.ToolDefinition{}, fmt.Errorf("unmarshal input schema: %w", err)
		}
	}

	return config.FunctionTool(t.Name, t.Description, params), nil
}
