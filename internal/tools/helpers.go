// Package tools implements the MCP tool handlers for Pathfinder.
//
// Each tool is a struct that receives its dependencies at construction
// and returns a handler compatible with mcp-go's CallToolRequest
// signature. One file per tool.
//
// Every tool responds with a serialized response envelope — success and
// failure alike. Malformed input is converted to an error envelope, never
// to a bare protocol error, so callers can rely on a single shape.
package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pathfinder-mcp/pathfinder/internal/envelope"
)

// resultArg decodes a prior-result argument that may arrive either as a
// JSON string or as an already-decoded object. Returns false when the
// argument is absent or empty.
func resultArg(args map[string]any, key string, out any) (bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return false, nil
	}

	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return false, nil
		}
		if err := json.Unmarshal([]byte(v), out); err != nil {
			return false, fmt.Errorf("decoding %s: %w", key, err)
		}
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return false, fmt.Errorf("re-encoding %s: %w", key, err)
		}
		if err := json.Unmarshal(data, out); err != nil {
			return false, fmt.Errorf("decoding %s: %w", key, err)
		}
	}
	return true, nil
}

// envelopeResult serializes a response envelope into a text tool result.
func envelopeResult(env *envelope.ResponseEnvelope) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal response envelope: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult converts a failure into an error envelope tool result so
// the universal response shape holds on every path.
func errorResult(toolName string, cause error) (*mcp.CallToolResult, error) {
	return envelopeResult(envelope.WrapError(toolName, cause))
}
