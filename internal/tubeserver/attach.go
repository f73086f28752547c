package tubeserver

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Attach exposes every registered tool on the MCP server, routing incoming
// calls through the dispatcher, plus the resource and prompt surfaces over
// the same providers. The dispatcher owns validation and error shaping; the
// bridge only decodes arguments and renders the envelope.
func Attach(server *mcp.Server, reg *Registry, d *Dispatcher, p Providers) {
	for _, name := range reg.Names() {
		def, err := reg.Resolve(name)
		if err != nil {
			continue // unreachable: Names comes from the same table
		}
		server.AddTool(&mcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.inputSchema(),
			Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
		}, toolHandler(def.Name, d))
	}
	attachResources(server, p)
	attachPrompts(server, p)
}

func toolHandler(name string, d *Dispatcher) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any
		if req.Params != nil && req.Params.Arguments != nil {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return errorContent("InvalidArguments: malformed arguments: " + err.Error()), nil
			}
		}

		res := d.Dispatch(ctx, ToolCall{Name: name, Arguments: args})
		if res.Status == StatusError {
			return errorContent(res.ErrorKind + ": " + res.ErrorDetail), nil
		}

		data, err := json.Marshal(res.Payload)
		if err != nil {
			return errorContent("UpstreamError: encode payload: " + err.Error()), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	}
}

func errorContent(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}
