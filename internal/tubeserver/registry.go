// Package tubeserver exposes the YouTube tools over MCP: the tool registry,
// the dispatch/validation layer, and the bridge onto an *mcp.Server.
package tubeserver

import (
	"context"
	"encoding/json"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// FieldType is the semantic type of a tool argument.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
)

// Field describes one argument of a tool. Schemas are flat — no nesting.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	Desc     string
}

// Args holds validated arguments for a handler invocation. Accessors assume
// validation already ran; absent optional fields return zero values.
type Args map[string]any

func (a Args) Str(name string) string {
	s, _ := a[name].(string)
	return s
}

func (a Args) Int(name string) int {
	n, _ := a[name].(int)
	return n
}

// Handler executes one tool call with validated arguments.
type Handler func(ctx context.Context, args Args) (any, error)

// ToolDef is one registered tool. Created at startup, immutable after.
type ToolDef struct {
	Name        string
	Description string
	Fields      []Field
	Handler     Handler
}

// inputSchema renders the field list as a JSON Schema object for the MCP
// tool listing.
func (d *ToolDef) inputSchema() json.RawMessage {
	props := make(map[string]any, len(d.Fields))
	var required []string
	for _, f := range d.Fields {
		props[f.Name] = map[string]string{"type": string(f.Type), "description": f.Desc}
		if f.Required {
			required = append(required, f.Name)
		}
	}
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	raw, _ := json.Marshal(schema)
	return raw
}

// Registry is the static name → tool mapping, populated once at startup.
type Registry struct {
	defs  map[string]*ToolDef
	names []string
}

func newEmptyRegistry() *Registry {
	return &Registry{defs: make(map[string]*ToolDef)}
}

// Register adds a tool definition. Registering the same name twice is a
// programming error.
func (r *Registry) Register(def *ToolDef) error {
	if _, ok := r.defs[def.Name]; ok {
		return engine.E(engine.KindInvalidArguments, "tool %q already registered", def.Name)
	}
	r.defs[def.Name] = def
	r.names = append(r.names, def.Name)
	return nil
}

// Resolve looks up a tool by name.
func (r *Registry) Resolve(name string) (*ToolDef, error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, engine.E(engine.KindUnknownTool, "unknown tool %q", name)
	}
	return def, nil
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	return r.names
}
