package tubeserver

import (
	"context"
	"math"
	"time"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// ToolCall is an incoming tool invocation from the transport.
type ToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ToolResult is the uniform response envelope for every dispatch, success
// or failure. Errors never propagate past the dispatcher.
type ToolResult struct {
	Status      string `json:"status"`
	Payload     any    `json:"payload,omitempty"`
	ErrorKind   string `json:"errorKind,omitempty"`
	ErrorDetail string `json:"errorDetail,omitempty"`
}

// Dispatcher routes tool calls through validation to their handlers.
type Dispatcher struct {
	reg     *Registry
	timeout time.Duration
}

// NewDispatcher returns a dispatcher over the given registry. timeout
// bounds each call (0 = unbounded).
func NewDispatcher(reg *Registry, timeout time.Duration) *Dispatcher {
	return &Dispatcher{reg: reg, timeout: timeout}
}

// Dispatch resolves, validates, and invokes one tool call. Each dispatch is
// independent: no retries, no shared state beyond the read-only config.
func (d *Dispatcher) Dispatch(ctx context.Context, call ToolCall) ToolResult {
	engine.IncrDispatches()

	def, err := d.reg.Resolve(call.Name)
	if err != nil {
		return errorResult(err)
	}

	args, err := validateArgs(def, call.Arguments)
	if err != nil {
		return errorResult(err)
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	out, err := def.Handler(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	return ToolResult{Status: StatusSuccess, Payload: out}
}

// validateArgs checks the raw argument map against the tool's fields and
// returns typed Args. Unknown arguments are ignored; the wire protocol may
// send extras.
func validateArgs(def *ToolDef, raw map[string]any) (Args, error) {
	args := make(Args, len(def.Fields))
	for _, f := range def.Fields {
		v, ok := raw[f.Name]
		if !ok || v == nil {
			if f.Required {
				return nil, engine.E(engine.KindInvalidArguments, "missing required argument %q", f.Name)
			}
			continue
		}
		switch f.Type {
		case TypeString:
			s, ok := v.(string)
			if !ok {
				return nil, engine.E(engine.KindInvalidArguments, "argument %q must be a string", f.Name)
			}
			args[f.Name] = s
		case TypeInteger:
			switch n := v.(type) {
			case int:
				args[f.Name] = n
			case int64:
				args[f.Name] = int(n)
			case float64:
				// JSON numbers decode as float64; accept integral values only.
				if n != math.Trunc(n) {
					return nil, engine.E(engine.KindInvalidArguments, "argument %q must be an integer", f.Name)
				}
				args[f.Name] = int(n)
			default:
				return nil, engine.E(engine.KindInvalidArguments, "argument %q must be an integer", f.Name)
			}
		}
	}
	return args, nil
}

// errorResult shapes any error into a uniform error envelope. The detail is
// redacted so upstream messages can never leak credentials.
func errorResult(err error) ToolResult {
	engine.IncrDispatchErrors()
	return ToolResult{
		Status:      StatusError,
		ErrorKind:   string(engine.KindOf(err)),
		ErrorDetail: engine.Redact(err.Error()),
	}
}
