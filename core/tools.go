package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/koscakluka/realtime-core/core/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ToolHandler executes one invocation of a registered tool. The returned
// value is marshalled as the function call output.
type ToolHandler func(ctx context.Context, arguments json.RawMessage) (any, error)

// ToolDefinition describes a callable tool exposed to the remote model.
// Parameters holds the JSON schema of the arguments; derive it from a Go
// struct with [ReflectParameters].
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// ReflectParameters derives a tool's parameter schema from a Go struct
// (or pointer to one) using its json tags.
func ReflectParameters(parameters any) (json.RawMessage, error) {
	reflector := jsonschema.Reflector{DoNotReference: true}

	var schema *jsonschema.Schema
	if reflect.TypeOf(parameters).Kind() == reflect.Ptr {
		schema = reflector.ReflectFromType(reflect.TypeOf(parameters).Elem())
	} else {
		schema = reflector.Reflect(parameters)
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parameter schema: %w", err)
	}
	return raw, nil
}

type registeredTool struct {
	definition ToolDefinition
	handler    ToolHandler
}

// AddTool registers a tool and re-sends the session configuration when
// connected. Registering a name twice replaces the previous handler.
func (c *Client) AddTool(definition ToolDefinition, handler ToolHandler) error {
	if definition.Name == "" {
		return fmt.Errorf("tool definition is missing a name")
	}
	if handler == nil {
		return fmt.Errorf("tool %q registered without a handler", definition.Name)
	}

	c.mu.Lock()
	c.tools[definition.Name] = registeredTool{definition: definition, handler: handler}
	c.mu.Unlock()

	return c.UpdateSession()
}

// RemoveTool deregisters a tool by name; unknown names are a no-op.
func (c *Client) RemoveTool(name string) error {
	c.mu.Lock()
	delete(c.tools, name)
	c.mu.Unlock()

	return c.UpdateSession()
}

// sessionTools renders the registry into the wire tool list. Caller holds
// c.mu.
func (c *Client) sessionToolsLocked() []events.Tool {
	tools := make([]events.Tool, 0, len(c.tools))
	for _, tool := range c.tools {
		tools = append(tools, events.Tool{
			Type:        "function",
			Name:        tool.definition.Name,
			Description: tool.definition.Description,
			Parameters:  tool.definition.Parameters,
		})
	}
	return tools
}

// callTool runs a completed function call's handler and reports its output
// back to the remote, following up with a fresh response request. Handler
// failures are reported as an error payload rather than breaking the
// dispatch chain.
func (c *Client) callTool(ctx context.Context, tool FormattedTool) {
	ctx, span := tracer.Start(ctx, "execute tool")
	defer span.End()
	span.SetAttributes(attribute.String("tool.name", tool.Name))

	output, err := c.executeTool(ctx, tool)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("tool execution failed", "tool", tool.Name, "error", err)
		output, _ = json.Marshal(map[string]string{"error": err.Error()})
	}

	if err := c.send(ctx, &events.ConversationItemCreate{
		Item: events.Item{
			Type:   events.ItemTypeFunctionCallOutput,
			CallID: tool.CallID,
			Output: string(output),
		},
	}); err != nil {
		logger.Error("failed to submit tool output", "tool", tool.Name, "error", err)
		return
	}
	if err := c.CreateResponse(ctx); err != nil {
		logger.Error("failed to request a response after tool output", "tool", tool.Name, "error", err)
	}
}

func (c *Client) executeTool(ctx context.Context, tool FormattedTool) (json.RawMessage, error) {
	c.mu.Lock()
	registered, ok := c.tools[tool.Name]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("tool %q has not been added", tool.Name)
	}

	arguments := json.RawMessage(tool.Arguments)
	if !json.Valid(arguments) {
		return nil, fmt.Errorf("tool %q received malformed arguments", tool.Name)
	}

	result, err := registered.handler(ctx, arguments)
	if err != nil {
		return nil, fmt.Errorf("failed to execute tool %q: %w", tool.Name, err)
	}

	output, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output of tool %q: %w", tool.Name, err)
	}
	return output, nil
}
