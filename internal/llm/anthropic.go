package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

// AnthropicCapability runs the worker reasoning loop against the Anthropic
// Messages API. It implements Capability.
type AnthropicCapability struct {
	client *Client
}

// NewAnthropicCapability creates a capability backed by the given client.
func NewAnthropicCapability(client *Client) *AnthropicCapability {
	return &AnthropicCapability{client: client}
}

// maxTokensPerTurn is the completion budget for a single API call.
const maxTokensPerTurn = 8192

// Complete runs the turn-bounded loop. Each iteration makes one API call,
// executes any requested tools, and reports progress via req.OnStep. The
// loop ends when the model stops requesting tools; hitting MaxTurns first
// is a budget-exhaustion failure, not a success.
func (c *AnthropicCapability) Complete(ctx context.Context, req Request) (*Completion, error) {
	if req.MaxTurns <= 0 {
		return nil, &CapabilityError{Kind: ErrTransport, Message: "max turns must be positive"}
	}

	completion := &Completion{}
	toolParams := toolUnionParams(req.Tools)
	toolsByName := make(map[string]ToolDefinition, len(req.Tools))
	for _, t := range req.Tools {
		toolsByName[t.Name] = t
	}

	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
	}

	for turn := 1; turn <= req.MaxTurns; turn++ {
		resp, err := c.client.sdk().Messages.New(ctx, anthropic.MessageNewParams{
			Model:     c.client.Model(),
			MaxTokens: maxTokensPerTurn,
			System: []anthropic.TextBlockParam{
				{Text: req.Instructions},
			},
			Messages: messages,
			Tools:    toolParams,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				return nil, &CapabilityError{Kind: ErrInterrupted, Message: "execution interrupted", Wrapped: err}
			}
			return nil, &CapabilityError{Kind: ErrTransport, Message: "API call failed", Wrapped: err}
		}

		completion.Usage.InputTokens += resp.Usage.InputTokens
		completion.Usage.OutputTokens += resp.Usage.OutputTokens
		c.client.Tracker().Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

		var assistantBlocks []anthropic.ContentBlockParamUnion
		var toolResultBlocks []anthropic.ContentBlockParamUnion
		var turnText string
		toolCalls := 0

		for _, block := range resp.Content {
			switch variant := block.AsAny().(type) {
			case anthropic.TextBlock:
				turnText += variant.Text
				assistantBlocks = append(assistantBlocks, anthropic.NewTextBlock(variant.Text))

			case anthropic.ToolUseBlock:
				toolCalls++
				assistantBlocks = append(assistantBlocks,
					anthropic.NewToolUseBlock(variant.ID, variant.Input, variant.Name))

				content, isErr := c.invokeTool(ctx, toolsByName, variant.Name, variant.Input)
				toolResultBlocks = append(toolResultBlocks,
					anthropic.NewToolResultBlock(variant.ID, content, isErr))
			}
		}

		completion.Text += turnText

		if req.OnStep != nil {
			req.OnStep(StepInfo{Turn: turn, ToolCalls: toolCalls, Text: turnText})
		}

		if resp.StopReason == anthropic.StopReasonEndTurn {
			return completion, nil
		}

		messages = append(messages, anthropic.NewAssistantMessage(assistantBlocks...))
		if len(toolResultBlocks) > 0 {
			messages = append(messages, anthropic.NewUserMessage(toolResultBlocks...))
		}
	}

	return nil, &CapabilityError{
		Kind:    ErrBudgetExhausted,
		Message: fmt.Sprintf("max turns (%d) reached", req.MaxTurns),
	}
}

// invokeTool runs one tool call, mapping unknown or unbound tools to error
// results the model can react to rather than failing the loop.
func (c *AnthropicCapability) invokeTool(ctx context.Context, tools map[string]ToolDefinition, name string, input []byte) (string, bool) {
	def, ok := tools[name]
	if !ok {
		return fmt.Sprintf("Unknown tool: %s", name), true
	}
	if def.Invoke == nil {
		return fmt.Sprintf("Tool %s is not available in this environment", name), true
	}
	content, err := def.Invoke(ctx, input)
	if err != nil {
		return fmt.Sprintf("Tool %s failed: %v", name, err), true
	}
	return content, false
}

// toolUnionParams converts tool definitions to the SDK's parameter shape.
func toolUnionParams(tools []ToolDefinition) []anthropic.ToolUnionParam {
	params := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		properties := t.InputSchema
		if properties == nil {
			properties = map[string]any{}
		}
		params = append(params, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: properties,
				},
			},
		})
	}
	return params
}

var _ Capability = (*AnthropicCapability)(nil)
