package llm

import "context"

type Message struct {
	Role    string
	Content string
	// ToolCalls is set on assistant messages that requested a tool call.
	ToolCalls []ToolCall
	// ToolCallID is set on tool result messages (Role "tool").
	ToolCallID string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	ToolCalls        []ToolCall
}

// Tool describes a function the model may choose to invoke during a turn.
type Tool struct {
	Type     string
	Function Function
}

type Function struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// ToolCall is a structured "call this tool with these arguments" output.
type ToolCall struct {
	ID       string
	Type     string
	Function FunctionCall
}

type FunctionCall struct {
	Name      string
	Arguments map[string]interface{}
}

type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
	GenerateWithTools(ctx context.Context, messages []Message, tools []Tool) (Response, error)
}
