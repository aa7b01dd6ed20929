package agent

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"sqlite-mcp-chat/internal/data"
	"sqlite-mcp-chat/internal/llm"
)

const systemPrompt = "You are an assistant for a local people database. " +
	"Use the add_data tool to insert people and the read_data tool to answer questions about stored people. " +
	"Answer in plain natural language."

// DataClient executes tool calls against the data MCP server.
type DataClient interface {
	AddData(ctx context.Context, name string, age int, profession string) data.MCPResult
	ReadData(ctx context.Context, q data.ReadQuery) data.MCPResult
}

// Agent drives one chat turn: it consults the model with the tool
// descriptors, dispatches at most one tool call, feeds the result back and
// returns the final natural-language reply.
type Agent struct {
	llmClient  llm.Client
	dataClient DataClient
	tools      []llm.Tool
}

func New(llmClient llm.Client, dataClient DataClient) *Agent {
	return &Agent{
		llmClient:  llmClient,
		dataClient: dataClient,
		tools:      llm.GetDataTools(),
	}
}

// Reply is the outcome of a processed chat turn. ToolUsed is empty when the
// model answered without invoking a tool.
type Reply struct {
	Text        string
	ToolUsed    string
	Model       string
	TotalTokens int
}

// ProcessMessage runs one turn for the given session history and user
// message. Tool failures are folded into the model's context; only model
// failures are returned as errors.
func (a *Agent) ProcessMessage(ctx context.Context, history []llm.Message, userMessage string) (Reply, error) {
	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: "system", Content: systemPrompt})
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.Message{Role: "user", Content: userMessage})

	resp, err := a.llmClient.GenerateWithTools(ctx, msgs, a.tools)
	if err != nil {
		return Reply{}, fmt.Errorf("model call failed: %w", err)
	}

	if len(resp.ToolCalls) == 0 {
		return Reply{
			Text:        finalText(resp.Content),
			Model:       resp.Model,
			TotalTokens: resp.TotalTokens,
		}, nil
	}

	// One tool call per turn; extras are ignored.
	tc := resp.ToolCalls[0]
	log.Printf("🔧 ToolCall → %s", tc.Function.Name)

	result := a.executeToolCall(ctx, tc)

	msgs = append(msgs, llm.Message{
		Role:      "assistant",
		Content:   resp.Content,
		ToolCalls: []llm.ToolCall{tc},
	})
	msgs = append(msgs, llm.Message{
		Role:       "tool",
		ToolCallID: tc.ID,
		Content:    result.Message,
	})

	final, err := a.llmClient.Generate(ctx, msgs)
	if err != nil {
		return Reply{ToolUsed: tc.Function.Name}, fmt.Errorf("model call failed after tool %s: %w", tc.Function.Name, err)
	}

	return Reply{
		Text:        finalText(final.Content),
		ToolUsed:    tc.Function.Name,
		Model:       final.Model,
		TotalTokens: resp.TotalTokens + final.TotalTokens,
	}, nil
}

// executeToolCall dispatches a model-emitted tool call to the data MCP
// client. Failures come back as unsuccessful results, never as panics.
func (a *Agent) executeToolCall(ctx context.Context, tc llm.ToolCall) data.MCPResult {
	args := tc.Function.Arguments
	switch tc.Function.Name {
	case "add_data":
		return a.dataClient.AddData(ctx,
			stringArg(args, "name"),
			intArg(args, "age"),
			stringArg(args, "profession"),
		)
	case "read_data":
		return a.dataClient.ReadData(ctx, data.ReadQuery{
			Profession: stringArg(args, "profession"),
			MinAge:     intArg(args, "min_age"),
			MaxAge:     intArg(args, "max_age"),
			Limit:      intArg(args, "limit"),
		})
	default:
		log.Printf("Unknown function call: %s", tc.Function.Name)
		return data.MCPResult{Success: false, Message: fmt.Sprintf("unknown tool: %s", tc.Function.Name)}
	}
}

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func intArg(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

var thinkRe = regexp.MustCompile(`(?s)<think>.*?</think>\s*`)

// cleanResponse strips chain-of-thought blocks some local models emit.
func cleanResponse(text string) string {
	return strings.TrimSpace(thinkRe.ReplaceAllString(text, ""))
}

func finalText(content string) string {
	cleaned := cleanResponse(content)
	if cleaned == "" {
		return "⚠️ (empty response)"
	}
	return cleaned
}
