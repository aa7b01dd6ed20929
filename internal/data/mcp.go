package data

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReadQuery narrows a read_data call. Zero values mean "no constraint".
type ReadQuery struct {
	Profession string
	MinAge     int
	MaxAge     int
	Limit      int
}

// MCPResult is the outcome of a tool call against the data MCP server.
type MCPResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Rows    int    `json:"rows,omitempty"`
	Data    string `json:"data,omitempty"`
}

// MCPClient is the client for the SQLite data MCP server.
type MCPClient struct {
	client  *mcp.Client
	session *mcp.ClientSession
}

func NewMCPClient() *MCPClient {
	return &MCPClient{}
}

// Connect connects to the data MCP server over its HTTP SSE endpoint.
func (m *MCPClient) Connect(ctx context.Context, serverURL string) error {
	log.Printf("🔗 Connecting to data MCP server at %s", serverURL)

	m.client = mcp.NewClient(&mcp.Implementation{
		Name:    "sqlite-mcp-chat-client",
		Version: "1.0.0",
	}, nil)

	transport := mcp.NewSSEClientTransport(serverURL, nil)

	session, err := m.client.Connect(ctx, transport)
	if err != nil {
		return fmt.Errorf("failed to connect to data MCP server: %w", err)
	}

	m.session = session
	log.Printf("✅ Connected to data MCP server")
	return nil
}

// Close closes the MCP session.
func (m *MCPClient) Close() error {
	if m.session != nil {
		return m.session.Close()
	}
	return nil
}

// ListToolNames returns the names of the tools the server advertises.
func (m *MCPClient) ListToolNames(ctx context.Context) ([]string, error) {
	if m.session == nil {
		return nil, fmt.Errorf("MCP session not connected")
	}
	res, err := m.session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	var names []string
	for _, t := range res.Tools {
		names = append(names, t.Name)
	}
	return names, nil
}

// AddData inserts a person record through the add_data tool.
func (m *MCPClient) AddData(ctx context.Context, name string, age int, profession string) MCPResult {
	if m.session == nil {
		return MCPResult{Success: false, Message: "MCP session not connected"}
	}

	log.Printf("📥 add_data via MCP: %s (%d, %s)", name, age, profession)

	result, err := m.session.CallTool(ctx, &mcp.CallToolParams{
		Name: "add_data",
		Arguments: map[string]any{
			"name":       name,
			"age":        age,
			"profession": profession,
		},
	})

	if err != nil {
		log.Printf("❌ MCP add_data error: %v", err)
		return MCPResult{Success: false, Message: fmt.Sprintf("MCP error: %v", err)}
	}

	responseText := contentText(result)
	if result.IsError {
		return MCPResult{Success: false, Message: responseText}
	}

	return MCPResult{
		Success: true,
		Message: responseText,
		Data:    formatResultMeta(result.Meta),
	}
}

// ReadData queries person records through the read_data tool.
func (m *MCPClient) ReadData(ctx context.Context, q ReadQuery) MCPResult {
	if m.session == nil {
		return MCPResult{Success: false, Message: "MCP session not connected"}
	}

	log.Printf("📤 read_data via MCP: profession=%q min_age=%d max_age=%d limit=%d", q.Profession, q.MinAge, q.MaxAge, q.Limit)

	args := map[string]any{}
	if q.Profession != "" {
		args["profession"] = q.Profession
	}
	if q.MinAge > 0 {
		args["min_age"] = q.MinAge
	}
	if q.MaxAge > 0 {
		args["max_age"] = q.MaxAge
	}
	if q.Limit > 0 {
		args["limit"] = q.Limit
	}

	result, err := m.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "read_data",
		Arguments: args,
	})

	if err != nil {
		log.Printf("❌ MCP read_data error: %v", err)
		return MCPResult{Success: false, Message: fmt.Sprintf("MCP error: %v", err)}
	}

	responseText := contentText(result)
	if result.IsError {
		return MCPResult{Success: false, Message: responseText}
	}

	var rows int
	if result.Meta != nil {
		if count, ok := result.Meta["count"].(float64); ok {
			rows = int(count)
		}
	}

	return MCPResult{
		Success: true,
		Message: responseText,
		Rows:    rows,
		Data:    formatResultMeta(result.Meta),
	}
}

// contentText collects the text content blocks of a tool result.
func contentText(result *mcp.CallToolResult) string {
	var out string
	for _, content := range result.Content {
		if textContent, ok := content.(*mcp.TextContent); ok {
			out += textContent.Text
		}
	}
	return out
}

// formatResultMeta renders result metadata as a JSON string. Absent or empty
// metadata yields an empty string, not "null".
func formatResultMeta(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	return string(data)
}
