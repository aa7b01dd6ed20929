package llm

import "testing"

func TestGetDataTools(t *testing.T) {
	tools := GetDataTools()
	if len(tools) != 2 {
		t.Fatalf("want 2 tools, got %d", len(tools))
	}
	names := map[string]bool{}
	for _, tool := range tools {
		if tool.Type != "function" {
			t.Fatalf("unexpected tool type: %q", tool.Type)
		}
		if tool.Function.Description == "" {
			t.Fatalf("tool %s has no description", tool.Function.Name)
		}
		if tool.Function.Parameters["type"] != "object" {
			t.Fatalf("tool %s parameters are not an object schema", tool.Function.Name)
		}
		names[tool.Function.Name] = true
	}
	if !names["add_data"] || !names["read_data"] {
		t.Fatalf("missing expected tools: %v", names)
	}
}

func TestParseJSONArgs(t *testing.T) {
	args := parseJSONArgs(`{"min_age": 31, "profession": "engineer"}`)
	if args["min_age"] != float64(31) {
		t.Fatalf("unexpected min_age: %v", args["min_age"])
	}
	if args["profession"] != "engineer" {
		t.Fatalf("unexpected profession: %v", args["profession"])
	}

	// malformed arguments degrade to an empty map, not a panic
	if got := parseJSONArgs("{broken"); len(got) != 0 {
		t.Fatalf("want empty map for malformed args, got %v", got)
	}
}
