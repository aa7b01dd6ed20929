package mcphost

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"sqlite-mcp-chat/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "demo.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return NewServer(st)
}

func textOf(t *testing.T, res *mcp.CallToolResultFor[any]) string {
	t.Helper()
	var out string
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			out += tc.Text
		}
	}
	return out
}

func TestAddDataThenReadData(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	addRes, err := srv.AddData(ctx, nil, &mcp.CallToolParamsFor[AddDataParams]{
		Arguments: AddDataParams{Name: "Alice", Age: 34, Profession: "engineer"},
	})
	if err != nil {
		t.Fatalf("add_data: %v", err)
	}
	if addRes.IsError {
		t.Fatalf("add_data returned error result: %s", textOf(t, addRes))
	}
	if addRes.Meta["success"] != true {
		t.Fatalf("add_data meta missing success: %+v", addRes.Meta)
	}

	readRes, err := srv.ReadData(ctx, nil, &mcp.CallToolParamsFor[ReadDataParams]{
		Arguments: ReadDataParams{},
	})
	if err != nil {
		t.Fatalf("read_data: %v", err)
	}
	if readRes.IsError {
		t.Fatalf("read_data returned error result: %s", textOf(t, readRes))
	}
	if readRes.Meta["count"] != 1 {
		t.Fatalf("want count 1, got %v", readRes.Meta["count"])
	}
	if txt := textOf(t, readRes); !strings.Contains(txt, "Alice") {
		t.Fatalf("inserted row not visible in read_data: %q", txt)
	}
}

func TestReadDataFilters(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	for _, p := range []AddDataParams{
		{Name: "Alice", Age: 34, Profession: "engineer"},
		{Name: "Bob", Age: 28, Profession: "teacher"},
	} {
		res, err := srv.AddData(ctx, nil, &mcp.CallToolParamsFor[AddDataParams]{Arguments: p})
		if err != nil || res.IsError {
			t.Fatalf("add %s: err=%v res=%s", p.Name, err, textOf(t, res))
		}
	}

	res, err := srv.ReadData(ctx, nil, &mcp.CallToolParamsFor[ReadDataParams]{
		Arguments: ReadDataParams{MinAge: 31},
	})
	if err != nil {
		t.Fatalf("read_data min_age: %v", err)
	}
	txt := textOf(t, res)
	if !strings.Contains(txt, "Alice") || strings.Contains(txt, "Bob") {
		t.Fatalf("min_age filter not applied: %q", txt)
	}
}

func TestInvalidParamsReturnErrorResult(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	addRes, err := srv.AddData(ctx, nil, &mcp.CallToolParamsFor[AddDataParams]{
		Arguments: AddDataParams{Name: "", Age: 30, Profession: "x"},
	})
	if err != nil {
		t.Fatalf("add_data should not return a protocol error: %v", err)
	}
	if !addRes.IsError {
		t.Fatalf("add_data accepted empty name")
	}

	readRes, err := srv.ReadData(ctx, nil, &mcp.CallToolParamsFor[ReadDataParams]{
		Arguments: ReadDataParams{MinAge: 50, MaxAge: 20},
	})
	if err != nil {
		t.Fatalf("read_data should not return a protocol error: %v", err)
	}
	if !readRes.IsError {
		t.Fatalf("read_data accepted inverted age range")
	}
}

func TestReadDataEmptyTable(t *testing.T) {
	srv := newTestServer(t)

	res, err := srv.ReadData(context.Background(), nil, &mcp.CallToolParamsFor[ReadDataParams]{
		Arguments: ReadDataParams{},
	})
	if err != nil {
		t.Fatalf("read_data: %v", err)
	}
	if res.IsError {
		t.Fatalf("empty table should not be an error: %s", textOf(t, res))
	}
	if res.Meta["count"] != 0 {
		t.Fatalf("want count 0, got %v", res.Meta["count"])
	}
}
