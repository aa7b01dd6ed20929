package history

import (
	"testing"

	"sqlite-mcp-chat/internal/llm"
)

func TestHistoryAppendGetReset(t *testing.T) {
	h := NewManager()
	sessA := "a"
	sessB := "b"

	h.AppendUser(sessA, "hello")
	h.AppendAssistant(sessA, "hi")
	h.AppendUser(sessB, "foo")
	h.AppendAssistant(sessB, "bar")

	msgsA := h.Get(sessA)
	msgsB := h.Get(sessB)

	if len(msgsA) != 2 || len(msgsB) != 2 {
		t.Fatalf("unexpected lengths: A=%d B=%d", len(msgsA), len(msgsB))
	}
	if msgsA[0].Role != "user" || msgsA[0].Content != "hello" {
		t.Fatalf("unexpected A[0]: %+v", msgsA[0])
	}
	if msgsA[1].Role != "assistant" || msgsA[1].Content != "hi" {
		t.Fatalf("unexpected A[1]: %+v", msgsA[1])
	}

	// Ensure copy semantics (modifying returned slice does not affect internal state)
	msgsA[0] = llm.Message{Role: "user", Content: "mutated"}
	msgsA2 := h.Get(sessA)
	if msgsA2[0].Content != "hello" {
		t.Fatalf("internal state mutated via returned slice")
	}

	h.Reset(sessA)
	if len(h.Get(sessA)) != 0 {
		t.Fatalf("reset did not clear session A")
	}
	if len(h.Get(sessB)) != 2 {
		t.Fatalf("reset should not affect other sessions")
	}
}
