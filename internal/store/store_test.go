package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	p := filepath.Join(t.TempDir(), "demo.db")
	s, err := Open(p)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAddPersonAndPeople(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id1, err := s.AddPerson(ctx, Person{Name: "Alice", Age: 34, Profession: "engineer"})
	if err != nil {
		t.Fatalf("add alice: %v", err)
	}
	id2, err := s.AddPerson(ctx, Person{Name: "Bob", Age: 28, Profession: "teacher"})
	if err != nil {
		t.Fatalf("add bob: %v", err)
	}
	if id1 >= id2 {
		t.Fatalf("row ids not increasing: %d, %d", id1, id2)
	}

	people, err := s.People(ctx, PeopleFilter{})
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(people) != 2 {
		t.Fatalf("want 2 people, got %d", len(people))
	}
	// storage order
	if people[0].Name != "Alice" || people[1].Name != "Bob" {
		t.Fatalf("order mismatch: %+v", people)
	}
}

func TestPeopleFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, p := range []Person{
		{Name: "Alice", Age: 34, Profession: "engineer"},
		{Name: "Bob", Age: 28, Profession: "teacher"},
		{Name: "Carol", Age: 45, Profession: "engineer"},
	} {
		if _, err := s.AddPerson(ctx, p); err != nil {
			t.Fatalf("add %s: %v", p.Name, err)
		}
	}

	over30, err := s.People(ctx, PeopleFilter{MinAge: 31})
	if err != nil {
		t.Fatalf("min age query: %v", err)
	}
	if len(over30) != 2 || over30[0].Name != "Alice" || over30[1].Name != "Carol" {
		t.Fatalf("unexpected over-30 set: %+v", over30)
	}

	engineers, err := s.People(ctx, PeopleFilter{Profession: "engineer", MaxAge: 40})
	if err != nil {
		t.Fatalf("profession query: %v", err)
	}
	if len(engineers) != 1 || engineers[0].Name != "Alice" {
		t.Fatalf("unexpected engineers set: %+v", engineers)
	}

	limited, err := s.People(ctx, PeopleFilter{Limit: 1})
	if err != nil {
		t.Fatalf("limit query: %v", err)
	}
	if len(limited) != 1 || limited[0].Name != "Alice" {
		t.Fatalf("unexpected limited set: %+v", limited)
	}
}

func TestAddPersonValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddPerson(ctx, Person{Name: "", Age: 30, Profession: "x"}); err == nil {
		t.Fatalf("empty name accepted")
	}
	if _, err := s.AddPerson(ctx, Person{Name: "X", Age: -1, Profession: "x"}); err == nil {
		t.Fatalf("negative age accepted")
	}
	if _, err := s.AddPerson(ctx, Person{Name: "X", Age: 30, Profession: ""}); err == nil {
		t.Fatalf("empty profession accepted")
	}
	if _, err := s.People(ctx, PeopleFilter{MinAge: 40, MaxAge: 30}); err == nil {
		t.Fatalf("inverted age range accepted")
	}

	// failed inserts must not leave rows behind
	people, err := s.People(ctx, PeopleFilter{})
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(people) != 0 {
		t.Fatalf("want empty table, got %+v", people)
	}
}

func TestInteractionsAppendAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ev1 := Interaction{Prompt: "hi", Response: "hello", TimeTakenSec: 0.5, Timestamp: time.Unix(100, 0).UTC()}
	ev2 := Interaction{Prompt: "who is over 30", Response: "Alice is 34", ToolUsed: "read_data", TimeTakenSec: 1.2, Timestamp: time.Unix(200, 0).UTC()}
	if err := s.AppendInteraction(ctx, ev1); err != nil {
		t.Fatalf("append1: %v", err)
	}
	if err := s.AppendInteraction(ctx, ev2); err != nil {
		t.Fatalf("append2: %v", err)
	}

	recent, err := s.RecentInteractions(ctx, 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("want 2 interactions, got %d", len(recent))
	}
	// newest first
	if recent[0].Prompt != "who is over 30" || recent[0].ToolUsed != "read_data" {
		t.Fatalf("unexpected recent[0]: %+v", recent[0])
	}
	if recent[1].ToolUsed != "" {
		t.Fatalf("tool_used should be empty for turn without tool: %+v", recent[1])
	}

	one, err := s.RecentInteractions(ctx, 1)
	if err != nil {
		t.Fatalf("recent limit 1: %v", err)
	}
	if len(one) != 1 || one[0].Prompt != "who is over 30" {
		t.Fatalf("unexpected limited recent: %+v", one)
	}
}
