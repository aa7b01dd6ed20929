package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Schema contains all SQL statements for database initialization.
const Schema = `
CREATE TABLE IF NOT EXISTS people (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    age INTEGER NOT NULL,
    profession TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS interactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    prompt TEXT NOT NULL,
    response TEXT NOT NULL,
    tool_used TEXT,
    time_taken_sec REAL NOT NULL,
    timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// Person is an identity record in the people table.
type Person struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Profession string `json:"profession"`
}

// Interaction is a single chat turn in the append-only audit log.
// ToolUsed is empty when the turn invoked no tool (stored as NULL).
type Interaction struct {
	ID           int64     `json:"id"`
	Prompt       string    `json:"prompt"`
	Response     string    `json:"response"`
	ToolUsed     string    `json:"tool_used,omitempty"`
	TimeTakenSec float64   `json:"time_taken_sec"`
	Timestamp    time.Time `json:"timestamp"`
}

// PeopleFilter narrows a people query. Zero values mean "no constraint".
type PeopleFilter struct {
	Profession string
	MinAge     int
	MaxAge     int
	Limit      int
}

// Recorder abstracts persistence of interaction events.
// AppendInteraction must produce exactly one row per chat turn.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(ctx context.Context, ev Interaction) error
	RecentInteractions(ctx context.Context, limit int) ([]Interaction, error)
}

// Store owns the local SQLite database with the people and interactions tables.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and ensures
// the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// The tool host and the chat client each hold a single serial connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// AddPerson inserts one record into the people table and returns its row ID.
func (s *Store) AddPerson(ctx context.Context, p Person) (int64, error) {
	if strings.TrimSpace(p.Name) == "" {
		return 0, fmt.Errorf("name is required")
	}
	if p.Age < 0 {
		return 0, fmt.Errorf("age must not be negative")
	}
	if strings.TrimSpace(p.Profession) == "" {
		return 0, fmt.Errorf("profession is required")
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO people (name, age, profession) VALUES (?, ?, ?)",
		p.Name, p.Age, p.Profession,
	)
	if err != nil {
		return 0, fmt.Errorf("insert person: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// People returns rows from the people table in storage order, narrowed by the
// given filter.
func (s *Store) People(ctx context.Context, f PeopleFilter) ([]Person, error) {
	if f.MinAge > 0 && f.MaxAge > 0 && f.MinAge > f.MaxAge {
		return nil, fmt.Errorf("min_age %d exceeds max_age %d", f.MinAge, f.MaxAge)
	}
	query := "SELECT id, name, age, profession FROM people"
	var conds []string
	var args []any
	if f.Profession != "" {
		conds = append(conds, "profession = ?")
		args = append(args, f.Profession)
	}
	if f.MinAge > 0 {
		conds = append(conds, "age >= ?")
		args = append(args, f.MinAge)
	}
	if f.MaxAge > 0 {
		conds = append(conds, "age <= ?")
		args = append(args, f.MaxAge)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query people: %w", err)
	}
	defer rows.Close()

	var people []Person
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Age, &p.Profession); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate people: %w", err)
	}
	return people, nil
}

// AppendInteraction appends one chat turn to the audit log.
func (s *Store) AppendInteraction(ctx context.Context, ev Interaction) error {
	toolUsed := sql.NullString{String: ev.ToolUsed, Valid: ev.ToolUsed != ""}
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO interactions (prompt, response, tool_used, time_taken_sec, timestamp) VALUES (?, ?, ?, ?, ?)",
		ev.Prompt, ev.Response, toolUsed, ev.TimeTakenSec, ts.Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("append interaction: %w", err)
	}
	return nil
}

// RecentInteractions returns the newest interactions first, up to limit.
func (s *Store) RecentInteractions(ctx context.Context, limit int) ([]Interaction, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, prompt, response, tool_used, time_taken_sec, timestamp FROM interactions ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var events []Interaction
	for rows.Next() {
		var ev Interaction
		var toolUsed sql.NullString
		var ts string
		if err := rows.Scan(&ev.ID, &ev.Prompt, &ev.Response, &toolUsed, &ev.TimeTakenSec, &ts); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		ev.ToolUsed = toolUsed.String
		if parsed, perr := time.Parse("2006-01-02 15:04:05", ts); perr == nil {
			ev.Timestamp = parsed
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return events, nil
}
