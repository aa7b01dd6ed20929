package mcphost

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"sqlite-mcp-chat/internal/store"
)

// AddDataParams are the arguments of the add_data tool.
type AddDataParams struct {
	Name       string `json:"name" mcp:"full name of the person to insert"`
	Age        int    `json:"age" mcp:"age of the person in years"`
	Profession string `json:"profession" mcp:"profession or occupation of the person"`
}

// ReadDataParams are the arguments of the read_data tool. All fields are
// optional; with none set the tool returns every person in storage order.
type ReadDataParams struct {
	Profession string `json:"profession,omitempty" mcp:"only return people with this profession"`
	MinAge     int    `json:"min_age,omitempty" mcp:"only return people at least this old"`
	MaxAge     int    `json:"max_age,omitempty" mcp:"only return people at most this old"`
	Limit      int    `json:"limit,omitempty" mcp:"maximum number of rows to return"`
}

// Server implements the data-access tool handlers backed by the SQLite store.
type Server struct {
	store *store.Store
}

func NewServer(st *store.Store) *Server {
	return &Server{store: st}
}

// Register registers the add_data and read_data tools on the MCP server.
func (s *Server) Register(mcpServer *mcp.Server) {
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "add_data",
		Description: "Inserts a person record (name, age, profession) into the people database",
	}, s.AddData)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "read_data",
		Description: "Reads person records from the people database, optionally filtered by profession and age range",
	}, s.ReadData)

	log.Printf("📋 Registered 2 tools: add_data, read_data")
}

// AddData implements the add_data tool.
func (s *Server) AddData(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[AddDataParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments

	log.Printf("📥 [add_data] name=%q age=%d profession=%q", args.Name, args.Age, args.Profession)

	id, err := s.store.AddPerson(ctx, store.Person{
		Name:       args.Name,
		Age:        args.Age,
		Profession: args.Profession,
	})
	if err != nil {
		log.Printf("❌ Insert error: %v", err)
		return &mcp.CallToolResultFor[any]{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("❌ Failed to insert record: %v", err)},
			},
		}, nil
	}

	log.Printf("✅ Inserted successfully (id=%d).", id)
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("✅ Inserted %s (%d, %s) into the people database", args.Name, args.Age, args.Profession)},
		},
		Meta: map[string]interface{}{
			"id":      id,
			"success": true,
		},
	}, nil
}

// ReadData implements the read_data tool.
func (s *Server) ReadData(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ReadDataParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments

	log.Printf("📤 [read_data] profession=%q min_age=%d max_age=%d limit=%d", args.Profession, args.MinAge, args.MaxAge, args.Limit)

	people, err := s.store.People(ctx, store.PeopleFilter{
		Profession: args.Profession,
		MinAge:     args.MinAge,
		MaxAge:     args.MaxAge,
		Limit:      args.Limit,
	})
	if err != nil {
		log.Printf("❌ Read error: %v", err)
		return &mcp.CallToolResultFor[any]{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("❌ Failed to read records: %v", err)},
			},
		}, nil
	}

	log.Printf("✅ Retrieved %d rows.", len(people))
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: formatPeople(people)},
		},
		Meta: map[string]interface{}{
			"rows":    people,
			"count":   len(people),
			"success": true,
		},
	}, nil
}

func formatPeople(people []store.Person) string {
	if len(people) == 0 {
		return "No matching records in the people database."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d records:", len(people))
	for i, p := range people {
		fmt.Fprintf(&b, "\n%d. %s (age %d, %s)", i+1, p.Name, p.Age, p.Profession)
	}
	return b.String()
}
