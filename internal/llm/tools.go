package llm

// GetDataTools returns the descriptors for the people database tools exposed
// by the MCP tool host. The descriptions steer the model: inserts go through
// add_data, questions about stored people go through read_data with filters.
func GetDataTools() []Tool {
	return []Tool{
		{
			Type: "function",
			Function: Function{
				Name:        "add_data",
				Description: "Inserts a person record into the people database. Use when the user asks to add, save or remember a person with their name, age and profession.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"name": map[string]interface{}{
							"type":        "string",
							"description": "Full name of the person",
						},
						"age": map[string]interface{}{
							"type":        "integer",
							"description": "Age in years",
						},
						"profession": map[string]interface{}{
							"type":        "string",
							"description": "Profession or occupation",
						},
					},
					"required": []string{"name", "age", "profession"},
				},
			},
		},
		{
			Type: "function",
			Function: Function{
				Name:        "read_data",
				Description: "Reads person records from the people database. Without arguments returns everyone. Use the filters to answer questions like 'who is over 30' (min_age=31) or 'list all engineers' (profession).",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"profession": map[string]interface{}{
							"type":        "string",
							"description": "Only return people with this profession (optional)",
						},
						"min_age": map[string]interface{}{
							"type":        "integer",
							"description": "Only return people at least this old (optional)",
						},
						"max_age": map[string]interface{}{
							"type":        "integer",
							"description": "Only return people at most this old (optional)",
						},
						"limit": map[string]interface{}{
							"type":        "integer",
							"description": "Maximum number of rows to return (optional)",
						},
					},
					"required": []string{},
				},
			},
		},
	}
}
