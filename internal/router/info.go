package router

// Info describes the assistant's capabilities for discovery surfaces.
type Info struct {
	Name           string   `json:"name"`
	Version        string   `json:"version"`
	Capabilities   []string `json:"capabilities"`
	ExampleQueries []string `json:"example_queries"`
}

// AssistantInfo returns the static capability payload.
func AssistantInfo(version string) Info {
	return Info{
		Name:    "Student Assistant Chatbot",
		Version: version,
		Capabilities: []string{
			"Answer questions about your attendance",
			"Check your marks and grades",
			"Query fee payment status",
			"List your courses and recent assignments",
			"Show recent notices",
			"Get college information",
			"Answer general questions",
		},
		ExampleQueries: []string{
			"Can you tell me my attendance?",
			"What are my marks?",
			"What's my fee status?",
			"Any new assignments?",
			"Tell me about the college",
			"How to prepare for exams?",
		},
	}
}
