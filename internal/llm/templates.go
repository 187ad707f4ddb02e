package llm

import (
	"context"
	"fmt"
	"strings"
	"text/template"
)

// Template names accepted by Generate.
const (
	TemplateConversational = "conversational"
	TemplateCollegeInfo    = "college_info"
	TemplateGeneral        = "general"
)

const conversationalTemplate = `You are a friendly and helpful college student assistant chatbot.
Your tone should be warm, professional, and encouraging - like a helpful friend.
Keep responses concise and natural.

User Query: {{.query}}

Student Information:
{{.user_data}}

Please provide a helpful response based on the student's information.
Be warm, supportive, and conversational.`

const collegeInfoTemplate = `You are a knowledgeable and friendly college information assistant.

Context Information:
{{.context}}

Student's Question: {{.query}}

Instructions:
- Provide accurate information based on the context
- Be warm, professional, and encouraging
- If information is not in the context, acknowledge this honestly
- Use bullet points for lists when appropriate
- Keep responses concise but comprehensive

Response:`

const generalTemplate = `You are a friendly and helpful assistant.
Help answer questions with a warm, conversational tone.

User Question: {{.query}}

Search Results: {{.search_results}}

Please provide a helpful and friendly response.`

var promptTemplates = template.Must(template.New("conversational").Parse(conversationalTemplate))

func init() {
	template.Must(promptTemplates.New(TemplateCollegeInfo).Parse(collegeInfoTemplate))
	template.Must(promptTemplates.New(TemplateGeneral).Parse(generalTemplate))
}

// Generator renders a named prompt template and hands the prompt to the
// completion client. Whitespace-only generation output is valid.
type Generator struct {
	client *Client
}

// NewGenerator wraps a completion client.
func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

// Generate fills templateName with vars and returns the generated text.
// Unknown template names are a programming error and fail immediately.
func (g *Generator) Generate(ctx context.Context, templateName string, vars map[string]string) (string, error) {
	tmpl := promptTemplates.Lookup(templateName)
	if tmpl == nil {
		return "", fmt.Errorf("unknown prompt template %q", templateName)
	}

	var prompt strings.Builder
	if err := tmpl.Execute(&prompt, vars); err != nil {
		return "", fmt.Errorf("failed to render prompt template %q: %w", templateName, err)
	}

	return g.client.Complete(ctx, prompt.String())
}
