package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain object", `{"name": "Ada"}`, `{"name": "Ada"}`},
		{"json fence", "```json\n{\"overallScore\": 72}\n```", `{"overallScore": 72}`},
		{"bare fence", "```\n{\"skills\": [\"Go\"]}\n```", `{"skills": ["Go"]}`},
		{"label inside fence", "```json\nScores:\n{\"overallScore\": 80}\n```", `{"overallScore": 80}`},
		{"preamble", "Here is the extracted profile:\n\n{\"name\": \"Grace Hopper\"}", `{"name": "Grace Hopper"}`},
		{"trailing chatter", "{\"role\": \"Engineer\"}\n\nLet me know if you need changes.", `{"role": "Engineer"}`},
		{"array", "Missing keywords:\n[\"kubernetes\", \"terraform\"]", `["kubernetes", "terraform"]`},
		{"braces inside strings", `{"summary": "Led {platform} work", "n": 1}`, `{"summary": "Led {platform} work", "n": 1}`},
		{"escaped quotes", `Result: {"quote": "she said \"ship it\""}`, `{"quote": "she said \"ship it\""}`},
		{"nested", `Output: {"sectionScores": {"skills": 80, "experience": {"years": 5}}}`, `{"sectionScores": {"skills": 80, "experience": {"years": 5}}}`},
		{"bracketed prose before object", "Scores [draft]:\n{\"overallScore\": 50}", `{"overallScore": 50}`},
		{"no json", "  sorry, I cannot help with that  ", "sorry, I cannot help with that"},
		{"truncated object", `Result: {"name": "Ada`, `Result: {"name": "Ada`},
		{
			"truncated with complete nested value",
			"```json\n{\"name\": \"Jane Roe\", \"workExperience\": [{\"company\": \"Acme\", \"position\": \"Dev\"}, {\"company\": \"Be",
			"```json\n{\"name\": \"Jane Roe\", \"workExperience\": [{\"company\": \"Acme\", \"position\": \"Dev\"}, {\"company\": \"Be",
		},
		{"bracketed prose with nested object", "Note [see {x}] then:\n{\"ok\": true}", `{"ok": true}`},
		{"invalid object skipped whole", `{"a": {"b": 1}, oops} {"c": 2}`, `{"c": 2}`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.input))
		})
	}
}
