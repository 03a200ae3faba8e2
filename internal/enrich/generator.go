package enrich

import "context"

// Generator is the language model surface the enrichment passes call.
// *llm.Model satisfies it; tests substitute stubs.
type Generator interface {
	// GenerateWithSystem returns free-form text for a system/user prompt pair.
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// GenerateJSON decodes a JSON response into out.
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, out any) error
}
