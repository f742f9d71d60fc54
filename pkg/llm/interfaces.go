// Package llm provides the SQL generation clients for the chatbot core.
package llm

import "context"

// SQLGenerator obtains one candidate statement from a completion backend.
//
// Implementations are dumb text adapters: they send the policy preamble and
// the instruction document as separate conversational turns at temperature
// zero, normalize the response (fences and semicolons stripped, whitespace
// trimmed), and return it. They have no notion of allowed versus denied;
// that judgement lives entirely in the validator and the orchestrator.
type SQLGenerator interface {
	// GenerateSQL returns the normalized candidate text, which is either a
	// SQL statement or the access-denial sentinel.
	GenerateSQL(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Compile-time interface checks.
var (
	_ SQLGenerator = (*Client)(nil)
	_ SQLGenerator = (*AnthropicClient)(nil)
	_ SQLGenerator = (*MockSQLGenerator)(nil)
)
