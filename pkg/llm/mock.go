package llm

import "context"

// MockSQLGenerator is a configurable mock for testing. Set GenerateSQLFunc
// to control behavior; call counts and the last prompts are recorded for
// verification.
type MockSQLGenerator struct {
	// GenerateSQLFunc is called when GenerateSQL is invoked.
	// If nil, returns "" and nil error.
	GenerateSQLFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	GenerateSQLCalls int
	LastSystemPrompt string
	LastUserPrompt   string
}

// NewMockSQLGenerator creates a mock with defaults.
func NewMockSQLGenerator() *MockSQLGenerator {
	return &MockSQLGenerator{}
}

// GenerateSQL implements SQLGenerator.
func (m *MockSQLGenerator) GenerateSQL(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.GenerateSQLCalls++
	m.LastSystemPrompt = systemPrompt
	m.LastUserPrompt = userPrompt
	if m.GenerateSQLFunc != nil {
		return m.GenerateSQLFunc(ctx, systemPrompt, userPrompt)
	}
	return "", nil
}
