package apperrors

import "errors"

var (
	// ErrLLMNotConfigured indicates the generation backend credential or
	// endpoint is missing. Fatal at startup; never retried.
	ErrLLMNotConfigured = errors.New("llm backend is not configured")

	// ErrGeneration indicates the completion call failed or returned
	// unusable content.
	ErrGeneration = errors.New("sql generation failed")

	// ErrNotReadOnly indicates the candidate statement does not start with a
	// read-only clause.
	ErrNotReadOnly = errors.New("Only SELECT queries allowed")

	// ErrWriteOperation indicates the candidate statement contains a
	// mutating keyword.
	ErrWriteOperation = errors.New("Write operations are not allowed")

	// ErrExecution indicates the gateway procedure call failed.
	ErrExecution = errors.New("query execution failed")

	// ErrUnsafeQuestion indicates the natural-language question itself
	// carries a SQL injection fingerprint.
	ErrUnsafeQuestion = errors.New("question contains disallowed content")

	// ErrProfileNotFound indicates the authenticated user has no profile row.
	ErrProfileNotFound = errors.New("profile not found")
)
