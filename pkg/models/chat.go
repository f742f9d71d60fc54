package models

// ChatRequest is the inbound chatbot payload: one free-text question.
type ChatRequest struct {
	Question string `json:"question"`
}

// Row is a single result row as returned by the execution procedure,
// column name to scalar (or nil for SQL NULL).
type Row map[string]any

// ChatResult is the outcome of one chatbot request.
//
// Exactly one of the two shapes is populated:
//   - Denied=true: the policy refused to answer; SQL and Rows are empty.
//   - Denied=false: SQL holds the executed statement and Rows its result.
type ChatResult struct {
	Denied bool
	SQL    string
	Rows   []Row
}

// DeniedResponse is the wire envelope for a policy denial.
type DeniedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ChatResponse is the wire envelope for a successful query. The generated
// SQL is echoed back deliberately so callers can audit what ran.
type ChatResponse struct {
	SQL    string `json:"sql"`
	Result []Row  `json:"result"`
}
