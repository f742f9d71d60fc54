package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes a SQL injection fingerprint found in a
// natural-language question.
type InjectionCheckResult struct {
	Fingerprint string
}

// CheckQuestion screens a free-text question for SQL injection patterns
// before it is interpolated into a prompt. The question never reaches the
// database directly, but a question that is itself an injection payload is a
// jailbreak attempt and gets rejected up front rather than handed to the
// model.
//
// Returns nil when the question is clean.
func CheckQuestion(question string) *InjectionCheckResult {
	isSQLi, fingerprint := libinjection.IsSQLi(question)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{Fingerprint: string(fingerprint)}
}
