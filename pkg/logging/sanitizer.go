package logging

import (
	"regexp"
)

const (
	// MaxSQLLogLength is the maximum length of generated SQL to log.
	MaxSQLLogLength = 500
	// RedactedText is the replacement text for sensitive data.
	RedactedText = "[REDACTED]"
)

var (
	// Matches password values in key=value connection strings.
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Matches bearer tokens in JWT form (three base64url segments).
	bearerPattern = regexp.MustCompile(`Bearer\s+[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+\.[A-Za-z0-9-_]*`)

	// Matches API key assignments.
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey)=[A-Za-z0-9-_]{16,}`)

	// Matches user:pass@host credentials embedded in URLs.
	urlCredsPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@[^/\s]+`)
)

// Sanitize scrubs credentials and tokens from a string before logging.
// Use this on anything that may carry connection strings, auth headers, or
// raw downstream error text.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}

	out := passwordPattern.ReplaceAllString(s, "${1}="+RedactedText)
	out = bearerPattern.ReplaceAllString(out, "Bearer "+RedactedText)
	out = apiKeyPattern.ReplaceAllString(out, "${1}="+RedactedText)
	out = urlCredsPattern.ReplaceAllString(out, "://"+RedactedText+"@"+RedactedText)

	return out
}

// SanitizeError scrubs an error's message for logging. Returns "" for nil.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return Sanitize(err.Error())
}

// TruncateSQL caps generated SQL at MaxSQLLogLength for audit logging.
func TruncateSQL(sql string) string {
	if len(sql) <= MaxSQLLogLength {
		return sql
	}
	return sql[:MaxSQLLogLength] + "..."
}
