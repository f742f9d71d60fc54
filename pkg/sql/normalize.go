// Package sql normalizes and validates model-generated SQL before it is
// allowed anywhere near the execution gateway.
package sql

import "strings"

var fenceReplacer = strings.NewReplacer("```sql", "", "```", "")

// Normalize strips the artifacts a completion model commonly wraps around a
// SQL statement: Markdown code fences and every semicolon, then surrounding
// whitespace.
//
// Removing all semicolons (not just a trailing one) closes the
// multi-statement injection path: "select 1; drop table x" cannot reach the
// database as two statements because no statement separator survives.
func Normalize(raw string) string {
	out := fenceReplacer.Replace(raw)
	out = strings.ReplaceAll(out, ";", "")
	return strings.TrimSpace(out)
}
