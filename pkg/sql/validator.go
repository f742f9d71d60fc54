package sql

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/facultyportal/research-engine/pkg/apperrors"
)

// forbiddenKeywordPattern matches any mutating or DDL keyword as a whole
// word, anywhere in the statement. The list mirrors the prompt-level policy
// exactly; CREATE is included so DDL cannot slip in through a keyword the
// prompt forbids only by category.
var forbiddenKeywordPattern = regexp.MustCompile(
	`(?i)\b(insert|update|delete|drop|alter|truncate|grant|create)\b`,
)

// modifyingCTEPattern matches CTEs that wrap data-modifying operations,
// e.g. WITH gone AS (DELETE FROM patents ...) SELECT * FROM gone.
var modifyingCTEPattern = regexp.MustCompile(`(?i)\bAS\s*\(\s*(INSERT|UPDATE|DELETE)\b`)

// ValidateReadOnly is the last code-level gate before execution. The input
// must already be normalized (fences and semicolons stripped).
//
// Two rules, both textual:
//  1. the statement must begin with SELECT or WITH (WITH permits
//     CTE-based analytics queries);
//  2. no forbidden keyword may appear anywhere as a whole word.
//
// The gate is deliberately syntactic, not a SQL parser. Obfuscated writes
// that survive it are caught by the restricted role the execution procedure
// runs under; this check exists to reject the obvious cases before a
// network round trip.
func ValidateReadOnly(candidate string) error {
	normalized := strings.ToLower(strings.TrimSpace(candidate))

	switch {
	case strings.HasPrefix(normalized, "select"):
	case strings.HasPrefix(normalized, "with"):
		if modifyingCTEPattern.MatchString(candidate) {
			return fmt.Errorf("data-modifying CTE: %w", apperrors.ErrWriteOperation)
		}
	default:
		return apperrors.ErrNotReadOnly
	}

	if kw := forbiddenKeywordPattern.FindString(normalized); kw != "" {
		return fmt.Errorf("forbidden keyword %q: %w", kw, apperrors.ErrWriteOperation)
	}

	return nil
}
