package sql

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facultyportal/research-engine/pkg/apperrors"
)

func TestValidateReadOnly_Allowed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"simple select", "SELECT * FROM patents"},
		{"lowercase select", "select title from journal_publications"},
		{"leading whitespace", "  \n select 1"},
		{"cte analytics query", "WITH dept AS (SELECT * FROM profiles WHERE department = 'CSE') SELECT count(*) FROM dept"},
		{"column names containing keyword stems", "SELECT granted_date, publication_date FROM patents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, ValidateReadOnly(tt.input))
		})
	}
}

func TestValidateReadOnly_NotReadOnlyRoot(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"drop statement", "DROP TABLE profiles"},
		{"insert statement", "INSERT INTO patents VALUES (1)"},
		{"call statement", "CALL do_things()"},
		{"explain statement", "EXPLAIN SELECT 1"},
		{"empty string", ""},
		{"prose", "here is your query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReadOnly(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrNotReadOnly))
		})
	}
}

func TestValidateReadOnly_ForbiddenKeywordInBody(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"chained insert after semicolon strip", "select 1 insert into patents values (1)"},
		{"update mid statement", "SELECT * FROM profiles WHERE id IN (SELECT 1 UPDATE profiles SET role = 'ADMIN')"},
		{"delete mid statement", "select 1 delete from research_funding"},
		{"drop after select root", "select 1 drop table profiles"},
		{"alter after select root", "select 1 alter table profiles add c int"},
		{"truncate after select root", "select 1 truncate patents"},
		{"grant after select root", "select 1 grant all on profiles to public"},
		{"create after select root", "select 1 create table x (c int)"},
		{"mixed case keyword", "select 1 InSeRt into x values (1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReadOnly(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrWriteOperation))
		})
	}
}

func TestValidateReadOnly_ModifyingCTE(t *testing.T) {
	err := ValidateReadOnly("WITH gone AS (DELETE FROM patents RETURNING *) SELECT * FROM gone")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrWriteOperation))
}

func TestValidateReadOnly_NormalizedChainStillRejected(t *testing.T) {
	// The raw model output carried a statement separator; after Normalize the
	// separator is gone but the mutating keyword remains and must still fail.
	raw := "select 1; insert into patents values (1)"
	normalized := Normalize(raw)
	require.NotContains(t, normalized, ";")

	err := ValidateReadOnly(normalized)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrWriteOperation))
}
