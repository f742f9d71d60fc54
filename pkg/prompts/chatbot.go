// Package prompts renders the instruction documents sent to the SQL
// generation model. Builders are pure functions: identical inputs always
// produce byte-identical output, which keeps the access-control surface
// auditable and testable.
package prompts

import (
	"fmt"
	"strings"

	"github.com/facultyportal/research-engine/pkg/models"
)

// AccessDeniedSentinel is the exact text the model must return instead of
// SQL when the question falls outside the caller's access.
const AccessDeniedSentinel = "ACCESS NOT ALLOWED"

// ForbiddenStatements are the statement types the model is told never to
// generate. The code-level validator enforces the same list.
var ForbiddenStatements = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "ALTER", "TRUNCATE", "GRANT",
}

// BuildQueryPrompt renders the per-request instruction document for the
// generation model: schema, the caller's identity, the access predicate any
// generated query must satisfy, denial triggers, and output constraints.
//
// The caller id and department are spliced into prompt text, not into SQL.
// The SQL that comes back from the model is untrusted and must pass the
// validator before it goes anywhere near the database.
func BuildQueryPrompt(profile *models.Profile, question string) string {
	var b strings.Builder

	b.WriteString("You are an AI system that converts natural language into SQL queries.\n\n")
	b.WriteString("Your job is to generate SAFE, READ-ONLY SQL for a Faculty Research Activity Portal database.\n\n")

	section(&b, "DATABASE SCHEMA")
	renderSchema(&b, PortalSchema)

	section(&b, "ACCESS CONTROL RULES")
	fmt.Fprintf(&b, "USER ROLE: %s\n", profile.Role)
	fmt.Fprintf(&b, "USER ID: %s\n", profile.ID)
	fmt.Fprintf(&b, "USER DEPARTMENT: %s\n\n", profile.Department)

	if profile.Role == models.RoleAdmin {
		b.WriteString("ADMIN can access everything. No row filtering is required.\n\n")
	} else {
		b.WriteString("FACULTY CAN ACCESS ONLY:\n\n")
		b.WriteString("- Their own records\n")
		b.WriteString("- Their department data\n\n")

		section(&b, "ACCESS DENIAL RULE (VERY IMPORTANT)")
		b.WriteString("If the question asks for:\n\n")
		b.WriteString("- Another faculty member\n")
		b.WriteString("- Another department\n")
		b.WriteString("- \"All journals\", \"All patents\", \"All conferences\", \"All research funding\", \"All activities\"\n")
		b.WriteString("- Institute level data\n\n")
		b.WriteString("OR anything outside:\n\n")
		fmt.Fprintf(&b, "%s\n\n", facultyPredicate(profile))
		b.WriteString("Then DO NOT generate SQL.\n\n")
		fmt.Fprintf(&b, "Instead return exactly:\n\n%s\n\n(No SQL)\n\n", AccessDeniedSentinel)
	}

	section(&b, "MANDATORY SECURITY RULES")
	b.WriteString("1. ONLY generate ONE SQL SELECT query\n")
	b.WriteString("2. NEVER generate:\n")
	for _, stmt := range ForbiddenStatements {
		fmt.Fprintf(&b, "   - %s\n", stmt)
	}
	b.WriteString("3. ALWAYS apply role filtering\n")
	b.WriteString("4. ALWAYS join with profiles when filtering by department or faculty name\n\n")
	if profile.Role == models.RoleFaculty {
		fmt.Fprintf(&b, "FACULTY QUERY MUST INCLUDE:\n\n%s\n\n", facultyPredicate(profile))
	}

	section(&b, "ACTIVITY UNION RULE")
	b.WriteString("When combining activities across tables, return:\n\n")
	b.WriteString("activity_name TEXT\nactivity_type TEXT\nactivity_date TEXT\n\n")
	b.WriteString("ALL fields MUST be CAST AS TEXT.\n\n")

	section(&b, "OUTPUT RULE")
	b.WriteString("If access allowed, return SQL.\n")
	fmt.Fprintf(&b, "If access NOT allowed, return: %s\n\n", AccessDeniedSentinel)
	b.WriteString("Do NOT return explanation.\n")
	b.WriteString("Do NOT return markdown.\n")
	b.WriteString("Do NOT return a semicolon.\n\n")

	section(&b, "USER QUESTION")
	b.WriteString(question)
	b.WriteString("\n")

	return b.String()
}

// SystemPrompt is the static policy preamble sent as the system turn. It
// duplicates the schema and rules independently of the per-request document
// so a single prompt-injection cannot strip both.
func SystemPrompt(profile *models.Profile) string {
	var b strings.Builder

	b.WriteString("You are an AI system that converts natural language into SAFE PostgreSQL SELECT queries.\n\n")

	section(&b, "DATABASE SCHEMA")
	for _, table := range PortalSchema {
		fmt.Fprintf(&b, "%s(%s)\n\n", table.Name, strings.Join(table.Columns, ", "))
	}

	section(&b, "ACCESS CONTROL")
	fmt.Fprintf(&b, "USER ROLE: %s\n", profile.Role)
	fmt.Fprintf(&b, "USER ID: %s\n", profile.ID)
	fmt.Fprintf(&b, "USER DEPARTMENT: %s\n\n", profile.Department)
	b.WriteString("FACULTY CAN ACCESS ONLY their own records and their department data.\n")
	b.WriteString("ADMIN can access everything.\n\n")

	section(&b, "SECURITY RULES")
	b.WriteString("1. ONLY generate ONE SQL SELECT query\n")
	fmt.Fprintf(&b, "2. NEVER generate %s\n", strings.Join(ForbiddenStatements, ", "))
	b.WriteString("3. ALWAYS join with profiles when filtering\n")
	if profile.Role == models.RoleFaculty {
		fmt.Fprintf(&b, "4. FACULTY queries MUST include:\n\n%s\n", facultyPredicate(profile))
	}
	b.WriteString("\n")

	section(&b, "DENIAL RULE")
	b.WriteString("If FACULTY asks for institute-wide data or data of faculty outside their department,\n")
	fmt.Fprintf(&b, "return exactly: %s\n\n", AccessDeniedSentinel)

	section(&b, "OUTPUT RULE")
	fmt.Fprintf(&b, "If allowed, return SQL. If not, return %s.\n", AccessDeniedSentinel)
	b.WriteString("No explanation. No markdown. No semicolon.\n")

	return b.String()
}

// facultyPredicate renders the boolean predicate a FACULTY query must carry.
// When the department is empty the department arm is omitted entirely:
// rendering department = '' would silently widen or narrow the match
// depending on how "no department" is stored.
func facultyPredicate(profile *models.Profile) string {
	if profile.Department == "" {
		return fmt.Sprintf("(\n profiles.id = '%s'\n)", profile.ID)
	}
	return fmt.Sprintf(
		"(\n profiles.id = '%s'\n OR profiles.department = '%s'\n)",
		profile.ID, profile.Department,
	)
}

func section(b *strings.Builder, title string) {
	b.WriteString("=====================\n")
	b.WriteString(title)
	b.WriteString("\n=====================\n\n")
}
