package prompts

import (
	"fmt"
	"strings"
)

// TableSchema describes one table exposed to the generation model.
type TableSchema struct {
	Name    string
	Columns []string
}

// PortalSchema is the fixed schema description embedded in every prompt.
// It is configuration, not live introspection: if the real schema changes,
// this list must be updated by hand.
var PortalSchema = []TableSchema{
	{
		Name:    "profiles",
		Columns: []string{"id", "full_name", "role", "designation", "department"},
	},
	{
		Name: "journal_publications",
		Columns: []string{
			"journal_id", "profile_id", "title", "journal_name",
			"publication_date", "journal_quartile", "status",
		},
	},
	{
		Name: "conference_publications",
		Columns: []string{
			"conference_id", "profile_id", "title", "conference_name",
			"conference_date", "status",
		},
	},
	{
		Name: "patents",
		Columns: []string{
			"patent_id", "profile_id", "patent_title", "patent_status",
			"filed_date", "granted_date", "status",
		},
	},
	{
		Name: "research_funding",
		Columns: []string{
			"funding_id", "profile_id", "project_title", "funding_agency",
			"amount", "start_date", "end_date", "status",
		},
	},
}

// renderSchema writes the schema description in the stable prompt format.
func renderSchema(b *strings.Builder, tables []TableSchema) {
	for _, table := range tables {
		fmt.Fprintf(b, "%s(\n", table.Name)
		for i, col := range table.Columns {
			sep := ","
			if i == len(table.Columns)-1 {
				sep = ""
			}
			fmt.Fprintf(b, "  %s%s\n", col, sep)
		}
		b.WriteString(")\n\n")
	}
}
