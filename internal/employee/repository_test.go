package employee

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Every column the repository reads or writes must exist in the employees
// DDL, so a drifted migration fails here instead of at runtime.
func TestEmployeeColumnsMatchMigration(t *testing.T) {
	ddl, err := os.ReadFile("../../migrations/0001_init.up.sql")
	require.NoError(t, err)

	block := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS employees \((.*?)\);`).
		FindStringSubmatch(string(ddl))
	require.Len(t, block, 2, "employees DDL not found")

	for _, col := range []string{
		"id", "user_id", "name", "document", "contract_type",
		"phone", "email", "address", "status", "created_by", "created_at", "updated_at",
	} {
		require.True(t, regexp.MustCompile(`(?m)^\s+`+col+`\s`).MatchString(block[1]),
			"employees table is missing column %q", col)
	}

	cols := regexp.MustCompile(`[a-z_]+`).FindAllString(strings.ReplaceAll(employeeColumns, "::text", ""), -1)
	for _, col := range cols {
		switch col {
		case "coalesce", "text":
			continue
		}
		require.Contains(t, block[1], col, "repository references column %q absent from the migration", col)
	}
}
