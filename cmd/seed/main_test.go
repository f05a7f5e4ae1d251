package main

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var insertColumns = regexp.MustCompile(`INSERT INTO (\w+) \(([^)]+)\)`)

// The seed statements must only name columns the checked-in schema defines.
func TestSeedStatementsMatchSchema(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "db", "migrations", "000001_init.up.sql"))
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	schema := string(raw)

	for _, stmt := range []string{seedUserStmt, seedDoctorStmt} {
		m := insertColumns.FindStringSubmatch(stmt)
		if m == nil {
			t.Fatalf("no INSERT column list in %q", stmt)
		}
		table, cols := m[1], strings.Split(m[2], ",")

		start := strings.Index(schema, "CREATE TABLE IF NOT EXISTS "+table+" (")
		if start < 0 {
			t.Fatalf("table %s not in migration", table)
		}
		ddl := schema[start:]
		if end := strings.Index(ddl, ";"); end >= 0 {
			ddl = ddl[:end]
		}

		for _, col := range cols {
			col = strings.TrimSpace(col)
			if !strings.Contains(ddl, "\n    "+col+" ") {
				t.Errorf("seed for %s uses column %q, not defined by the schema", table, col)
			}
		}
	}
}
