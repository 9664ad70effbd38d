package storage

import (
	"strings"
	"testing"
)

func TestTableDDL(t *testing.T) {
	want := map[string]bool{"daily_activity": false, "daily_labels": false}

	for _, ddl := range tableDDL {
		if _, ok := want[ddl.name]; !ok {
			t.Errorf("unexpected table %q", ddl.name)
			continue
		}
		want[ddl.name] = true

		if !strings.Contains(ddl.sql, "CREATE TABLE IF NOT EXISTS "+ddl.name) {
			t.Errorf("table %s DDL is not idempotent", ddl.name)
		}
		if !strings.Contains(ddl.sql, "PARTITION BY toYYYYMM(date)") {
			t.Errorf("table %s missing monthly partitioning", ddl.name)
		}
		if !strings.Contains(ddl.sql, "ORDER BY (run_id, employee_id, date)") {
			t.Errorf("table %s missing sort key", ddl.name)
		}
		if !strings.Contains(ddl.sql, "run_id UUID") {
			t.Errorf("table %s missing run_id column", ddl.name)
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("missing DDL for %s", name)
		}
	}
}
