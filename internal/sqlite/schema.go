package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/narrata/pkg/types"
)

// timeLayout stores timestamps as fixed-width UTC text so that ordering by
// the column is chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// entityColumns lists the columns of an entity table in scan order.
func entityColumns(def *types.EntityDef) []string {
	cols := []string{"id"}
	for _, f := range def.Keys {
		cols = append(cols, f.Name)
	}
	for _, f := range def.Values {
		cols = append(cols, f.Name)
	}
	return append(cols, "metadata", "created_at", "status")
}

// entityDDL returns the statements creating an entity table and its index.
// The surrogate id uses AUTOINCREMENT so deleted ids are never reused.
func entityDDL(def *types.EntityDef) []string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", quote(def.Table))
	b.WriteString("    id INTEGER PRIMARY KEY AUTOINCREMENT,\n")
	keyCols := make([]string, len(def.Keys))
	for i, f := range def.Keys {
		fmt.Fprintf(&b, "    %s %s NOT NULL,\n", quote(f.Name), f.Type.SQLType())
		keyCols[i] = quote(f.Name)
	}
	for _, f := range def.Values {
		fmt.Fprintf(&b, "    %s %s NOT NULL DEFAULT %s,\n", quote(f.Name), f.Type.SQLType(), f.Type.SQLDefault())
	}
	b.WriteString("    metadata TEXT NOT NULL DEFAULT '{}',\n")
	b.WriteString("    created_at TEXT NOT NULL,\n")
	b.WriteString("    status TEXT NOT NULL,\n")
	fmt.Fprintf(&b, "    UNIQUE (%s)\n);", strings.Join(keyCols, ", "))

	idx := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(created_at);",
		quote("idx_"+def.Table+"_created_at"), quote(def.Table))
	return []string{b.String(), idx}
}

// relationColumns lists the columns of a relation table in scan order.
func relationColumns(def *types.RelationDef) []string {
	cols := []string{"from_id", "to_id"}
	cols = append(cols, def.Attrs...)
	return append(cols, "created_at")
}

// relationDDL returns the statements creating a relation table. Endpoints
// are plain integers: edges may outlive their entities.
func relationDDL(def *types.RelationDef) []string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", quote(def.Table))
	b.WriteString("    from_id INTEGER NOT NULL,\n")
	b.WriteString("    to_id INTEGER NOT NULL,\n")
	for _, a := range def.Attrs {
		fmt.Fprintf(&b, "    %s TEXT NOT NULL DEFAULT '',\n", quote(a))
	}
	b.WriteString("    created_at TEXT NOT NULL,\n")
	b.WriteString("    PRIMARY KEY (from_id, to_id)\n);")

	idx := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(to_id);",
		quote("idx_"+def.Table+"_to"), quote(def.Table))
	return []string{b.String(), idx}
}

func quoteAll(cols []string) string {
	q := make([]string, len(cols))
	for i, c := range cols {
		q[i] = quote(c)
	}
	return strings.Join(q, ", ")
}

// namedParams renders ":a, :b" for sqlx named queries.
func namedParams(cols []string) string {
	p := make([]string, len(cols))
	for i, c := range cols {
		p[i] = ":" + c
	}
	return strings.Join(p, ", ")
}

// namedAssignments renders `"a" = :a, "b" = :b`.
func namedAssignments(cols []string) string {
	p := make([]string, len(cols))
	for i, c := range cols {
		p[i] = quote(c) + " = :" + c
	}
	return strings.Join(p, ", ")
}
