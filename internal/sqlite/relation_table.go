package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mesh-intelligence/narrata/pkg/types"
)

// RelationTable is the store for one relation kind. At most one edge exists
// per (from_id, to_id) pair.
type RelationTable struct {
	def *types.RelationDef
	q   sqlx.Ext
}

// Def returns the definition the table was built from.
func (t *RelationTable) Def() *types.RelationDef { return t.def }

// InitTable creates the table if it does not exist.
func (t *RelationTable) InitTable() error {
	for _, stmt := range relationDDL(t.def) {
		if _, err := t.q.Exec(stmt); err != nil {
			return fmt.Errorf("creating table %s: %w", t.def.Table, err)
		}
	}
	return nil
}

// Create inserts a new edge. Returns ErrRelationExists if the pair is
// already linked.
func (t *RelationTable) Create(r *types.Relation) error {
	exists, err := t.Exists(r.FromID, r.ToID)
	if err != nil {
		return err
	}
	if exists {
		return types.ErrRelationExists
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	args := map[string]any{
		"from_id":    r.FromID,
		"to_id":      r.ToID,
		"created_at": formatTime(r.CreatedAt),
	}
	for _, a := range t.def.Attrs {
		args[a] = r.Attrs[a]
	}
	cols := relationColumns(t.def)
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(t.def.Table), quoteAll(cols), namedParams(cols))
	if _, err := sqlx.NamedExec(t.q, query, args); err != nil {
		return fmt.Errorf("inserting into %s: %w", t.def.Table, err)
	}
	return nil
}

// Update rewrites the attributes present in r.Attrs; attributes missing from
// the map keep their stored value. Returns ErrNoRelation if the pair is not
// linked.
func (t *RelationTable) Update(r *types.Relation) error {
	var cols []string
	args := map[string]any{"from_id": r.FromID, "to_id": r.ToID}
	for _, a := range t.def.Attrs {
		if v, ok := r.Attrs[a]; ok {
			cols = append(cols, a)
			args[a] = v
		}
	}
	if len(cols) == 0 {
		exists, err := t.Exists(r.FromID, r.ToID)
		if err != nil {
			return err
		}
		if !exists {
			return types.ErrNoRelation
		}
		return nil
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE from_id = :from_id AND to_id = :to_id",
		quote(t.def.Table), namedAssignments(cols))
	res, err := sqlx.NamedExec(t.q, query, args)
	if err != nil {
		return fmt.Errorf("updating %s: %w", t.def.Table, err)
	}
	return affectedOrNotFound(res, types.ErrNoRelation)
}

// Upsert updates the edge if the pair is linked and creates it otherwise,
// reporting which branch ran.
func (t *RelationTable) Upsert(r *types.Relation) (types.UpsertResult, error) {
	exists, err := t.Exists(r.FromID, r.ToID)
	if err != nil {
		return types.Created, err
	}
	if exists {
		return types.Updated, t.Update(r)
	}
	return types.Created, t.Create(r)
}

// Delete removes the edge between the pair. Returns ErrNoRelation if there
// is none.
func (t *RelationTable) Delete(fromID, toID int64) error {
	res, err := t.q.Exec(
		fmt.Sprintf("DELETE FROM %s WHERE from_id = ? AND to_id = ?", quote(t.def.Table)),
		fromID, toID,
	)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", t.def.Table, err)
	}
	return affectedOrNotFound(res, types.ErrNoRelation)
}

// Exists reports whether the pair is linked.
func (t *RelationTable) Exists(fromID, toID int64) (bool, error) {
	var one int
	err := t.q.QueryRowx(
		fmt.Sprintf("SELECT 1 FROM %s WHERE from_id = ? AND to_id = ?", quote(t.def.Table)),
		fromID, toID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", t.def.Table, err)
	}
	return true, nil
}

// Get returns the edge between the pair, or ErrNoRelation.
func (t *RelationTable) Get(fromID, toID int64) (*types.Relation, error) {
	rels, err := t.list("from_id = ? AND to_id = ?", fromID, toID)
	if err != nil {
		return nil, err
	}
	if len(rels) == 0 {
		return nil, types.ErrNoRelation
	}
	return rels[0], nil
}

// ListForEntity returns the edges leaving fromID, newest first.
func (t *RelationTable) ListForEntity(fromID int64) ([]*types.Relation, error) {
	return t.list("from_id = ?", fromID)
}

// ListForTarget returns the edges arriving at toID, newest first.
func (t *RelationTable) ListForTarget(toID int64) ([]*types.Relation, error) {
	return t.list("to_id = ?", toID)
}

// All returns every edge, newest first.
func (t *RelationTable) All() ([]*types.Relation, error) {
	return t.list("1 = 1")
}

func (t *RelationTable) list(where string, args ...any) ([]*types.Relation, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY created_at DESC, from_id, to_id",
		quoteAll(relationColumns(t.def)), quote(t.def.Table), where)
	rows, err := t.q.Queryx(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", t.def.Table, err)
	}
	defer rows.Close()

	results := []*types.Relation{}
	for rows.Next() {
		m := make(map[string]any)
		if err := rows.MapScan(m); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", t.def.Table, err)
		}
		r, err := t.hydrate(m)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", t.def.Table, err)
	}
	return results, nil
}

func (t *RelationTable) hydrate(m map[string]any) (*types.Relation, error) {
	from, okFrom := m["from_id"].(int64)
	to, okTo := m["to_id"].(int64)
	if !okFrom || !okTo {
		return nil, &types.CorruptRowError{Table: t.def.Table, Column: "from_id/to_id",
			Err: fmt.Errorf("unexpected %T/%T", m["from_id"], m["to_id"])}
	}
	corrupt := func(col string, err error) error {
		return &types.CorruptRowError{Table: t.def.Table, Column: col, ID: from, Err: err}
	}

	r := &types.Relation{FromID: from, ToID: to, Attrs: make(map[string]string, len(t.def.Attrs))}
	for _, a := range t.def.Attrs {
		s, err := asString(m[a])
		if err != nil {
			return nil, corrupt(a, err)
		}
		r.Attrs[a] = s
	}
	created, err := asString(m["created_at"])
	if err != nil {
		return nil, corrupt("created_at", err)
	}
	if r.CreatedAt, err = parseTime(created); err != nil {
		return nil, corrupt("created_at", err)
	}
	return r, nil
}
