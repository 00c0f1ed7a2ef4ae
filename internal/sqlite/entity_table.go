package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mesh-intelligence/narrata/pkg/types"
)

// EntityTable is the store for one entity kind. A single implementation
// serves every kind; the definition supplies table, columns and statuses.
type EntityTable struct {
	def *types.EntityDef
	q   sqlx.Ext
}

// Def returns the definition the table was built from.
func (t *EntityTable) Def() *types.EntityDef { return t.def }

// InitTable creates the table if it does not exist.
func (t *EntityTable) InitTable() error {
	for _, stmt := range entityDDL(t.def) {
		if _, err := t.q.Exec(stmt); err != nil {
			return fmt.Errorf("creating table %s: %w", t.def.Table, err)
		}
	}
	return nil
}

// Insert writes a new row and returns its surrogate id. A zero CreatedAt is
// set to now and an empty Status to the kind's default. Returns
// ErrAlreadyExists if the logical key is taken.
func (t *EntityTable) Insert(e *types.Entity) (int64, error) {
	if err := t.checkKey(e.Key); err != nil {
		return 0, err
	}
	exists, err := t.Exists(e.Key...)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, types.ErrAlreadyExists
	}

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.Status == "" {
		e.Status = t.def.Statuses.Default
	}
	args, err := t.dehydrate(e)
	if err != nil {
		return 0, err
	}
	for i, f := range t.def.Keys {
		args[f.Name] = e.Key[i]
	}
	args["created_at"] = formatTime(e.CreatedAt)

	cols := entityColumns(t.def)[1:]
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(t.def.Table), quoteAll(cols), namedParams(cols))
	res, err := sqlx.NamedExec(t.q, query, args)
	if err != nil {
		return 0, fmt.Errorf("inserting into %s: %w", t.def.Table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading id from %s: %w", t.def.Table, err)
	}
	return id, nil
}

// GetByKey returns the record with the given logical key, or ErrNotFound.
func (t *EntityTable) GetByKey(key ...any) (*types.Entity, error) {
	if err := t.checkKey(key); err != nil {
		return nil, err
	}
	where, args := t.keyClause(key)
	return t.getOne(where, args...)
}

// Get returns the record with the given surrogate id, or ErrNotFound.
func (t *EntityTable) Get(id int64) (*types.Entity, error) {
	return t.getOne("id = ?", id)
}

// GetIDByKey returns only the surrogate id for a logical key.
func (t *EntityTable) GetIDByKey(key ...any) (int64, error) {
	if err := t.checkKey(key); err != nil {
		return 0, err
	}
	where, args := t.keyClause(key)
	var id int64
	err := t.q.QueryRowx(fmt.Sprintf("SELECT id FROM %s WHERE %s", quote(t.def.Table), where), args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, types.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("looking up id in %s: %w", t.def.Table, err)
	}
	return id, nil
}

// Exists reports whether a row with the logical key exists.
func (t *EntityTable) Exists(key ...any) (bool, error) {
	_, err := t.GetIDByKey(key...)
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// List returns every row, newest first. Rows created in the same instant
// fall back to descending id.
func (t *EntityTable) List() ([]*types.Entity, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at DESC, id DESC",
		quoteAll(entityColumns(t.def)), quote(t.def.Table))
	rows, err := t.q.Queryx(query)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", t.def.Table, err)
	}
	defer rows.Close()

	results := []*types.Entity{}
	for rows.Next() {
		m := make(map[string]any)
		if err := rows.MapScan(m); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", t.def.Table, err)
		}
		e, err := t.hydrate(m)
		if err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", t.def.Table, err)
	}
	return results, nil
}

// Update overwrites value fields, metadata and status of the row with e.ID.
// Key and creation time are never rewritten.
func (t *EntityTable) Update(e *types.Entity) error {
	args, err := t.dehydrate(e)
	if err != nil {
		return err
	}
	args["id"] = e.ID

	var cols []string
	for _, f := range t.def.Values {
		cols = append(cols, f.Name)
	}
	cols = append(cols, "metadata", "status")
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = :id", quote(t.def.Table), namedAssignments(cols))
	res, err := sqlx.NamedExec(t.q, query, args)
	if err != nil {
		return fmt.Errorf("updating %s: %w", t.def.Table, err)
	}
	return affectedOrNotFound(res, types.ErrNotFound)
}

// Delete removes the row with the given id. Relation tables are untouched.
func (t *EntityTable) Delete(id int64) error {
	res, err := t.q.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", quote(t.def.Table)), id)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", t.def.Table, err)
	}
	return affectedOrNotFound(res, types.ErrNotFound)
}

func (t *EntityTable) getOne(where string, args ...any) (*types.Entity, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		quoteAll(entityColumns(t.def)), quote(t.def.Table), where)
	m := make(map[string]any)
	err := t.q.QueryRowx(query, args...).MapScan(m)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting from %s: %w", t.def.Table, err)
	}
	return t.hydrate(m)
}

func (t *EntityTable) checkKey(key []any) error {
	if len(key) != len(t.def.Keys) {
		return fmt.Errorf("%w: %s needs %d key values, got %d", types.ErrInvalidKey, t.def.Name, len(t.def.Keys), len(key))
	}
	return nil
}

func (t *EntityTable) keyClause(key []any) (string, []any) {
	conds := make([]string, len(t.def.Keys))
	for i, f := range t.def.Keys {
		conds[i] = quote(f.Name) + " = ?"
	}
	return strings.Join(conds, " AND "), key
}

// dehydrate returns the named arguments for value fields, metadata and
// status.
func (t *EntityTable) dehydrate(e *types.Entity) (map[string]any, error) {
	if !t.def.Statuses.Contains(e.Status) {
		return nil, fmt.Errorf("%w %q for %s", types.ErrInvalidStatus, e.Status, t.def.Name)
	}
	args := make(map[string]any, len(t.def.Values)+2)
	for _, f := range t.def.Values {
		v, ok := e.Fields[f.Name]
		if !ok || v == nil {
			v = f.Type.Zero()
		}
		if b, ok := v.(bool); ok {
			// Booleans are stored as 0/1.
			v = int64(0)
			if b {
				v = int64(1)
			}
		}
		args[f.Name] = v
	}
	meta := e.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}
	args["metadata"] = string(data)
	args["status"] = string(e.Status)
	return args, nil
}

// hydrate converts a scanned row into a record, reporting the offending
// column for any value that does not decode.
func (t *EntityTable) hydrate(m map[string]any) (*types.Entity, error) {
	id, ok := m["id"].(int64)
	if !ok {
		return nil, &types.CorruptRowError{Table: t.def.Table, Column: "id", Err: fmt.Errorf("unexpected %T", m["id"])}
	}
	corrupt := func(col string, err error) error {
		return &types.CorruptRowError{Table: t.def.Table, Column: col, ID: id, Err: err}
	}

	e := &types.Entity{
		ID:     id,
		Kind:   t.def.Kind,
		Key:    make([]any, len(t.def.Keys)),
		Fields: make(map[string]any, len(t.def.Values)),
	}
	for i, f := range t.def.Keys {
		v, err := f.Normalize(m[f.Name])
		if err != nil {
			return nil, corrupt(f.Name, err)
		}
		e.Key[i] = v
	}
	for _, f := range t.def.Values {
		v, err := f.Normalize(m[f.Name])
		if err != nil {
			return nil, corrupt(f.Name, err)
		}
		e.Fields[f.Name] = v
	}

	raw, err := asString(m["metadata"])
	if err != nil {
		return nil, corrupt("metadata", err)
	}
	e.Metadata = make(map[string]any)
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &e.Metadata); err != nil {
			return nil, corrupt("metadata", err)
		}
		if e.Metadata == nil {
			// The column held JSON null.
			e.Metadata = make(map[string]any)
		}
	}

	created, err := asString(m["created_at"])
	if err != nil {
		return nil, corrupt("created_at", err)
	}
	if e.CreatedAt, err = parseTime(created); err != nil {
		return nil, corrupt("created_at", err)
	}

	status, err := asString(m["status"])
	if err != nil {
		return nil, corrupt("status", err)
	}
	st := types.Status(status)
	if !t.def.Statuses.Contains(st) {
		return nil, corrupt("status", fmt.Errorf("%w %q", types.ErrInvalidStatus, status))
	}
	e.Status = st
	return e, nil
}

func asString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unexpected %T", v)
	}
}

func affectedOrNotFound(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
