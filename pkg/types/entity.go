package types

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// Kind identifies an entity kind; it is also the CLI noun ("character").
type Kind string

// KeySeparator joins the parts of a composite logical key ("saga:3").
const KeySeparator = ":"

// Reserved column names that set arguments may not target.
var reservedColumns = map[string]bool{
	"id":         true,
	"metadata":   true,
	"created_at": true,
}

// EntityDef describes one entity kind. Everything the storage layer and the
// field router need is derived from it.
type EntityDef struct {
	Kind     Kind
	Name     string // display name, e.g. "Character"
	Table    string
	Keys     []Field
	Values   []Field
	Statuses StatusSet
	Links    []LinkSpec
}

// LinkSpec binds a set-argument key to a relation. When Reverse is set the
// owning entity is the relation's To endpoint and the target its From
// endpoint.
type LinkSpec struct {
	Key      string
	Relation string // relation table name
	Reverse  bool
}

// Entity is the record shape every kind shares.
type Entity struct {
	ID        int64
	Kind      Kind
	Key       []any
	Fields    map[string]any
	Metadata  map[string]any
	CreatedAt time.Time
	Status    Status
}

// Validate checks the definition for internal consistency.
func (d *EntityDef) Validate() error {
	if d.Kind == "" || d.Name == "" || d.Table == "" {
		return fmt.Errorf("entity definition %q: kind, name and table are required", d.Kind)
	}
	if len(d.Keys) == 0 {
		return fmt.Errorf("entity definition %q: at least one key field is required", d.Kind)
	}
	seen := make(map[string]bool)
	for _, f := range append(append([]Field{}, d.Keys...), d.Values...) {
		if f.Name == "" || reservedColumns[f.Name] || f.Name == "status" {
			return fmt.Errorf("entity definition %q: invalid field name %q", d.Kind, f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("entity definition %q: duplicate field %q", d.Kind, f.Name)
		}
		seen[f.Name] = true
	}
	for _, l := range d.Links {
		if seen[l.Key] || l.Key == "status" {
			return fmt.Errorf("entity definition %q: link key %q shadows a field", d.Kind, l.Key)
		}
	}
	return d.Statuses.Validate()
}

// New returns a record with the given key, zero-valued fields, empty
// metadata and the kind's default status.
func (d *EntityDef) New(key []any) *Entity {
	fields := make(map[string]any, len(d.Values))
	for _, f := range d.Values {
		fields[f.Name] = f.Type.Zero()
	}
	return &Entity{
		Kind:     d.Kind,
		Key:      key,
		Fields:   fields,
		Metadata: make(map[string]any),
		Status:   d.Statuses.Default,
	}
}

// Value returns the declared value field with the given name.
func (d *EntityDef) Value(name string) (Field, bool) {
	for _, f := range d.Values {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// IsKey reports whether name is one of the logical key fields.
func (d *EntityDef) IsKey(name string) bool {
	for _, f := range d.Keys {
		if f.Name == name {
			return true
		}
	}
	return false
}

// IsReserved reports whether name is a column set arguments may not target.
func (d *EntityDef) IsReserved(name string) bool {
	return reservedColumns[name]
}

// Link returns the link spec bound to a set-argument key.
func (d *EntityDef) Link(key string) (LinkSpec, bool) {
	for _, l := range d.Links {
		if l.Key == key {
			return l, true
		}
	}
	return LinkSpec{}, false
}

// ParseKey converts key parts typed by a user into typed key values. A single
// part for a composite key is split on KeySeparator.
func (d *EntityDef) ParseKey(parts ...string) ([]any, error) {
	if len(parts) == 1 && len(d.Keys) > 1 {
		parts = strings.SplitN(parts[0], KeySeparator, len(d.Keys))
	}
	if len(parts) != len(d.Keys) {
		return nil, fmt.Errorf("%w: %s needs %s", ErrInvalidKey, d.Name, d.KeyUsage())
	}
	key := make([]any, len(parts))
	for i, f := range d.Keys {
		p := strings.TrimSpace(parts[i])
		if p == "" {
			return nil, fmt.Errorf("%w: %s must not be empty", ErrInvalidKey, f.Name)
		}
		v, err := f.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		key[i] = v
	}
	return key, nil
}

// FormatKey renders a typed key, joining composite parts with KeySeparator.
func (d *EntityDef) FormatKey(key []any) string {
	parts := make([]string, len(key))
	for i, v := range key {
		f := Field{}
		if i < len(d.Keys) {
			f = d.Keys[i]
		}
		parts[i] = f.Format(v)
	}
	return strings.Join(parts, KeySeparator)
}

// KeyUsage renders the key fields for usage lines: "<story> <number>".
func (d *EntityDef) KeyUsage() string {
	parts := make([]string, len(d.Keys))
	for i, f := range d.Keys {
		parts[i] = "<" + f.Name + ">"
	}
	return strings.Join(parts, " ")
}

// Flatten renders a record as one flat map keyed by column name, the shape
// used for JSON output and export.
func (d *EntityDef) Flatten(e *Entity) map[string]any {
	out := make(map[string]any, len(d.Keys)+len(d.Values)+4)
	out["id"] = e.ID
	for i, f := range d.Keys {
		if i < len(e.Key) {
			out[f.Name] = e.Key[i]
		}
	}
	for _, f := range d.Values {
		out[f.Name] = e.Fields[f.Name]
	}
	meta := make(map[string]any, len(e.Metadata))
	maps.Copy(meta, e.Metadata)
	out["metadata"] = meta
	out["created_at"] = e.CreatedAt
	out["status"] = string(e.Status)
	return out
}
