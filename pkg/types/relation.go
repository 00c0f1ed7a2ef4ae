package types

import (
	"fmt"
	"time"
)

// WriteMode selects how the field router writes an edge.
type WriteMode int

const (
	// WriteUpsert re-links an existing pair by updating its attribute.
	WriteUpsert WriteMode = iota
	// WriteAppend creates the edge and fails if the pair already exists.
	WriteAppend
)

// RelationDef describes the edges between one ordered pair of kinds.
type RelationDef struct {
	Table   string
	From    Kind
	To      Kind
	Attrs   []string // attribute columns; Attrs[0] is set by the inline notation
	Default string   // value of Attrs[0] when the notation omits it
	Mode    WriteMode
}

// Relation is one edge. Both endpoints are surrogate ids.
type Relation struct {
	FromID    int64
	ToID      int64
	Attrs     map[string]string
	CreatedAt time.Time
}

// UpsertResult reports which branch an upsert took.
type UpsertResult int

// Upsert outcomes.
const (
	Created UpsertResult = iota
	Updated
)

func (r UpsertResult) String() string {
	if r == Updated {
		return "updated"
	}
	return "created"
}

// Attr returns the attribute column written by the inline notation.
func (d *RelationDef) Attr() string { return d.Attrs[0] }

// Validate checks the definition for internal consistency.
func (d *RelationDef) Validate() error {
	if d.Table == "" || d.From == "" || d.To == "" {
		return fmt.Errorf("relation definition %q: table and both kinds are required", d.Table)
	}
	if len(d.Attrs) == 0 {
		return fmt.Errorf("relation definition %q: at least one attribute is required", d.Table)
	}
	if d.Default == "" {
		return fmt.Errorf("relation definition %q: default attribute is required", d.Table)
	}
	for _, a := range d.Attrs {
		if a == "from_id" || a == "to_id" || a == "created_at" {
			return fmt.Errorf("relation definition %q: reserved attribute %q", d.Table, a)
		}
	}
	return nil
}

// New returns an unsaved edge. An empty attr takes the relation's default.
func (d *RelationDef) New(fromID, toID int64, attr string) *Relation {
	if attr == "" {
		attr = d.Default
	}
	return &Relation{
		FromID: fromID,
		ToID:   toID,
		Attrs:  map[string]string{d.Attr(): attr},
	}
}
