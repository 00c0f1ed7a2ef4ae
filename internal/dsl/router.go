package dsl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/narrata/internal/catalog"
	"github.com/mesh-intelligence/narrata/internal/sqlite"
	"github.com/mesh-intelligence/narrata/pkg/types"
)

// Resolver maps a kind and a logical key, as typed by a user, to the
// entity's surrogate id. Every edge endpoint goes through it.
type Resolver interface {
	ResolveID(kind types.Kind, key string) (int64, error)
}

// NewResolver returns a Resolver reading from store.
func NewResolver(store sqlite.Store) Resolver {
	return storeResolver{store: store}
}

type storeResolver struct {
	store sqlite.Store
}

func (r storeResolver) ResolveID(kind types.Kind, key string) (int64, error) {
	def, err := catalog.Entity(kind)
	if err != nil {
		return 0, err
	}
	k, err := def.ParseKey(key)
	if err != nil {
		return 0, err
	}
	id, err := r.store.Entities(def).GetIDByKey(k...)
	if errors.Is(err, types.ErrNotFound) {
		return 0, &types.TargetNotFoundError{Name: def.Name, Key: key, Hint: CreateHint(def, key)}
	}
	return id, err
}

// CreateHint returns the command that would create the entity.
func CreateHint(def *types.EntityDef, key string) string {
	parts := []string{key}
	if len(def.Keys) > 1 {
		parts = strings.SplitN(key, types.KeySeparator, len(def.Keys))
	}
	for i, p := range parts {
		if strings.ContainsAny(p, " \t'\"") {
			parts[i] = strconv.Quote(p)
		}
	}
	return fmt.Sprintf("narrata %s create %s", def.Kind, strings.Join(parts, " "))
}

// Edge is one resolved relation write.
type Edge struct {
	Key      string // set-argument key that produced the edge
	Relation *types.RelationDef
	Target   string // target key as typed
	FromID   int64
	ToID     int64
	Attr     string // empty means the relation's default
}

// Plan resolves every segment of the relation pairs into edges owned by
// owner. All targets are resolved before anything is written, so a missing
// target fails the whole plan. An owner without an id is resolved by key.
func Plan(def *types.EntityDef, owner *types.Entity, pairs []SetArg, r Resolver) ([]Edge, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	ownerID := owner.ID
	if ownerID == 0 {
		id, err := r.ResolveID(def.Kind, def.FormatKey(owner.Key))
		if err != nil {
			return nil, err
		}
		ownerID = id
	}

	var edges []Edge
	for _, p := range pairs {
		spec, ok := def.Link(p.Key)
		if !ok {
			return nil, fmt.Errorf("%w: %s cannot link to %q", types.ErrInvalidSetArg, def.Name, p.Key)
		}
		rel, err := catalog.Relation(spec.Relation)
		if err != nil {
			return nil, err
		}
		targetKind := rel.To
		if spec.Reverse {
			targetKind = rel.From
		}

		segs, err := ParseValue(p.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Key, err)
		}
		for _, seg := range segs {
			targetID, err := r.ResolveID(targetKind, seg.Target)
			if err != nil {
				return nil, err
			}
			from, to := ownerID, targetID
			if spec.Reverse {
				from, to = targetID, ownerID
			}
			edges = append(edges, Edge{
				Key:      p.Key,
				Relation: rel,
				Target:   seg.Target,
				FromID:   from,
				ToID:     to,
				Attr:     seg.Attr,
			})
		}
	}
	return edges, nil
}

// Outcome is the result of writing one edge.
type Outcome struct {
	Edge   Edge
	Attr   string // attribute actually stored
	Result types.UpsertResult
}

// Report collects the outcomes of Apply.
type Report struct {
	Outcomes []Outcome
	Keys     []string // relation keys processed, in first-seen order
}

// Lines renders one confirmation line per edge and a summary line.
func (r *Report) Lines() []string {
	if r == nil || len(r.Outcomes) == 0 {
		return nil
	}
	lines := make([]string, 0, len(r.Outcomes)+1)
	for _, o := range r.Outcomes {
		lines = append(lines, fmt.Sprintf("  %s '%s' (%s=%s): %s",
			o.Edge.Key, o.Edge.Target, o.Edge.Relation.Attr(), o.Attr, o.Result))
	}
	return append(lines, "Processed relations: "+strings.Join(r.Keys, ", "))
}

// Apply writes the planned edges. Upsert relations are created or updated;
// append relations are created and fail with ErrRelationExists when the
// pair is already linked.
func Apply(store sqlite.Store, edges []Edge) (*Report, error) {
	report := &Report{}
	seen := make(map[string]bool)
	for _, e := range edges {
		table := store.Relations(e.Relation)
		rel := e.Relation.New(e.FromID, e.ToID, e.Attr)

		var (
			res types.UpsertResult
			err error
		)
		if e.Relation.Mode == types.WriteAppend {
			res, err = types.Created, table.Create(rel)
		} else {
			res, err = table.Upsert(rel)
		}
		if err != nil {
			return nil, fmt.Errorf("%s '%s': %w", e.Key, e.Target, err)
		}

		report.Outcomes = append(report.Outcomes, Outcome{Edge: e, Attr: rel.Attrs[e.Relation.Attr()], Result: res})
		if !seen[e.Key] {
			seen[e.Key] = true
			report.Keys = append(report.Keys, e.Key)
		}
	}
	return report, nil
}
