package entity

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/narrata/internal/catalog"
	"github.com/mesh-intelligence/narrata/internal/dsl"
	"github.com/mesh-intelligence/narrata/internal/sqlite"
	"github.com/mesh-intelligence/narrata/pkg/types"
)

// Link is one edge seen from an entity.
type Link struct {
	Relation *types.RelationDef
	Outgoing bool       // the entity is the relation's From endpoint
	Kind     types.Kind // kind of the other endpoint
	Key      string     // key of the other endpoint, or a missing marker
	Attrs    map[string]string
}

// Attr returns the link's primary attribute.
func (l Link) Attr() string { return l.Attrs[l.Relation.Attr()] }

// missingKey marks an endpoint whose entity was deleted.
func missingKey(id int64) string { return fmt.Sprintf("<deleted #%d>", id) }

// Links returns every edge that touches the record, outgoing first, in
// relation declaration order.
func (s *Service) Links(kind types.Kind, key []string) ([]Link, error) {
	def, k, err := parseKey(kind, key)
	if err != nil {
		return nil, err
	}
	id, err := s.backend.Entities(def).GetIDByKey(k...)
	if err != nil {
		return nil, wrapNotFound(def, k, err)
	}

	var out, in []Link
	for _, rel := range catalog.RelationsOf(kind) {
		table := s.backend.Relations(rel)
		if rel.From == kind {
			edges, err := table.ListForEntity(id)
			if err != nil {
				return nil, err
			}
			for _, e := range edges {
				l, err := s.link(rel, true, rel.To, e.ToID, e.Attrs)
				if err != nil {
					return nil, err
				}
				out = append(out, l)
			}
		}
		if rel.To == kind {
			edges, err := table.ListForTarget(id)
			if err != nil {
				return nil, err
			}
			for _, e := range edges {
				l, err := s.link(rel, false, rel.From, e.FromID, e.Attrs)
				if err != nil {
					return nil, err
				}
				in = append(in, l)
			}
		}
	}
	return append(out, in...), nil
}

func (s *Service) link(rel *types.RelationDef, outgoing bool, kind types.Kind, id int64, attrs map[string]string) (Link, error) {
	def, err := catalog.Entity(kind)
	if err != nil {
		return Link{}, err
	}
	l := Link{Relation: rel, Outgoing: outgoing, Kind: kind, Attrs: attrs}
	e, err := s.backend.Entities(def).Get(id)
	switch {
	case errors.Is(err, types.ErrNotFound):
		l.Key = missingKey(id)
	case err != nil:
		return Link{}, err
	default:
		l.Key = def.FormatKey(e.Key)
	}
	return l, nil
}

// Unlink removes the edges named by relation arguments, written in the same
// notation as create and update. Attributes are ignored. Every edge must
// exist; otherwise nothing is removed.
func (s *Service) Unlink(kind types.Kind, key []string, rawArgs []string) ([]dsl.Edge, error) {
	def, k, err := parseKey(kind, key)
	if err != nil {
		return nil, err
	}
	args, err := dsl.ParseSetArgs(rawArgs)
	if err != nil {
		return nil, err
	}
	regular, links := dsl.Partition(def, args)
	if len(regular) > 0 {
		return nil, fmt.Errorf("%w: %s cannot link to %q", types.ErrInvalidSetArg, def.Name, regular[0].Key)
	}

	var edges []dsl.Edge
	err = s.backend.Update(func(tx *sqlite.Tx) error {
		owner := def.New(k)
		id, err := tx.Entities(def).GetIDByKey(k...)
		if err != nil {
			return wrapNotFound(def, k, err)
		}
		owner.ID = id

		edges, err = dsl.Plan(def, owner, links, dsl.NewResolver(tx))
		if err != nil {
			return err
		}
		for _, e := range edges {
			if err := tx.Relations(e.Relation).Delete(e.FromID, e.ToID); err != nil {
				return fmt.Errorf("%s '%s': %w", e.Key, e.Target, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("relations removed", "kind", def.Kind, "key", def.FormatKey(k), "edges", len(edges))
	return edges, nil
}
