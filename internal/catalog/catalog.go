// Package catalog declares the entity kinds of a world and the relation
// pairs between them. Every other layer looks definitions up here; adding a
// kind means adding a definition, not a store.
package catalog

import (
	"fmt"

	"github.com/mesh-intelligence/narrata/pkg/types"
)

// Entity kinds.
const (
	KindCharacter types.Kind = "character"
	KindLocation  types.Kind = "location"
	KindFaction   types.Kind = "faction"
	KindEvent     types.Kind = "event"
	KindSystem    types.Kind = "system"
	KindRace      types.Kind = "race"
	KindStory     types.Kind = "story"
	KindEpisode   types.Kind = "episode"
)

var (
	entities     []*types.EntityDef
	entityByKind map[types.Kind]*types.EntityDef
	relations    []*types.RelationDef
	relByTable   map[string]*types.RelationDef
)

func init() {
	entities = []*types.EntityDef{
		characterDef, locationDef, factionDef, eventDef,
		systemDef, raceDef, storyDef, episodeDef,
	}
	relations = relationDefs

	entityByKind = make(map[types.Kind]*types.EntityDef, len(entities))
	for _, d := range entities {
		entityByKind[d.Kind] = d
	}
	relByTable = make(map[string]*types.RelationDef, len(relations))
	for _, r := range relations {
		relByTable[r.Table] = r
	}
}

// Entities returns every entity definition in declaration order.
func Entities() []*types.EntityDef { return entities }

// Relations returns every relation definition in declaration order.
func Relations() []*types.RelationDef { return relations }

// Entity returns the definition of kind.
func Entity(kind types.Kind) (*types.EntityDef, error) {
	d, ok := entityByKind[kind]
	if !ok {
		return nil, fmt.Errorf("%w %q", types.ErrUnknownKind, kind)
	}
	return d, nil
}

// Relation returns the definition stored in table.
func Relation(table string) (*types.RelationDef, error) {
	r, ok := relByTable[table]
	if !ok {
		return nil, fmt.Errorf("%w %q", types.ErrUnknownRelation, table)
	}
	return r, nil
}

// RelationsOf returns the relations with kind at either endpoint.
func RelationsOf(kind types.Kind) []*types.RelationDef {
	var out []*types.RelationDef
	for _, r := range relations {
		if r.From == kind || r.To == kind {
			out = append(out, r)
		}
	}
	return out
}

// Validate checks every definition and every link for consistency: each link
// must name a known relation whose owning endpoint is the linking kind.
func Validate() error {
	for _, d := range entities {
		if err := d.Validate(); err != nil {
			return err
		}
		for _, f := range d.Keys {
			if f.Ref != "" {
				if _, ok := entityByKind[f.Ref]; !ok {
					return fmt.Errorf("%s key %s: %w %q", d.Kind, f.Name, types.ErrUnknownKind, f.Ref)
				}
			}
		}
		for _, l := range d.Links {
			r, ok := relByTable[l.Relation]
			if !ok {
				return fmt.Errorf("%s link %s: %w %q", d.Kind, l.Key, types.ErrUnknownRelation, l.Relation)
			}
			owner, target := r.From, r.To
			if l.Reverse {
				owner, target = r.To, r.From
			}
			if owner != d.Kind || string(target) != l.Key {
				return fmt.Errorf("%s link %s: relation %s joins %s to %s", d.Kind, l.Key, r.Table, r.From, r.To)
			}
		}
	}
	for _, r := range relations {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, ok := entityByKind[r.From]; !ok {
			return fmt.Errorf("relation %s: %w %q", r.Table, types.ErrUnknownKind, r.From)
		}
		if _, ok := entityByKind[r.To]; !ok {
			return fmt.Errorf("relation %s: %w %q", r.Table, types.ErrUnknownKind, r.To)
		}
	}
	return nil
}
