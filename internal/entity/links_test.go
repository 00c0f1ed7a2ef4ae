package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/narrata/internal/catalog"
	"github.com/mesh-intelligence/narrata/pkg/types"
)

func TestLinks(t *testing.T) {
	s, _ := setupService(t)
	mustCreate(t, s, catalog.KindLocation, []string{"rivendell"})
	mustCreate(t, s, catalog.KindLocation, []string{"bree"})
	mustCreate(t, s, catalog.KindFaction, []string{"dunedain"}, "location=rivendell")
	mustCreate(t, s, catalog.KindCharacter, []string{"aragorn"}, "location=bree*ranger", "faction=dunedain*chieftain")
	mustCreate(t, s, catalog.KindLocation, []string{"weathertop"}, "location=bree")

	links, err := s.Links(catalog.KindLocation, []string{"bree"})
	require.NoError(t, err)
	require.Len(t, links, 2)

	assert.False(t, links[0].Outgoing)
	assert.Equal(t, catalog.KindCharacter, links[0].Kind)
	assert.Equal(t, "aragorn", links[0].Key)
	assert.Equal(t, "ranger", links[0].Attr())

	assert.False(t, links[1].Outgoing)
	assert.Equal(t, "location_neighbors", links[1].Relation.Table)
	assert.Equal(t, "weathertop", links[1].Key)
	assert.Equal(t, "neighbor", links[1].Attr())

	links, err = s.Links(catalog.KindFaction, []string{"dunedain"})
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "character_factions", links[0].Relation.Table)
	assert.Equal(t, "aragorn", links[0].Key)
	assert.Equal(t, "chieftain", links[0].Attr())
	assert.Equal(t, "location_factions", links[1].Relation.Table)
	assert.Equal(t, "rivendell", links[1].Key)
	assert.Equal(t, "controlled", links[1].Attr())
}

func TestLinksMarksDeletedEndpoints(t *testing.T) {
	s, _ := setupService(t)
	mustCreate(t, s, catalog.KindFaction, []string{"fellowship"})
	boromir := mustCreate(t, s, catalog.KindCharacter, []string{"boromir"}, "faction=fellowship")
	require.NoError(t, s.Delete(catalog.KindCharacter, []string{"boromir"}, true))

	links, err := s.Links(catalog.KindFaction, []string{"fellowship"})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, missingKey(boromir.Entity.ID), links[0].Key)

	_, err = s.Links(catalog.KindCharacter, []string{"boromir"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestUnlink(t *testing.T) {
	s, b := setupService(t)
	mustCreate(t, s, catalog.KindFaction, []string{"fellowship"})
	mustCreate(t, s, catalog.KindFaction, []string{"gondor"})
	mustCreate(t, s, catalog.KindCharacter, []string{"boromir"}, "faction=fellowship,gondor*captain")

	edges, err := s.Unlink(catalog.KindCharacter, []string{"boromir"}, []string{"faction=fellowship*ignored"})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "fellowship", edges[0].Target)
	assert.Equal(t, 1, countEdges(t, b, "character_factions"))

	_, err = s.Unlink(catalog.KindCharacter, []string{"boromir"}, []string{"faction=gondor,fellowship"})
	require.ErrorIs(t, err, types.ErrNoRelation)
	assert.Equal(t, 1, countEdges(t, b, "character_factions"))

	_, err = s.Unlink(catalog.KindCharacter, []string{"boromir"}, []string{"age=41"})
	assert.ErrorIs(t, err, types.ErrInvalidSetArg)
}

func TestUnlinkReverse(t *testing.T) {
	s, b := setupService(t)
	mustCreate(t, s, catalog.KindCharacter, []string{"frodo"})
	mustCreate(t, s, catalog.KindFaction, []string{"fellowship"}, "character=frodo*ring-bearer")
	assert.Equal(t, 1, countEdges(t, b, "character_factions"))

	_, err := s.Unlink(catalog.KindFaction, []string{"fellowship"}, []string{"character=frodo"})
	require.NoError(t, err)
	assert.Zero(t, countEdges(t, b, "character_factions"))
}
