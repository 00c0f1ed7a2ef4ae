package dsl

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/narrata/internal/catalog"
	"github.com/mesh-intelligence/narrata/internal/sqlite"
	"github.com/mesh-intelligence/narrata/pkg/types"
)

func openBackend(t *testing.T) *sqlite.Backend {
	t.Helper()
	b, err := sqlite.Open(filepath.Join(t.TempDir(), "world.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	require.NoError(t, b.Init(catalog.Entities(), catalog.Relations()))
	return b
}

func create(t *testing.T, b *sqlite.Backend, kind types.Kind, key ...string) *types.Entity {
	t.Helper()
	def, err := catalog.Entity(kind)
	require.NoError(t, err)
	k, err := def.ParseKey(key...)
	require.NoError(t, err)
	e := def.New(k)
	e.ID, err = b.Entities(def).Insert(e)
	require.NoError(t, err)
	return e
}

func relation(t *testing.T, table string) *types.RelationDef {
	t.Helper()
	r, err := catalog.Relation(table)
	require.NoError(t, err)
	return r
}

func TestResolveID(t *testing.T) {
	b := openBackend(t)
	fac := create(t, b, catalog.KindFaction, "fellowship")
	ep := create(t, b, catalog.KindEpisode, "saga", "3")
	r := NewResolver(b)

	id, err := r.ResolveID(catalog.KindFaction, "fellowship")
	require.NoError(t, err)
	assert.Equal(t, fac.ID, id)

	id, err = r.ResolveID(catalog.KindEpisode, "saga:3")
	require.NoError(t, err)
	assert.Equal(t, ep.ID, id)

	_, err = r.ResolveID(catalog.KindFaction, "rohirrim")
	require.ErrorIs(t, err, types.ErrNotFound)
	assert.EqualError(t, err, "Faction not found: 'rohirrim'. Create it first with: narrata faction create rohirrim")

	_, err = r.ResolveID(catalog.KindEpisode, "saga:x")
	assert.ErrorIs(t, err, types.ErrInvalidKey)
}

func TestCreateHint(t *testing.T) {
	ep, err := catalog.Entity(catalog.KindEpisode)
	require.NoError(t, err)
	assert.Equal(t, "narrata episode create saga 3", CreateHint(ep, "saga:3"))

	loc, err := catalog.Entity(catalog.KindLocation)
	require.NoError(t, err)
	assert.Equal(t, `narrata location create "minas tirith"`, CreateHint(loc, "minas tirith"))
}

func TestPlanAndApply(t *testing.T) {
	b := openBackend(t)
	def, err := catalog.Entity(catalog.KindCharacter)
	require.NoError(t, err)
	aragorn := create(t, b, catalog.KindCharacter, "aragorn")
	fellowship := create(t, b, catalog.KindFaction, "fellowship")
	dunedain := create(t, b, catalog.KindFaction, "dunedain")
	bree := create(t, b, catalog.KindLocation, "bree")

	pairs := []SetArg{
		{"faction", "fellowship*leader,dunedain,"},
		{"location", "bree"},
	}
	edges, err := Plan(def, aragorn, pairs, NewResolver(b))
	require.NoError(t, err)
	require.Len(t, edges, 3)

	report, err := Apply(b, edges)
	require.NoError(t, err)
	assert.Equal(t, []string{"faction", "location"}, report.Keys)
	assert.Equal(t, []string{
		"  faction 'fellowship' (role=leader): created",
		"  faction 'dunedain' (role=member): created",
		"  location 'bree' (relationship=resident): created",
		"Processed relations: faction, location",
	}, report.Lines())

	factions := b.Relations(relation(t, "character_factions"))
	got, err := factions.Get(aragorn.ID, fellowship.ID)
	require.NoError(t, err)
	assert.Equal(t, "leader", got.Attrs["role"])
	got, err = factions.Get(aragorn.ID, dunedain.ID)
	require.NoError(t, err)
	assert.Equal(t, "member", got.Attrs["role"])

	exists, err := b.Relations(relation(t, "character_locations")).Exists(aragorn.ID, bree.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestApplyUpsertIsIdempotent(t *testing.T) {
	b := openBackend(t)
	def, err := catalog.Entity(catalog.KindCharacter)
	require.NoError(t, err)
	owner := create(t, b, catalog.KindCharacter, "gandalf")
	create(t, b, catalog.KindSystem, "flame-of-anor")

	run := func(value string) *Report {
		edges, err := Plan(def, owner, []SetArg{{"system", value}}, NewResolver(b))
		require.NoError(t, err)
		report, err := Apply(b, edges)
		require.NoError(t, err)
		return report
	}

	first := run("flame-of-anor*wields")
	assert.Equal(t, types.Created, first.Outcomes[0].Result)
	second := run("flame-of-anor*commands")
	assert.Equal(t, types.Updated, second.Outcomes[0].Result)
	assert.Contains(t, second.Lines()[0], "updated")

	edges, err := b.Relations(relation(t, "character_systems")).ListForEntity(owner.ID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "commands", edges[0].Attrs["usage"])
}

func TestApplyAppendRejectsRelink(t *testing.T) {
	b := openBackend(t)
	def, err := catalog.Entity(catalog.KindEvent)
	require.NoError(t, err)
	battle := create(t, b, catalog.KindEvent, "pelennor")
	create(t, b, catalog.KindCharacter, "eowyn")

	pairs := []SetArg{{"character", "eowyn*slayer"}}
	edges, err := Plan(def, battle, pairs, NewResolver(b))
	require.NoError(t, err)
	_, err = Apply(b, edges)
	require.NoError(t, err)

	_, err = Apply(b, edges)
	assert.ErrorIs(t, err, types.ErrRelationExists)
}

func TestPlanReverseLink(t *testing.T) {
	b := openBackend(t)
	def, err := catalog.Entity(catalog.KindFaction)
	require.NoError(t, err)
	fellowship := create(t, b, catalog.KindFaction, "fellowship")
	frodo := create(t, b, catalog.KindCharacter, "frodo")

	edges, err := Plan(def, fellowship, []SetArg{{"character", "frodo*ring-bearer"}}, NewResolver(b))
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, frodo.ID, edges[0].FromID)
	assert.Equal(t, fellowship.ID, edges[0].ToID)
	assert.Equal(t, "character_factions", edges[0].Relation.Table)
}

func TestPlanFailsBeforeWriting(t *testing.T) {
	b := openBackend(t)
	def, err := catalog.Entity(catalog.KindCharacter)
	require.NoError(t, err)
	owner := create(t, b, catalog.KindCharacter, "pippin")
	create(t, b, catalog.KindFaction, "guard")

	_, err = Plan(def, owner, []SetArg{{"faction", "guard,ents"}}, NewResolver(b))
	var notFound *types.TargetNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "ents", notFound.Key)

	edges, err := b.Relations(relation(t, "character_factions")).All()
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestPlanRejectsMissingTarget(t *testing.T) {
	b := openBackend(t)
	def, err := catalog.Entity(catalog.KindCharacter)
	require.NoError(t, err)
	owner := create(t, b, catalog.KindCharacter, "pippin")
	create(t, b, catalog.KindFaction, "guard")

	_, err = Plan(def, owner, []SetArg{{"faction", "guard,*captain"}}, NewResolver(b))
	require.ErrorIs(t, err, types.ErrInvalidSetArg)
	assert.Contains(t, err.Error(), "faction:")
}

func TestPlanResolvesOwnerByKey(t *testing.T) {
	b := openBackend(t)
	def, err := catalog.Entity(catalog.KindCharacter)
	require.NoError(t, err)
	stored := create(t, b, catalog.KindCharacter, "merry")
	create(t, b, catalog.KindRace, "hobbits")

	unsaved := def.New([]any{"merry"})
	edges, err := Plan(def, unsaved, []SetArg{{"race", "hobbits"}}, NewResolver(b))
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, stored.ID, edges[0].FromID)
}

func TestPlanRejectsUnlinkableKey(t *testing.T) {
	b := openBackend(t)
	def, err := catalog.Entity(catalog.KindStory)
	require.NoError(t, err)
	owner := create(t, b, catalog.KindStory, "saga")

	_, err = Plan(def, owner, []SetArg{{"faction", "x"}}, NewResolver(b))
	assert.ErrorIs(t, err, types.ErrInvalidSetArg)
}
