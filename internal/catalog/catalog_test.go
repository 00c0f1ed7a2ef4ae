package catalog

import (
	"testing"

	"github.com/mesh-intelligence/narrata/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	require.NoError(t, Validate())
}

func TestEntityLookup(t *testing.T) {
	d, err := Entity(KindCharacter)
	require.NoError(t, err)
	assert.Equal(t, "characters", d.Table)

	_, err = Entity("dragon")
	assert.ErrorIs(t, err, types.ErrUnknownKind)
}

func TestRelationLookup(t *testing.T) {
	r, err := Relation("character_factions")
	require.NoError(t, err)
	assert.Equal(t, KindCharacter, r.From)
	assert.Equal(t, KindFaction, r.To)

	_, err = Relation("character_dragons")
	assert.ErrorIs(t, err, types.ErrUnknownRelation)
}

func TestDefaultStatuses(t *testing.T) {
	tests := []struct {
		kind types.Kind
		want types.Status
	}{
		{KindCharacter, StatusActive},
		{KindLocation, StatusActive},
		{KindFaction, StatusActive},
		{KindSystem, StatusActive},
		{KindEvent, StatusHistorical},
		{KindEpisode, StatusDraft},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			d, err := Entity(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Statuses.Default)
			assert.Equal(t, tt.want, d.New([]any{"x"}).Status)
		})
	}
}

func TestDefaultAttributes(t *testing.T) {
	tests := []struct {
		table string
		want  string
	}{
		{"character_factions", "member"},
		{"character_systems", "uses"},
		{"location_factions", "controlled"},
		{"location_neighbors", "neighbor"},
		{"race_systems", "has"},
		{"event_locations", "takes_place_at"},
	}
	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			r, err := Relation(tt.table)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Default)
		})
	}
}

func TestRelationsOf(t *testing.T) {
	var tables []string
	for _, r := range RelationsOf(KindStory) {
		tables = append(tables, r.Table)
	}
	assert.Empty(t, tables)

	for _, r := range RelationsOf(KindSystem) {
		tables = append(tables, r.Table)
	}
	assert.ElementsMatch(t, []string{"character_systems", "race_systems"}, tables)
}
