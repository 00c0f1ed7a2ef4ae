package catalog

import "github.com/mesh-intelligence/narrata/pkg/types"

var relationDefs = []*types.RelationDef{
	{Table: "character_locations", From: KindCharacter, To: KindLocation, Attrs: []string{"relationship", "since"}, Default: "resident"},
	{Table: "character_factions", From: KindCharacter, To: KindFaction, Attrs: []string{"role", "rank"}, Default: "member"},
	{Table: "character_races", From: KindCharacter, To: KindRace, Attrs: []string{"heritage"}, Default: "full"},
	{Table: "character_systems", From: KindCharacter, To: KindSystem, Attrs: []string{"usage", "mastery"}, Default: "uses"},
	{Table: "character_episodes", From: KindCharacter, To: KindEpisode, Attrs: []string{"appearance"}, Default: "appears"},
	{Table: "location_neighbors", From: KindLocation, To: KindLocation, Attrs: []string{"relation"}, Default: "neighbor"},
	{Table: "location_factions", From: KindLocation, To: KindFaction, Attrs: []string{"control_type"}, Default: "controlled"},
	{Table: "faction_factions", From: KindFaction, To: KindFaction, Attrs: []string{"stance"}, Default: "allied"},
	{Table: "race_systems", From: KindRace, To: KindSystem, Attrs: []string{"affinity"}, Default: "has"},
	{Table: "race_locations", From: KindRace, To: KindLocation, Attrs: []string{"presence"}, Default: "inhabits"},

	// Participation is a historical record: re-linking the same pair is an
	// error, not an update.
	{Table: "event_characters", From: KindEvent, To: KindCharacter, Attrs: []string{"role", "outcome"}, Default: "participant", Mode: types.WriteAppend},
	{Table: "event_factions", From: KindEvent, To: KindFaction, Attrs: []string{"involvement"}, Default: "involved", Mode: types.WriteAppend},

	{Table: "event_locations", From: KindEvent, To: KindLocation, Attrs: []string{"relation"}, Default: "takes_place_at"},
	{Table: "episode_events", From: KindEpisode, To: KindEvent, Attrs: []string{"coverage"}, Default: "depicts"},
	{Table: "episode_locations", From: KindEpisode, To: KindLocation, Attrs: []string{"relation"}, Default: "takes_place_at"},
}
