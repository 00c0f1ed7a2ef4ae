package catalog

import "github.com/mesh-intelligence/narrata/pkg/types"

// Status variants. Each kind's StatusSet names its default explicitly.
const (
	StatusActive     types.Status = "Active"
	StatusDeceased   types.Status = "Deceased"
	StatusMissing    types.Status = "Missing"
	StatusRetired    types.Status = "Retired"
	StatusAbandoned  types.Status = "Abandoned"
	StatusDestroyed  types.Status = "Destroyed"
	StatusHidden     types.Status = "Hidden"
	StatusDormant    types.Status = "Dormant"
	StatusDisbanded  types.Status = "Disbanded"
	StatusHistorical types.Status = "Historical"
	StatusOngoing    types.Status = "Ongoing"
	StatusPlanned    types.Status = "Planned"
	StatusLegendary  types.Status = "Legendary"
	StatusForgotten  types.Status = "Forgotten"
	StatusForbidden  types.Status = "Forbidden"
	StatusExtant     types.Status = "Extant"
	StatusEndangered types.Status = "Endangered"
	StatusExtinct    types.Status = "Extinct"
	StatusMythical   types.Status = "Mythical"
	StatusPlanning   types.Status = "Planning"
	StatusDrafting   types.Status = "Drafting"
	StatusRevising   types.Status = "Revising"
	StatusComplete   types.Status = "Complete"
	StatusDraft      types.Status = "Draft"
	StatusRevised    types.Status = "Revised"
	StatusFinal      types.Status = "Final"
	StatusPublished  types.Status = "Published"
)

var characterDef = &types.EntityDef{
	Kind:  KindCharacter,
	Name:  "Character",
	Table: "characters",
	Keys:  []types.Field{types.Text("name")},
	Values: []types.Field{
		types.Text("alias"),
		types.Integer("age"),
		types.Text("description"),
	},
	Statuses: types.StatusSet{
		Default:  StatusActive,
		Variants: []types.Status{StatusActive, StatusDeceased, StatusMissing, StatusRetired},
	},
	Links: []types.LinkSpec{
		{Key: "location", Relation: "character_locations"},
		{Key: "faction", Relation: "character_factions"},
		{Key: "race", Relation: "character_races"},
		{Key: "system", Relation: "character_systems"},
		{Key: "episode", Relation: "character_episodes"},
	},
}

var locationDef = &types.EntityDef{
	Kind:  KindLocation,
	Name:  "Location",
	Table: "locations",
	Keys:  []types.Field{types.Text("name")},
	Values: []types.Field{
		types.Text("kind"),
		types.Text("climate"),
		types.Integer("population"),
		types.Text("description"),
	},
	Statuses: types.StatusSet{
		Default:  StatusActive,
		Variants: []types.Status{StatusActive, StatusAbandoned, StatusDestroyed, StatusHidden},
	},
	Links: []types.LinkSpec{
		{Key: "location", Relation: "location_neighbors"},
		{Key: "faction", Relation: "location_factions"},
	},
}

var factionDef = &types.EntityDef{
	Kind:  KindFaction,
	Name:  "Faction",
	Table: "factions",
	Keys:  []types.Field{types.Text("name")},
	Values: []types.Field{
		types.Text("kind"),
		types.Text("ideology"),
		types.Text("description"),
	},
	Statuses: types.StatusSet{
		Default:  StatusActive,
		Variants: []types.Status{StatusActive, StatusDormant, StatusDisbanded, StatusDestroyed},
	},
	Links: []types.LinkSpec{
		{Key: "faction", Relation: "faction_factions"},
		{Key: "character", Relation: "character_factions", Reverse: true},
		{Key: "location", Relation: "location_factions", Reverse: true},
	},
}

var eventDef = &types.EntityDef{
	Kind:  KindEvent,
	Name:  "Event",
	Table: "events",
	Keys:  []types.Field{types.Text("name")},
	Values: []types.Field{
		types.Text("date"),
		types.Integer("sort_key"),
		types.Text("description"),
	},
	Statuses: types.StatusSet{
		Default:  StatusHistorical,
		Variants: []types.Status{StatusHistorical, StatusOngoing, StatusPlanned, StatusLegendary},
	},
	Links: []types.LinkSpec{
		{Key: "character", Relation: "event_characters"},
		{Key: "faction", Relation: "event_factions"},
		{Key: "location", Relation: "event_locations"},
	},
}

var systemDef = &types.EntityDef{
	Kind:  KindSystem,
	Name:  "System",
	Table: "systems",
	Keys:  []types.Field{types.Text("name")},
	Values: []types.Field{
		types.Text("kind"),
		types.Text("source"),
		types.Text("cost"),
		types.Text("description"),
	},
	Statuses: types.StatusSet{
		Default:  StatusActive,
		Variants: []types.Status{StatusActive, StatusForgotten, StatusForbidden},
	},
	Links: []types.LinkSpec{
		{Key: "character", Relation: "character_systems", Reverse: true},
		{Key: "race", Relation: "race_systems", Reverse: true},
	},
}

var raceDef = &types.EntityDef{
	Kind:  KindRace,
	Name:  "Race",
	Table: "races",
	Keys:  []types.Field{types.Text("name")},
	Values: []types.Field{
		types.Integer("lifespan"),
		types.Text("homeland"),
		types.Text("description"),
	},
	Statuses: types.StatusSet{
		Default:  StatusExtant,
		Variants: []types.Status{StatusExtant, StatusEndangered, StatusExtinct, StatusMythical},
	},
	Links: []types.LinkSpec{
		{Key: "system", Relation: "race_systems"},
		{Key: "location", Relation: "race_locations"},
		{Key: "character", Relation: "character_races", Reverse: true},
	},
}

var storyDef = &types.EntityDef{
	Kind:  KindStory,
	Name:  "Story",
	Table: "stories",
	Keys:  []types.Field{types.Text("name")},
	Values: []types.Field{
		types.Text("title"),
		types.Text("genre"),
		types.Text("summary"),
	},
	Statuses: types.StatusSet{
		Default:  StatusPlanning,
		Variants: []types.Status{StatusPlanning, StatusDrafting, StatusRevising, StatusComplete},
	},
}

var episodeDef = &types.EntityDef{
	Kind:  KindEpisode,
	Name:  "Episode",
	Table: "episodes",
	Keys: []types.Field{
		{Name: "story", Type: types.FieldText, Ref: KindStory},
		types.Integer("number"),
	},
	Values: []types.Field{
		types.Text("title"),
		types.Integer("word_count"),
		types.Text("summary"),
	},
	Statuses: types.StatusSet{
		Default:  StatusDraft,
		Variants: []types.Status{StatusDraft, StatusRevised, StatusFinal, StatusPublished},
	},
	Links: []types.LinkSpec{
		{Key: "event", Relation: "episode_events"},
		{Key: "location", Relation: "episode_locations"},
		{Key: "character", Relation: "character_episodes", Reverse: true},
	},
}
