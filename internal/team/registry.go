package team

import (
	"github.com/baseball-sim/sim-core/internal/buff"
	"github.com/baseball-sim/sim-core/internal/pak"
)

// Tag is the closed set of league teams. Team state carries the opaque
// wire id; the Tag is what the buff tables key on.
type Tag int

const (
	TagUnknown Tag = iota
	Lovers
	Tacos
	Steaks
	BreathMints
	Firefighters
	ShoeThieves
	Flowers
	Fridays
	Magic
	Millennials
	Crabs
	Spies
	Pies
	Sunbeams
	WildWings
	Tigers
	MoistTalkers
	Dale
	Garages
	JazzHands
	Lift
)

var tagNames = map[Tag]string{
	Lovers: "LOVERS", Tacos: "TACOS", Steaks: "STEAKS",
	BreathMints: "BREATH_MINTS", Firefighters: "FIREFIGHTERS",
	ShoeThieves: "SHOE_THIEVES", Flowers: "FLOWERS", Fridays: "FRIDAYS",
	Magic: "MAGIC", Millennials: "MILLENNIALS", Crabs: "CRABS",
	Spies: "SPIES", Pies: "PIES", Sunbeams: "SUNBEAMS",
	WildWings: "WILD_WINGS", Tigers: "TIGERS", MoistTalkers: "MOIST_TALKERS",
	Dale: "DALE", Garages: "GARAGES", JazzHands: "JAZZ_HANDS", Lift: "LIFT",
}

// tagByWireID maps the stable opaque team ids used by the schedule and
// stlat snapshot files onto their Tag.
var tagByWireID = map[string]Tag{
	"b72f3061-f573-40d7-832a-5ad475bd7909": Lovers,
	"878c1bf6-0d21-4659-bfee-916c8314d69c": Tacos,
	"b024e975-1c4a-4575-8936-a3754a08806a": Steaks,
	"adc5b394-8f76-416d-9ce9-813706877b84": BreathMints,
	"ca3f1c8c-c025-4d8e-8eef-5be6accbeb16": Firefighters,
	"bfd38797-8404-4b38-8b82-341da28b1f83": ShoeThieves,
	"3f8bbb15-61c0-4e3f-8e4a-907a5fb1565e": Flowers,
	"979aee4a-6d80-4863-bf1c-ee1a78e06024": Fridays,
	"7966eb04-efcc-499b-8f03-d13916330531": Magic,
	"36569151-a2fb-43c1-9df7-2df512424c82": Millennials,
	"8d87c468-699a-47a8-b40d-cfb73a5660ad": Crabs,
	"9debc64f-74b7-4ae1-a4d6-fce0144b6ea5": Spies,
	"23e4cbc1-e9cd-47fa-a35b-bfa06f726cb7": Pies,
	"f02aeae2-5e6a-4098-9842-02d2273f25c7": Sunbeams,
	"57ec08cc-0411-4643-b304-0e80dbc15ac7": WildWings,
	"747b8e4a-7e50-4638-a973-ea7950a3e739": Tigers,
	"eb67ae5e-c4bf-46ca-bbbc-425cd34182ff": MoistTalkers,
	"b63be8c2-576a-4d6e-8daf-814f8bcea96f": Dale,
	"105bc3ff-1320-4e37-8ef0-8d595cb95dd0": Garages,
	"a37f9158-7f82-46bc-908c-c9e2dda7c33b": JazzHands,
	"c73b705c-40ad-4633-a6ed-d357ee2e2bcf": Lift,
}

var tagByName = func() map[string]Tag {
	m := make(map[string]Tag, len(tagNames))
	for k, v := range tagNames {
		m[v] = k
	}
	return m
}()

func (t Tag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// ResolveTag resolves either a wire id or a canonical team name into a
// Tag. Unknown teams resolve to TagUnknown and simply carry no team buffs.
func ResolveTag(idOrName string) (Tag, bool) {
	if t, ok := tagByWireID[idOrName]; ok {
		return t, true
	}
	if t, ok := tagByName[idOrName]; ok {
		return t, true
	}
	return TagUnknown, false
}

// pitchEventByTag maps each team to its at-most-one pitch-event buff,
// gated on a season window and a required blood type.
var pitchEventByTag = map[Tag]buff.PitchEvent{
	Flowers:  {Kind: buff.ONo, StartSeason: 11, RequiredBlood: pak.BloodONo},
	Lovers:   {Kind: buff.Charm, StartSeason: 10, RequiredBlood: pak.BloodLove},
	Dale:     {Kind: buff.Zap, StartSeason: 8, RequiredBlood: pak.BloodElectric},
	Sunbeams: {Kind: buff.BaseInstincts, StartSeason: 9, RequiredBlood: pak.BloodBase},
	Spies:    {Kind: buff.Psychic, StartSeason: 12, RequiredBlood: pak.BloodPsychic},
}

// additiveAssignment is one team's season-gated team-wide additive.
type additiveAssignment struct {
	Kind        buff.TeamAdditiveKind
	StartSeason int
}

var additiveByTag = map[Tag]additiveAssignment{
	Pies:         {Kind: buff.Crows, StartSeason: 12},
	MoistTalkers: {Kind: buff.TeamPressure, StartSeason: 14},
	ShoeThieves:  {Kind: buff.Travelling, StartSeason: 12},
	Crabs:        {Kind: buff.Growth, StartSeason: 13},
	Fridays:      {Kind: buff.SinkingShip, StartSeason: 14},
}

// peakWindow is the (season, day) window during which a team carries the
// flat all-axes PEAK_SEASON additive.
type peakWindow struct {
	StartSeason, EndSeason int
	StartDay, EndDay       int
}

var peakWindowByTag = map[Tag]peakWindow{
	Tacos: {StartSeason: 13, EndSeason: 13, StartDay: 27, EndDay: 72},
}

// seasonalRulesByTag maps (team, exact season) to the rule changes active
// that season, reapplied on every team reset.
var seasonalRulesByTag = map[Tag]map[int][]buff.SeasonalRule{
	WildWings: {12: {buff.FourthStrike}, 13: {buff.FourthStrike}},
	Flowers:   {13: {buff.WalkInThePark}},
	Tigers:    {12: {buff.Fiery}, 13: {buff.Fiery}, 14: {buff.Fiery}},
}

// ApplyTraits attaches a team's pitch event, team-wide additives and
// seasonal rule changes based on its Tag and the state's season/day,
// called once at team-state construction time; gates that also depend on
// in-game conditions (weather, runners aboard) are evaluated later by
// TeamAdditive at every recomputation.
func (t *State) ApplyTraits(tag Tag) {
	if event, ok := pitchEventByTag[tag]; ok {
		e := event
		t.PitchEvent = &e
	}
	if a, ok := additiveByTag[tag]; ok && t.Season >= a.StartSeason {
		t.Additives[a.Kind] = true
	}
	if w, ok := peakWindowByTag[tag]; ok {
		if w.StartSeason <= t.Season && t.Season <= w.EndSeason &&
			w.StartDay <= t.Day && t.Day <= w.EndDay {
			t.Additives[buff.PeakSeason] = true
			t.InPeakWindow = true
		}
	}
	if bySeason, ok := seasonalRulesByTag[tag]; ok {
		if rules, ok := bySeason[t.Season]; ok {
			t.SeasonalRules = append(t.SeasonalRules, rules...)
		}
	}
}
