// Package buff implements the modifier engine: a (BuffKind -> BuffSemantics)
// table plus an ability-multiplier stack that recomputes each axis's
// product exactly from the current set of active buffs rather than by
// iterative multiply/divide. Recomputing from a snapshot on every change
// means enabling then disabling any single buff restores the prior
// multiplier exactly, not merely to within rounding.
package buff

import (
	"github.com/baseball-sim/sim-core/internal/pak"
	"github.com/baseball-sim/sim-core/internal/stadium"
	"github.com/baseball-sim/sim-core/internal/weather"
)

// Kind is the closed set of per-player buffs.
type Kind int

const (
	Shelled Kind = iota
	Elsewhere
	Spicy
	UnderOver
	OverUnder
	OverPerforming
	UnderPerforming
	Homebody
	Perk
	Chunky
	Smooth
	SuperYummy
	Pressure
	Blaserunning
	Flinch
	SwimBladder
	Ego1
	Ego2
	Wired
	Tired
	CoffeeRally
	TripleThreat
	FriendOfCrows
	Haunted
	TripleA
	DoubleA
)

var kindNames = map[Kind]string{
	Shelled: "SHELLED", Elsewhere: "ELSEWHERE", Spicy: "SPICY",
	UnderOver: "UNDER_OVER", OverUnder: "OVER_UNDER",
	OverPerforming: "OVER_PERFORMING", UnderPerforming: "UNDER_PERFORMING",
	Homebody: "HOMEBODY", Perk: "PERK", Chunky: "CHUNKY", Smooth: "SMOOTH",
	SuperYummy: "SUPER_YUMMY", Pressure: "PRESSURE", Blaserunning: "BLASERUNNING",
	Flinch: "FLINCH", SwimBladder: "SWIM_BLADDER", Ego1: "EGO1", Ego2: "EGO2",
	Wired: "WIRED", Tired: "TIRED", CoffeeRally: "COFFEE_RALLY",
	TripleThreat: "TRIPLE_THREAT", FriendOfCrows: "FRIEND_OF_CROWS", Haunted: "HAUNTED",
	TripleA: "AAA", DoubleA: "AA",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, v := range kindNames {
		m[v] = k
	}
	return m
}()

// String renders a buff Kind using its wire name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseKind resolves a wire-format buff name into a Kind, reporting ok=false for anything unrecognized.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

// Level is the integer activation level a stateful buff carries: present
// but inactive, or currently applying its multiplicative effect.
type Level int

const (
	LevelInactive Level = 1
	LevelActive   Level = 2
)

// Context is everything a buff's eligibility function may read. It is
// rebuilt fresh at every boundary point rather than threaded as mutable
// state, so evaluation is a pure function of current game conditions.
type Context struct {
	Weather       weather.Code
	Stadium       stadium.Descriptor
	IsHome        bool
	RunnersAboard bool
	TeamScore     float64 // the owning team's current score, as a float view of the fixed-point value
}

// Semantics describes how one buff kind participates in the ability
// multiplier stack: which axes it scales, by what factor, and under what
// conditions it is active at preload time versus re-evaluated dynamically
// during play.
type Semantics struct {
	Axes   []pak.Axis
	Factor float64

	// Preload reports whether the buff should start at LevelActive when a
	// team state is preloaded (nil means this buff is never set at
	// preload and starts LevelInactive).
	Preload func(ctx Context) bool

	// Dynamic reports whether the buff should be active, re-evaluated at
	// boundary points during play (nil means the buff's level never
	// changes once set at preload). current is the buff's level before
	// this evaluation, so one-way latches (OVER_PERFORMING) can consult
	// it.
	Dynamic func(ctx Context, current Level) bool
}

var allAxes = []pak.Axis{pak.AxisBatting, pak.AxisPitching, pak.AxisDefense, pak.AxisBaseRunning}

// Table is the semantics for every buff kind that participates in the
// multiplicative ability stack. SHELLED, ELSEWHERE, FLINCH, SWIM_BLADDER,
// EGO1/EGO2, WIRED/TIRED, BLASERUNNING, COFFEE_RALLY, TRIPLE_THREAT,
// FRIEND_OF_CROWS and HAUNTED are availability/event/scoring-gated rather
// than multiplier buffs and are resolved directly by the pitch/at-bat
// resolver (internal/game) instead of through this table; they are still
// listed here (with an empty Semantics) so every Kind has an entry and
// callers can distinguish "known buff, no multiplier" from "unknown buff
// kind."
var Table = map[Kind]Semantics{
	UnderOver: {
		Axes:    allAxes,
		Factor:  1.2,
		Preload: func(ctx Context) bool { return ctx.TeamScore < 5.0 },
		Dynamic: func(ctx Context, _ Level) bool { return ctx.TeamScore < 5.0 },
	},
	OverUnder: {
		Axes:    allAxes,
		Factor:  1.0 / 1.2,
		Dynamic: func(ctx Context, _ Level) bool { return ctx.TeamScore > 5.0 },
	},
	OverPerforming: {
		Axes:   allAxes,
		Factor: 1.2,
		Dynamic: func(ctx Context, current Level) bool {
			return current == LevelActive // one-way latch: never turns back off here.
		},
	},
	// AAA and AA latch on when their carrier legs out a triple or double
	// respectively (internal/game flips the level); from then on they
	// behave like OVER_PERFORMING for the rest of the game.
	TripleA: {
		Axes:   allAxes,
		Factor: 1.2,
		Dynamic: func(ctx Context, current Level) bool {
			return current == LevelActive
		},
	},
	DoubleA: {
		Axes:   allAxes,
		Factor: 1.2,
		Dynamic: func(ctx Context, current Level) bool {
			return current == LevelActive
		},
	},
	UnderPerforming: {
		Axes:    allAxes,
		Factor:  1.0 / 1.2,
		Preload: func(Context) bool { return true },
	},
	Homebody: {
		Axes:    allAxes,
		Factor:  1.2,
		Preload: func(ctx Context) bool { return ctx.IsHome },
	},
	Perk: {
		Axes:    allAxes,
		Factor:  1.2,
		Preload: func(ctx Context) bool { return ctx.Weather.IsCoffeeFamily() },
	},
	Chunky: {
		Axes:    []pak.Axis{pak.AxisBatting},
		Factor:  1.2,
		Preload: func(ctx Context) bool { return ctx.Weather == weather.Peanuts },
	},
	Smooth: {
		Axes:    []pak.Axis{pak.AxisBatting},
		Factor:  1.2,
		Preload: func(ctx Context) bool { return ctx.Weather == weather.Peanuts },
	},
	SuperYummy: {
		Axes:   allAxes,
		Factor: 1.2,
		Dynamic: func(ctx Context, _ Level) bool {
			return ctx.Weather == weather.Peanuts || ctx.Stadium.HasPeanutMister()
		},
	},
	Pressure: {
		Axes:   allAxes,
		Factor: 1.25,
		Dynamic: func(ctx Context, _ Level) bool {
			return ctx.Weather == weather.Flooding && ctx.RunnersAboard
		},
	},
	Blaserunning: {},
	Flinch:       {},
	SwimBladder:  {},
	Ego1:         {},
	Ego2:         {},
	Wired:        {},
	Tired:        {},
	CoffeeRally:  {},
	TripleThreat: {},
	FriendOfCrows: {},
	Haunted:      {},
	Shelled:      {},
	Elsewhere:    {},
	Spicy:        {}, // handled specially below, not through Preload/Dynamic.
}

// SpicyFactor is the batting-axis multiplier SPICY grants once its
// progressive streak reaches level 4.
const SpicyFactor = 1.4

// SpicyMaxStreak is the hit-streak level at which SPICY's bonus applies.
const SpicyMaxStreak = 4

// Stack is a single player's ability multiplier state: which buffs they
// carry, each one's current activation level, and the SPICY hit streak.
// The per-axis multiplier is always recomputed in full from this state
// (Multiplier), never built up by repeated multiply/divide.
type Stack struct {
	Present     map[Kind]bool
	Levels      map[Kind]Level
	SpicyStreak int

	// CoffeeRallyUsed marks the single-use COFFEE_RALLY out refill as
	// spent for the rest of the current game; Preload clears it.
	CoffeeRallyUsed bool
}

// NewStack builds an empty stack; Grant marks which buffs this player
// carries.
func NewStack() *Stack {
	return &Stack{Present: map[Kind]bool{}, Levels: map[Kind]Level{}}
}

// Grant marks kind as carried by this player, starting inactive.
func (s *Stack) Grant(kind Kind) {
	s.Present[kind] = true
	if _, ok := s.Levels[kind]; !ok {
		s.Levels[kind] = LevelInactive
	}
}

// Preload sets every carried buff's level from its Semantics.Preload
// function.
func (s *Stack) Preload(ctx Context) {
	s.CoffeeRallyUsed = false
	for kind := range s.Present {
		sem, ok := Table[kind]
		if !ok || sem.Preload == nil {
			s.Levels[kind] = LevelInactive
			continue
		}
		if sem.Preload(ctx) {
			s.Levels[kind] = LevelActive
		} else {
			s.Levels[kind] = LevelInactive
		}
	}
}

// Reevaluate re-runs every carried buff's Dynamic function at a boundary
// point during play.
func (s *Stack) Reevaluate(ctx Context) {
	for kind := range s.Present {
		sem, ok := Table[kind]
		if !ok || sem.Dynamic == nil {
			continue
		}
		if sem.Dynamic(ctx, s.Levels[kind]) {
			s.Levels[kind] = LevelActive
		} else {
			s.Levels[kind] = LevelInactive
		}
	}
}

// ApplyHit advances the SPICY streak on a hit; any non-hit event resets it
// (ResetSpicy).
func (s *Stack) ApplyHit() {
	if !s.Present[Spicy] {
		return
	}
	if s.SpicyStreak < SpicyMaxStreak {
		s.SpicyStreak++
	}
}

// ResetSpicy resets the SPICY streak to 1 on any non-hit plate-appearance
// outcome.
func (s *Stack) ResetSpicy() {
	if !s.Present[Spicy] {
		return
	}
	s.SpicyStreak = 1
}

// TryCoffeeRally consumes the single-use COFFEE_RALLY out refill,
// reporting whether it fired. It only fires once per game; Preload
// restores it for the next iteration.
func (s *Stack) TryCoffeeRally() bool {
	if !s.Present[CoffeeRally] || s.CoffeeRallyUsed {
		return false
	}
	s.CoffeeRallyUsed = true
	return true
}

// Clone returns a deep copy sharing no mutable state with the receiver, so
// a worker in the iteration driver can own its own stack independently of
// whatever template it was built from.
func (s *Stack) Clone() *Stack {
	present := make(map[Kind]bool, len(s.Present))
	for k, v := range s.Present {
		present[k] = v
	}
	levels := make(map[Kind]Level, len(s.Levels))
	for k, v := range s.Levels {
		levels[k] = v
	}
	return &Stack{Present: present, Levels: levels, SpicyStreak: s.SpicyStreak, CoffeeRallyUsed: s.CoffeeRallyUsed}
}

// Multiplier recomputes, from scratch, the product of every active buff's
// factor on the given axis. Recomputing exactly avoids the float drift a
// running product maintained by iterative multiply/divide would
// accumulate over a long game.
func (s *Stack) Multiplier(axis pak.Axis) float64 {
	product := 1.0
	for kind := Shelled; kind <= DoubleA; kind++ {
		if s.Levels[kind] != LevelActive {
			continue
		}
		sem, ok := Table[kind]
		if !ok {
			continue
		}
		for _, a := range sem.Axes {
			if a == axis {
				product *= sem.Factor
				break
			}
		}
	}
	if s.Present[Spicy] && s.SpicyStreak >= SpicyMaxStreak && axis == pak.AxisBatting {
		product *= SpicyFactor
	}
	return product
}

// TeamAdditiveKind is the closed set of team-wide additives applied on top
// of per-player multipliers.
type TeamAdditiveKind int

const (
	Crows TeamAdditiveKind = iota
	TeamPressure
	Travelling
	Growth
	SinkingShip
	PeakSeason
)

// TeamContext is what a team-wide additive's eligibility depends on.
type TeamContext struct {
	Weather       weather.Code
	RunnersAboard bool
	IsAway        bool
	Day           int
	RosterSize    int // len(rotation) + len(lineup)
	InPeakWindow  bool
}

// TeamAdditive computes the single multiplier contributed by kind for the
// given axis, or 1.0 if the buff's gate does not hold. Like the per-player
// stack, this is always recomputed exactly rather than accumulated.
func TeamAdditive(kind TeamAdditiveKind, axis pak.Axis, ctx TeamContext) float64 {
	switch kind {
	case Crows:
		if ctx.Weather != weather.Bird {
			return 1.0
		}
		if axis == pak.AxisBatting || axis == pak.AxisPitching {
			return 1.5
		}
		return 1.0
	case TeamPressure:
		if ctx.Weather != weather.Flooding || !ctx.RunnersAboard {
			return 1.0
		}
		return 1.25
	case Travelling:
		if !ctx.IsAway {
			return 1.0
		}
		return 1.05
	case Growth:
		day := ctx.Day
		if day > 99 {
			day = 99
		}
		return 1.0 + 0.05*float64(day)/99.0
	case SinkingShip:
		return 1.0 + 0.01*float64(14-ctx.RosterSize)
	case PeakSeason:
		if !ctx.InPeakWindow {
			return 1.0
		}
		return 1.2
	}
	return 1.0
}

// SeasonalRule is a per-(team,season) rule change applied on every team
// reset.
type SeasonalRule int

const (
	FourthStrike SeasonalRule = iota
	WalkInThePark
	Fiery
)

// PitchEventKind is the closed set of team-level pre-pitch event buffs a
// team may carry, gated on season window and required blood.
type PitchEventKind int

const (
	Charm PitchEventKind = iota
	Zap
	ONo
	BaseInstincts
	Psychic
)

// PitchEvent gates a team's pitch-event buff on a season window and a
// required blood type.
type PitchEvent struct {
	Kind          PitchEventKind
	StartSeason   int
	EndSeason     *int // nil means open-ended
	RequiredBlood pak.BloodType
}

// ValidForSeason reports whether this pitch event is gated on for the
// given season.
func (e PitchEvent) ValidForSeason(season int) bool {
	if season < e.StartSeason {
		return false
	}
	if e.EndSeason == nil {
		return true
	}
	return season <= *e.EndSeason
}

const (
	CharmTriggerPercentage         = 0.02
	ZapTriggerPercentage           = 0.02
	FriendOfCrowsTriggerPercentage = 0.02
)

// BaseInstinctPriors maps num_bases to a map of {base: prior} for how
// likely Base Instincts is to advance a walk to that base instead of
// first.
var BaseInstinctPriors = map[int]map[int]float64{
	4: {2: 0.04, 3: 0.01},
	5: {2: 0.035, 3: 0.01, 4: 0.005},
}
