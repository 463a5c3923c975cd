package season

import (
	"sort"

	"github.com/baseball-sim/sim-core/internal/buff"
	"github.com/baseball-sim/sim-core/internal/simerr"
	"github.com/baseball-sim/sim-core/internal/stadium"
	"github.com/baseball-sim/sim-core/internal/team"
	"github.com/baseball-sim/sim-core/internal/weather"
)

// BuildTeamState constructs a fresh team.State for one side of a scheduled
// game from that day's decoded roster. The lineup and rotation are ordered by ascending position_id
// among that team's batters and pitchers, respectively, and startingPitcher
// is rotated to the front so it is the one UpdateStartingPitcher validates
// first.
func BuildTeamState(
	teamID, teamName, startingPitcher string,
	records map[string]StlatRecord,
	stadiums map[string]stadium.Descriptor,
	weatherCode weather.Code,
	season, day int,
	isHome bool,
) (*team.State, error) {
	t := team.New(teamID, teamName)
	t.Season, t.Day, t.IsHome = season, day, isHome
	t.Weather = weatherCode
	t.Stadium = stadiumFor(stadiums, teamID)

	var batters, pitchers []StlatRecord
	for _, rec := range records {
		if rec.TeamID != teamID {
			continue
		}
		t.Stlats[rec.PlayerID] = rec.PAK
		t.Names[rec.PlayerID] = rec.PlayerName
		t.Blood[rec.PlayerID] = rec.Blood

		stack := buff.NewStack()
		for _, name := range rec.Modifications {
			if kind, ok := buff.ParseKind(name); ok {
				stack.Grant(kind)
			}
		}
		t.Buffs[rec.PlayerID] = stack

		if rec.IsPitcher {
			pitchers = append(pitchers, rec)
		} else {
			batters = append(batters, rec)
		}
	}

	if len(batters) == 0 {
		return nil, simerr.NewConfigError("team %s has no batters in today's stlat snapshot", teamID)
	}
	if len(pitchers) == 0 {
		return nil, simerr.NewConfigError("team %s has no pitchers in today's stlat snapshot", teamID)
	}

	sort.Slice(batters, func(i, j int) bool { return batters[i].PositionID < batters[j].PositionID })
	sort.Slice(pitchers, func(i, j int) bool { return pitchers[i].PositionID < pitchers[j].PositionID })

	for _, b := range batters {
		t.Lineup = append(t.Lineup, b.PlayerID)
	}
	for _, p := range pitchers {
		t.Rotation = append(t.Rotation, p.PlayerID)
	}

	if startingPitcher != "" {
		rotateToFront(t.Rotation, startingPitcher)
	}

	if tag, ok := team.ResolveTag(teamID); ok {
		t.ApplyTraits(tag)
	}

	return t, nil
}

// rotateToFront left-rotates rotation in place so id becomes its first
// element, if present; a schedule entry naming a pitcher absent from the
// day's snapshot leaves the rotation as-is, so UpdateStartingPitcher
// starts the first available pitcher in rotation order.
func rotateToFront(rotation []string, id string) {
	idx := -1
	for i, p := range rotation {
		if p == id {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return
	}
	rotated := make([]string, 0, len(rotation))
	rotated = append(rotated, rotation[idx:]...)
	rotated = append(rotated, rotation[:idx]...)
	copy(rotation, rotated)
}
