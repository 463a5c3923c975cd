// Package season implements the day/season driver: loading the per-day
// stlat snapshot and schedule, building the two Team states for a
// scheduled game, running the iteration driver, accumulating daily and
// season-level aggregate statistics, and emitting the output files,
// generalized from a single-game request/response model to a day/season
// batch driver.
package season

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/baseball-sim/sim-core/internal/pak"
	"github.com/baseball-sim/sim-core/internal/simerr"
)

// ScheduleGame is one entry in the schedule file's flat list of games.
type ScheduleGame struct {
	ID           string   `json:"id" validate:"required"`
	Day          int      `json:"day" validate:"min=0"`
	Season       int      `json:"season" validate:"min=0"`
	HomeTeam     string   `json:"homeTeam" validate:"required"`
	AwayTeam     string   `json:"awayTeam" validate:"required"`
	HomePitcher  string   `json:"homePitcher" validate:"required"`
	AwayPitcher  string   `json:"awayPitcher" validate:"required"`
	HomeOdds     float64  `json:"homeOdds"`
	AwayOdds     float64  `json:"awayOdds"`
	Weather      int      `json:"weather"`
	Outcomes     []string `json:"outcomes"`
}

// reverbSkipMarker is the outcome substring that marks a scheduled game as
// skipped: any outcome containing it means the game never happened.
const reverbSkipMarker = "shuffled in the Reverb"

// ShouldSkip reports whether this scheduled game's outcomes carry the
// Reverb skip marker.
func (g ScheduleGame) ShouldSkip() bool {
	for _, outcome := range g.Outcomes {
		if containsReverbMarker(outcome) {
			return true
		}
	}
	return false
}

// DaysInSeason returns the sorted, de-duplicated set of day numbers
// scheduled for season, so the season driver knows how many days to loop
// over.
func DaysInSeason(games []ScheduleGame, season int) []int {
	seen := map[int]bool{}
	for _, g := range games {
		if g.Season == season {
			seen[g.Day] = true
		}
	}
	days := make([]int, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// FilterSchedule returns the subset of games matching season and day. A
// negative day or season value matches any.
func FilterSchedule(games []ScheduleGame, season, day int) []ScheduleGame {
	out := make([]ScheduleGame, 0, len(games))
	for _, g := range games {
		if season >= 0 && g.Season != season {
			continue
		}
		if day >= 0 && g.Day != day {
			continue
		}
		out = append(out, g)
	}
	return out
}

func containsReverbMarker(outcome string) bool {
	return len(outcome) >= len(reverbSkipMarker) && indexOf(outcome, reverbSkipMarker) >= 0
}

func indexOf(haystack, needle string) int {
	n, m := len(haystack), len(needle)
	if m == 0 {
		return 0
	}
	for i := 0; i+m <= n; i++ {
		if haystack[i:i+m] == needle {
			return i
		}
	}
	return -1
}

// StlatRecord is one player's entry in the per-day stlat snapshot: all
// 26 PAK attributes (stringified floats accepted), team/position/blood
// identifiers, and the player's buff list.
type StlatRecord struct {
	PAK pak.PAK

	PlayerID       string
	PlayerName     string
	TeamID         string
	PositionID     int
	IsPitcher      bool
	Blood          pak.BloodType
	Modifications  []string
}

// rawStlatRecord mirrors the wire shape before type coercion: PAK floats
// may arrive as JSON numbers or as strings, position_type arrives as
// either a "0"/"1" id or a "BATTER"/"PITCHER" name, and blood arrives as
// either a legacy numeric id or a name.
type rawStlatRecord struct {
	TeamID         string          `json:"team_id"`
	LeagueTeamID   string          `json:"leagueTeamId"`
	PlayerName     string          `json:"player_name"`
	Name           string          `json:"name"`
	PositionID     json.RawMessage `json:"position_id"`
	PositionTypeID string          `json:"position_type_id"`
	PositionType   string          `json:"position_type"`
	Blood          json.RawMessage `json:"blood"`
	PermAttr       []string        `json:"permAttr"`
	Modifications  []string        `json:"modifications"`

	Buoyancy      json.RawMessage `json:"buoyancy"`
	Divinity      json.RawMessage `json:"divinity"`
	Martyrdom     json.RawMessage `json:"martyrdom"`
	Moxie         json.RawMessage `json:"moxie"`
	Musclitude    json.RawMessage `json:"musclitude"`
	Patheticism   json.RawMessage `json:"patheticism"`
	Thwackability json.RawMessage `json:"thwackability"`
	Tragicness    json.RawMessage `json:"tragicness"`

	BaseThirst     json.RawMessage `json:"baseThirst"`
	Continuation   json.RawMessage `json:"continuation"`
	GroundFriction json.RawMessage `json:"groundFriction"`
	Indulgence     json.RawMessage `json:"indulgence"`
	Laserlikeness  json.RawMessage `json:"laserlikeness"`

	Anticapitalism json.RawMessage `json:"anticapitalism"`
	Chasiness      json.RawMessage `json:"chasiness"`
	Omniscience    json.RawMessage `json:"omniscience"`
	Tenaciousness  json.RawMessage `json:"tenaciousness"`
	Watchfulness   json.RawMessage `json:"watchfulness"`

	Coldness         json.RawMessage `json:"coldness"`
	Overpowerment    json.RawMessage `json:"overpowerment"`
	Ruthlessness     json.RawMessage `json:"ruthlessness"`
	Shakespearianism json.RawMessage `json:"shakespearianism"`
	Suppression      json.RawMessage `json:"suppression"`
	Unthwackability  json.RawMessage `json:"unthwackability"`

	Pressurization json.RawMessage `json:"pressurization"`
	Cinnamon       json.RawMessage `json:"cinnamon"`
}

func parseFlexFloat(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("stlat value %s is neither a number nor a string", string(raw))
	}
	if s == "" {
		return 0, nil
	}
	if _, err := fmt.Sscanf(s, "%g", &f); err != nil {
		return 0, fmt.Errorf("stlat string value %q is not numeric: %w", s, err)
	}
	return f, nil
}

// parseFlexInt accepts an integer that may arrive as a JSON number or a
// stringified number, the same leniency parseFlexFloat grants stlats.
func parseFlexInt(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("value %s is neither an integer nor a string", string(raw))
	}
	if s == "" {
		return 0, nil
	}
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fmt.Errorf("string value %q is not an integer: %w", s, err)
	}
	return n, nil
}

func (r rawStlatRecord) toPAK() (pak.PAK, error) {
	var p pak.PAK
	var err error
	if p.Buoyancy, err = parseFlexFloat(r.Buoyancy); err != nil {
		return p, err
	}
	if p.Divinity, err = parseFlexFloat(r.Divinity); err != nil {
		return p, err
	}
	if p.Martyrdom, err = parseFlexFloat(r.Martyrdom); err != nil {
		return p, err
	}
	if p.Moxie, err = parseFlexFloat(r.Moxie); err != nil {
		return p, err
	}
	if p.Musclitude, err = parseFlexFloat(r.Musclitude); err != nil {
		return p, err
	}
	if p.Patheticism, err = parseFlexFloat(r.Patheticism); err != nil {
		return p, err
	}
	if p.Thwackability, err = parseFlexFloat(r.Thwackability); err != nil {
		return p, err
	}
	if p.Tragicness, err = parseFlexFloat(r.Tragicness); err != nil {
		return p, err
	}
	if p.BaseThirst, err = parseFlexFloat(r.BaseThirst); err != nil {
		return p, err
	}
	if p.Continuation, err = parseFlexFloat(r.Continuation); err != nil {
		return p, err
	}
	if p.GroundFriction, err = parseFlexFloat(r.GroundFriction); err != nil {
		return p, err
	}
	if p.Indulgence, err = parseFlexFloat(r.Indulgence); err != nil {
		return p, err
	}
	if p.Laserlikeness, err = parseFlexFloat(r.Laserlikeness); err != nil {
		return p, err
	}
	if p.Anticapitalism, err = parseFlexFloat(r.Anticapitalism); err != nil {
		return p, err
	}
	if p.Chasiness, err = parseFlexFloat(r.Chasiness); err != nil {
		return p, err
	}
	if p.Omniscience, err = parseFlexFloat(r.Omniscience); err != nil {
		return p, err
	}
	if p.Tenaciousness, err = parseFlexFloat(r.Tenaciousness); err != nil {
		return p, err
	}
	if p.Watchfulness, err = parseFlexFloat(r.Watchfulness); err != nil {
		return p, err
	}
	if p.Coldness, err = parseFlexFloat(r.Coldness); err != nil {
		return p, err
	}
	if p.Overpowerment, err = parseFlexFloat(r.Overpowerment); err != nil {
		return p, err
	}
	if p.Ruthlessness, err = parseFlexFloat(r.Ruthlessness); err != nil {
		return p, err
	}
	if p.Shakespearianism, err = parseFlexFloat(r.Shakespearianism); err != nil {
		return p, err
	}
	if p.Suppression, err = parseFlexFloat(r.Suppression); err != nil {
		return p, err
	}
	if p.Unthwackability, err = parseFlexFloat(r.Unthwackability); err != nil {
		return p, err
	}
	if p.Pressurization, err = parseFlexFloat(r.Pressurization); err != nil {
		return p, err
	}
	if p.Cinnamon, err = parseFlexFloat(r.Cinnamon); err != nil {
		return p, err
	}
	return p, nil
}

func (r rawStlatRecord) toRecord(playerID string) (StlatRecord, error) {
	p, err := r.toPAK()
	if err != nil {
		return StlatRecord{}, simerr.WrapConfigError(err, "player %s has malformed stlats", playerID)
	}

	name := r.PlayerName
	if name == "" {
		name = r.Name
	}
	teamID := r.TeamID
	if teamID == "" {
		teamID = r.LeagueTeamID
	}

	isPitcher, err := r.resolvePositionType()
	if err != nil {
		return StlatRecord{}, simerr.WrapConfigError(err, "player %s has an unrecognized position type", playerID)
	}

	blood, err := r.resolveBlood()
	if err != nil {
		return StlatRecord{}, simerr.WrapConfigError(err, "player %s has an unrecognized blood type", playerID)
	}

	mods := r.Modifications
	if len(mods) == 0 {
		mods = r.PermAttr
	}

	positionID, err := parseFlexInt(r.PositionID)
	if err != nil {
		return StlatRecord{}, simerr.WrapConfigError(err, "player %s has a malformed position_id", playerID)
	}

	return StlatRecord{
		PAK: p, PlayerID: playerID, PlayerName: name, TeamID: teamID,
		PositionID: positionID, IsPitcher: isPitcher, Blood: blood, Modifications: mods,
	}, nil
}

func (r rawStlatRecord) resolvePositionType() (isPitcher bool, err error) {
	switch r.PositionTypeID {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	switch r.PositionType {
	case "BATTER":
		return false, nil
	case "PITCHER":
		return true, nil
	}
	if r.PositionTypeID == "" && r.PositionType == "" {
		return false, nil
	}
	return false, fmt.Errorf("unrecognized position_type_id=%q position_type=%q", r.PositionTypeID, r.PositionType)
}

func (r rawStlatRecord) resolveBlood() (pak.BloodType, error) {
	if len(r.Blood) == 0 {
		return pak.BloodUnknown, nil
	}
	var asString string
	if err := json.Unmarshal(r.Blood, &asString); err == nil {
		if b, ok := pak.ParseBloodType(asString); ok {
			return b, nil
		}
		return pak.BloodUnknown, fmt.Errorf("unrecognized blood name %q", asString)
	}
	var asInt int
	if err := json.Unmarshal(r.Blood, &asInt); err == nil {
		b, ok := pak.BloodFromLegacyID(asInt)
		if !ok {
			return pak.BloodUnknown, fmt.Errorf("unrecognized legacy blood id %d", asInt)
		}
		return b, nil
	}
	return pak.BloodUnknown, fmt.Errorf("blood field is neither a string nor an int: %s", string(r.Blood))
}
