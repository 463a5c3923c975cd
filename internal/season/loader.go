package season

import (
	"os"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/baseball-sim/sim-core/internal/simerr"
	"github.com/baseball-sim/sim-core/internal/stadium"
)

var validate = validator.New()

// LoadSchedule reads and validates the schedule file: a flat JSON list
// of scheduled games. Decoding uses sonic rather than encoding/json, the
// same JSON library this file uses for the stadium file and the per-day
// stlat snapshot.
func LoadSchedule(path string) ([]ScheduleGame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, simerr.WrapConfigError(err, "read schedule file %s", path)
	}
	var games []ScheduleGame
	if err := sonic.Unmarshal(data, &games); err != nil {
		return nil, simerr.WrapConfigError(err, "decode schedule file %s", path)
	}
	for i, g := range games {
		if err := validate.Struct(g); err != nil {
			return nil, simerr.WrapConfigError(err, "schedule entry %d (id=%s) failed validation", i, g.ID)
		}
	}
	return games, nil
}

// LoadStadiums reads the stadium descriptor file: a map keyed by team
// id to a Descriptor.
func LoadStadiums(path string) (map[string]stadium.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, simerr.WrapConfigError(err, "read stadium file %s", path)
	}
	var descriptors map[string]stadium.Descriptor
	if err := sonic.Unmarshal(data, &descriptors); err != nil {
		return nil, simerr.WrapConfigError(err, "decode stadium file %s", path)
	}
	return descriptors, nil
}

// LoadDaySnapshot decodes a per-day stlat snapshot payload: a map
// keyed by player id to that player's raw stlat/position/blood record.
func LoadDaySnapshot(data []byte) (map[string]StlatRecord, error) {
	var raw map[string]rawStlatRecord
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, simerr.WrapConfigError(err, "decode per-day stlat snapshot")
	}
	out := make(map[string]StlatRecord, len(raw))
	for playerID, r := range raw {
		rec, err := r.toRecord(playerID)
		if err != nil {
			return nil, err
		}
		out[playerID] = rec
	}
	return out, nil
}

// stadiumFor looks up a team's descriptor, falling back to a neutral
// default when the file has no entry for it.
func stadiumFor(descriptors map[string]stadium.Descriptor, teamID string) stadium.Descriptor {
	if d, ok := descriptors[teamID]; ok {
		return d
	}
	return stadium.Default(teamID)
}
