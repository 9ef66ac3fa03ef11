package normalize

import (
	"fmt"
	"sort"
	"strings"
)

// Drivers accepts:
//   - a bare array of driver objects
//   - {"drivers": [...]} (or any default wrapper key)
//   - an object keyed by driver code: {"VER": {"driver_number": 1, ...}}
//
// Rows without a code, name, team or number are dropped.
func Drivers(raw []byte) []Driver {
	rows := List(raw, "drivers", "data", "results")
	if len(rows) == 0 {
		rows = keyedRows(raw, "driver_code")
	}

	out := make([]Driver, 0, len(rows))
	for _, r := range rows {
		d := Driver{
			Code:    r.String("driver_code", "code", "name_acronym", "abbreviation"),
			Name:    fullName(r, "driver_name", "full_name", "name", "broadcast_name"),
			Number:  r.IntOr(0, "driver_number", "number", "permanentNumber"),
			Team:    r.String("team", "team_name", "constructor"),
			Country: r.String("country_code", "country", "nationality"),
			Photo:   r.String("headshot_url", "photo", "image"),
			Colour:  colour(r.String("team_colour", "colour", "color")),
		}
		if d.Code == "" || d.Name == "" || d.Team == "" || !r.Has("driver_number", "number", "permanentNumber") {
			continue
		}
		out = append(out, d)
	}
	return out
}

// keyedRows turns {"KEY": {...}, ...} into records with the key stored under
// keyField. Entries are ordered by key so output is stable.
func keyedRows(raw []byte, keyField string) []Record {
	obj := Object(raw)
	if obj == nil {
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k, v := range obj {
		if _, ok := v.(map[string]any); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]Record, 0, len(keys))
	for _, k := range keys {
		r := Record{}
		for kk, vv := range obj[k].(map[string]any) {
			r[kk] = vv
		}
		if !r.Has(keyField) {
			r[keyField] = k
		}
		out = append(out, r)
	}
	return out
}

func colour(c string) string {
	if c == "" || strings.HasPrefix(c, "#") {
		return c
	}
	return "#" + c
}

// DriverStandings accepts a bare array or {"standings": [...]}. Position
// defaults to the row order, points to zero; a missing display name is built
// from givenName/familyName and a missing team from constructor.
func DriverStandings(raw []byte) []DriverStanding {
	return driverStandingsFrom(List(raw, "standings", "drivers", "data", "results"))
}

func driverStandingsFrom(rows []Record) []DriverStanding {
	out := make([]DriverStanding, 0, len(rows))
	for i, r := range rows {
		out = append(out, DriverStanding{
			Position: r.IntOr(i+1, "position", "rank", "pos"),
			DriverID: r.String("driverId", "driver_id", "id"),
			Code:     r.String("driver_code", "driverCode", "code"),
			Name:     fullName(r, "driver_name", "name", "driver"),
			Number:   r.IntOr(0, "number", "driver_number", "driverNumber"),
			Team:     r.String("team", "constructor", "constructorName", "team_name"),
			Points:   r.FloatOr(0, "points"),
			Wins:     r.IntOr(0, "wins"),
		})
	}
	return out
}

// ConstructorStandings accepts a bare array or {"standings": [...]}.
func ConstructorStandings(raw []byte) []ConstructorStanding {
	rows := List(raw, "standings", "constructors", "teams", "data")
	out := make([]ConstructorStanding, 0, len(rows))
	for i, r := range rows {
		out = append(out, ConstructorStanding{
			Position:      r.IntOr(i+1, "position", "rank", "pos"),
			ConstructorID: r.String("constructor_id", "constructorId", "id"),
			Name:          r.String("team", "team_name", "constructorName", "constructor", "name"),
			Nationality:   r.String("nationality", "constructorNationality"),
			Points:        r.FloatOr(0, "points"),
			Wins:          r.IntOr(0, "wins"),
		})
	}
	return out
}

// Teams accepts a bare array or {"teams": [...]}. Driver count falls back to
// the embedded driver list, then to two.
func Teams(raw []byte) []Team {
	rows := List(raw, "teams", "data")
	out := make([]Team, 0, len(rows))
	for _, r := range rows {
		t := teamFrom(r)
		if t.Name == "" && t.ID == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// TeamDetail accepts the team object itself or {"team": {...}}.
func TeamDetail(raw []byte) (Team, error) {
	obj := Object(raw)
	if obj == nil {
		return Team{}, fmt.Errorf("team detail: not a JSON object")
	}
	if nested := obj.Record("team"); nested != nil {
		obj = nested
	}
	t := teamFrom(obj)
	if t.Name == "" && t.ID == "" {
		return Team{}, fmt.Errorf("team detail: missing team name")
	}
	return t, nil
}

func teamFrom(r Record) Team {
	t := Team{
		ID:          r.String("constructor_id", "constructorId", "id"),
		Name:        r.String("team_name", "name", "constructorName", "team"),
		Nationality: r.String("nationality", "constructorNationality"),
		Position:    r.IntOr(0, "position"),
		Points:      r.FloatOr(0, "points"),
		Wins:        r.IntOr(0, "wins"),
		Principal:   r.String("team_principal", "principal"),
		Engine:      r.String("engine"),
		Car:         r.String("car"),
	}
	for _, d := range r.List("drivers") {
		t.Drivers = append(t.Drivers, TeamDriver{
			Name:   fullName(d, "name", "driver_name", "full_name"),
			Number: d.IntOr(0, "driver_number", "number"),
			Photo:  d.String("headshot_url", "photo"),
		})
	}
	t.DriverCount = r.IntOr(len(t.Drivers), "driver_count", "count")
	if t.DriverCount == 0 {
		t.DriverCount = 2
	}
	return t
}

// Sessions accepts a bare array of sessions or an overview object
// {"sessions": [...], "currentCircuit": {...}, "standings": [...]}.
func Sessions(raw []byte) SessionsOverview {
	ov := SessionsOverview{}
	var rows []Record
	if obj := Object(raw); obj != nil {
		rows = obj.List("sessions", "data", "results")
		if c := obj.Record("currentCircuit", "current_circuit", "circuit"); c != nil {
			ov.Circuit = &Circuit{
				Name:     c.String("name", "circuit_short_name", "circuitName"),
				Location: c.String("location", "locality"),
				Country:  c.String("country", "country_name"),
				Laps:     c.IntOr(0, "laps"),
				LengthKm: c.FloatOr(0, "length_km", "length"),
			}
		}
		ov.Standings = driverStandingsFrom(obj.List("standings"))
	} else {
		rows = List(raw)
	}

	ov.Sessions = make([]Session, 0, len(rows))
	for _, r := range rows {
		s := Session{
			ID:         r.String("id", "session_key", "sessionKey"),
			Name:       r.String("name", "session_name"),
			Type:       r.String("type", "session_type"),
			Start:      r.String("time", "date_start", "start"),
			MeetingKey: r.String("meeting_key", "meetingKey"),
			Circuit:    r.String("circuit_short_name", "circuit"),
		}
		if s.ID == "" {
			continue
		}
		if s.Name == "" {
			s.Name = "Session " + s.ID
		}
		ov.Sessions = append(ov.Sessions, s)
	}
	return ov
}

// Leaderboard accepts a bare array, {"drivers": [...]} or {"results": [...]}.
// Position defaults to the row order.
func Leaderboard(raw []byte) []LeaderboardEntry {
	rows := List(raw, "drivers", "results", "data")
	out := make([]LeaderboardEntry, 0, len(rows))
	for i, r := range rows {
		e := LeaderboardEntry{
			ID:       r.String("driverId", "id", "driver_number"),
			Position: r.IntOr(i+1, "position", "rank"),
			Name:     fullName(r, "name", "driver", "driver_name"),
			Team:     r.String("team", "constructor", "team_name"),
			Number:   r.IntOr(0, "number", "carNumber", "driver_number"),
			Time:     r.String("bestTime", "time"),
			Gap:      r.String("gap", "gap_to_leader", "interval"),
			Avatar:   r.String("avatar", "headshot_url"),
		}
		if e.ID == "" {
			e.ID = fmt.Sprint(i)
		}
		out = append(out, e)
	}
	return out
}

// Podium returns the first three entries of a leaderboard.
func Podium(entries []LeaderboardEntry) []LeaderboardEntry {
	if len(entries) > 3 {
		return entries[:3]
	}
	return entries
}

// Meetings accepts OpenF1 style meeting rows, bare or wrapped in "meetings".
func Meetings(raw []byte) []Meeting {
	rows := List(raw, "meetings", "races", "data")
	out := make([]Meeting, 0, len(rows))
	for _, r := range rows {
		out = append(out, Meeting{
			Key:      r.String("meeting_key", "key", "id"),
			Name:     r.String("meeting_name", "name", "raceName", "race"),
			Official: r.String("meeting_official_name", "official_name"),
			Country:  r.String("country_name", "country"),
			Location: r.String("location", "locality"),
			Circuit:  r.String("circuit_short_name", "circuit"),
			Year:     r.IntOr(0, "year", "season"),
			Start:    r.String("date_start", "date"),
		})
	}
	return out
}

func Laps(raw []byte) []Lap {
	rows := List(raw, "laps", "data")
	out := make([]Lap, 0, len(rows))
	for _, r := range rows {
		out = append(out, Lap{
			DriverNumber: r.IntOr(0, "driver_number"),
			Number:       r.IntOr(0, "lap_number", "lap"),
			Duration:     r.FloatOr(0, "lap_duration", "duration"),
			Sector1:      r.FloatOr(0, "duration_sector_1", "sector_1"),
			Sector2:      r.FloatOr(0, "duration_sector_2", "sector_2"),
			Sector3:      r.FloatOr(0, "duration_sector_3", "sector_3"),
			PitOut:       r.Bool("is_pit_out_lap"),
		})
	}
	return out
}

func Positions(raw []byte) []Position {
	rows := List(raw, "positions", "position", "data")
	out := make([]Position, 0, len(rows))
	for _, r := range rows {
		out = append(out, Position{
			DriverNumber: r.IntOr(0, "driver_number"),
			Position:     r.IntOr(0, "position"),
			Date:         r.String("date"),
		})
	}
	return out
}

// LatestPositions keeps the most recent row per driver (by ISO date, later
// rows winning ties) and orders the result by position.
func LatestPositions(rows []Position) []Position {
	latest := make(map[int]Position, len(rows))
	for _, p := range rows {
		if cur, ok := latest[p.DriverNumber]; ok && p.Date < cur.Date {
			continue
		}
		latest[p.DriverNumber] = p
	}
	out := make([]Position, 0, len(latest))
	for _, p := range latest {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].DriverNumber < out[j].DriverNumber
	})
	return out
}

// RecentLaps returns the last n laps, newest first.
func RecentLaps(laps []Lap, n int) []Lap {
	out := append([]Lap(nil), laps...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
