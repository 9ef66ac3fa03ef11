package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAcceptsBareAndWrapped(t *testing.T) {
	bare := List([]byte(`[{"a":1},{"a":2}]`))
	wrapped := List([]byte(`{"drivers":[{"a":1},{"a":2}]}`), "drivers")

	require.Len(t, bare, 2)
	if diff := cmp.Diff(bare, wrapped); diff != "" {
		t.Fatalf("wrapped list differs (-bare +wrapped):\n%s", diff)
	}
}

func TestListRejectsOtherShapes(t *testing.T) {
	for _, raw := range []string{``, `null`, `"x"`, `42`, `{"other":[1]}`, `{not json`} {
		got := List([]byte(raw), "drivers")
		assert.NotNil(t, got, raw)
		assert.Empty(t, got, raw)
	}

	assert.Len(t, List([]byte(`[1, {"a":1}, "x", null]`)), 1)
}

func TestRecordAccessors(t *testing.T) {
	r := List([]byte(`[{"n":"44","f":12.5,"s":"  ","name":"Lewis","b":"true","nested":{"x":1}}]`))[0]

	assert.Equal(t, "Lewis", r.String("s", "name"))
	assert.Equal(t, "12.5", r.String("f"))
	assert.Equal(t, 44, r.IntOr(0, "missing", "n"))
	assert.Equal(t, 7, r.IntOr(7, "missing"))
	assert.InDelta(t, 12.5, r.FloatOr(0, "f"), 1e-9)
	assert.True(t, r.Bool("b"))
	assert.NotNil(t, r.Record("nested"))
	assert.Nil(t, r.Record("name"))
	assert.False(t, r.Has("missing"))
}

func TestDrivers(t *testing.T) {
	want := []Driver{
		{Code: "VER", Name: "Max Verstappen", Number: 1, Team: "Red Bull Racing", Country: "NED", Photo: "https://img/ver.png"},
	}

	bare := []byte(`[
		{"driver_code":"VER","driver_name":"Max Verstappen","driver_number":1,"team":"Red Bull Racing","country_code":"NED","headshot_url":"https://img/ver.png"},
		{"driver_code":"XXX","driver_name":"No Team","driver_number":2},
		{"driver_code":"NUL","driver_name":"Null Number","driver_number":null,"team":"Haas"}
	]`)
	wrapped := []byte(`{"drivers":[{"driver_code":"VER","driver_name":"Max Verstappen","driver_number":1,"team":"Red Bull Racing","country_code":"NED","headshot_url":"https://img/ver.png"}]}`)

	if diff := cmp.Diff(want, Drivers(bare)); diff != "" {
		t.Errorf("bare (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, Drivers(wrapped)); diff != "" {
		t.Errorf("wrapped (-want +got):\n%s", diff)
	}
}

func TestDriversKeyedByCode(t *testing.T) {
	raw := []byte(`{
		"NOR": {"driver_number": 4, "full_name": "Lando Norris", "team": "McLaren", "team_colour": "FF8000"},
		"ALO": {"driver_number": 14, "full_name": "Fernando Alonso", "team": "Aston Martin"}
	}`)

	got := Drivers(raw)
	require.Len(t, got, 2)
	assert.Equal(t, "ALO", got[0].Code)
	assert.Equal(t, "NOR", got[1].Code)
	assert.Equal(t, "#FF8000", got[1].Colour)
}

func TestDriverStandingsDefaults(t *testing.T) {
	raw := []byte(`{"standings":[
		{"givenName":"Charles","familyName":"Leclerc","constructor":"Ferrari","points":"356"},
		{"position":2,"name":"Oscar Piastri","team":"McLaren","number":81}
	]}`)

	got := DriverStandings(raw)
	want := []DriverStanding{
		{Position: 1, Name: "Charles Leclerc", Team: "Ferrari", Points: 356},
		{Position: 2, Name: "Oscar Piastri", Team: "McLaren", Number: 81},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestConstructorStandings(t *testing.T) {
	got := ConstructorStandings([]byte(`[{"position":"1","constructorId":"mclaren","constructorName":"McLaren","points":666,"wins":6}]`))
	require.Len(t, got, 1)
	assert.Equal(t, ConstructorStanding{Position: 1, ConstructorID: "mclaren", Name: "McLaren", Points: 666, Wins: 6}, got[0])
}

func TestTeamsAndDetail(t *testing.T) {
	teams := Teams([]byte(`{"teams":[{"constructor_id":"ferrari","team_name":"Ferrari","count":3},{"constructor_id":"haas","team_name":"Haas F1 Team"},{}]}`))
	require.Len(t, teams, 2)
	assert.Equal(t, 3, teams[0].DriverCount)
	assert.Equal(t, 2, teams[1].DriverCount)

	detail, err := TeamDetail([]byte(`{
		"team_name":"McLaren","constructor_id":"mclaren","nationality":"British","position":1,"points":666.0,"wins":6,
		"drivers":[{"name":"Lando Norris","driver_number":4},{"name":"Oscar Piastri","driver_number":81,"headshot_url":"p.png"}],
		"team_principal":"Andrea Stella","engine":"Mercedes","car":"MCL38"}`))
	require.NoError(t, err)
	assert.Equal(t, "mclaren", detail.ID)
	assert.Equal(t, 2, detail.DriverCount)
	assert.Equal(t, "p.png", detail.Drivers[1].Photo)
	assert.Equal(t, "Andrea Stella", detail.Principal)

	_, err = TeamDetail([]byte(`[]`))
	assert.Error(t, err)
	_, err = TeamDetail([]byte(`{"error":"Team not found"}`))
	assert.Error(t, err)
}

func TestSessionsOverview(t *testing.T) {
	ov := Sessions([]byte(`{
		"sessions":[{"id":"9158","name":"Race","time":"2024-09-01T13:00:00Z"},{"session_key":9157,"session_name":"Qualifying"},{"name":"no id"}],
		"currentCircuit":{"name":"Monza","country":"Italy","laps":53},
		"standings":[{"name":"Max Verstappen","points":303}]
	}`))

	require.Len(t, ov.Sessions, 2)
	assert.Equal(t, "9157", ov.Sessions[1].ID)
	assert.Equal(t, "Qualifying", ov.Sessions[1].Name)
	require.NotNil(t, ov.Circuit)
	assert.Equal(t, "Monza", ov.Circuit.Name)
	assert.Equal(t, 53, ov.Circuit.Laps)
	require.Len(t, ov.Standings, 1)
	assert.Equal(t, 1, ov.Standings[0].Position)

	bare := Sessions([]byte(`[{"session_key":1,"session_name":"Practice 1"}]`))
	require.Len(t, bare.Sessions, 1)
	assert.Nil(t, bare.Circuit)
}

func TestLeaderboardAliases(t *testing.T) {
	fromDrivers := Leaderboard([]byte(`{"drivers":[{"driverId":"max","givenName":"Max","familyName":"Verstappen","constructor":"Red Bull","carNumber":1,"bestTime":"1:21.0","rank":1}]}`))
	fromResults := Leaderboard([]byte(`{"results":[{"id":"nor","name":"Lando Norris","team":"McLaren","number":4,"time":"1:21.2","gap":"+0.2"},{"driver":"Oscar Piastri"}]}`))

	require.Len(t, fromDrivers, 1)
	assert.Equal(t, LeaderboardEntry{ID: "max", Position: 1, Name: "Max Verstappen", Team: "Red Bull", Number: 1, Time: "1:21.0"}, fromDrivers[0])

	require.Len(t, fromResults, 2)
	assert.Equal(t, "+0.2", fromResults[0].Gap)
	assert.Equal(t, 2, fromResults[1].Position)
	assert.Equal(t, "1", fromResults[1].ID)
	assert.Equal(t, "Oscar Piastri", fromResults[1].Name)
}

func TestPodium(t *testing.T) {
	entries := Leaderboard([]byte(`[{"name":"A"},{"name":"B"},{"name":"C"},{"name":"D"}]`))
	assert.Len(t, Podium(entries), 3)
	assert.Len(t, Podium(entries[:2]), 2)
	assert.Empty(t, Podium(nil))
}

func TestOpenF1Rows(t *testing.T) {
	meetings := Meetings([]byte(`[{"meeting_key":1229,"meeting_name":"Bahrain Grand Prix","country_name":"Bahrain","year":2024}]`))
	require.Len(t, meetings, 1)
	assert.Equal(t, "1229", meetings[0].Key)
	assert.Equal(t, 2024, meetings[0].Year)

	laps := Laps([]byte(`[{"driver_number":1,"lap_number":3,"lap_duration":95.123,"duration_sector_1":30.1,"is_pit_out_lap":false}]`))
	require.Len(t, laps, 1)
	assert.InDelta(t, 95.123, laps[0].Duration, 1e-9)
	assert.InDelta(t, 30.1, laps[0].Sector1, 1e-9)

	pos := Positions([]byte(`[{"driver_number":16,"position":2,"date":"2024-03-02T15:00:00Z"}]`))
	assert.Equal(t, []Position{{DriverNumber: 16, Position: 2, Date: "2024-03-02T15:00:00Z"}}, pos)
}

func TestTeamKey(t *testing.T) {
	assert.Equal(t, "red bull", TeamKey("Red Bull Racing"))
	assert.Equal(t, "haas", TeamKey("Haas F1 Team"))
	assert.Equal(t, "aston martin", TeamKey("aston_martin"))
	assert.Equal(t, "alpine", TeamKey("Alpine-Formula One Team"))
	assert.Equal(t, "", TeamKey(""))
}

func TestLatestPositions(t *testing.T) {
	rows := Positions([]byte(`{"positions":[
		{"driver_number":1,"position":1,"date":"2024-03-02T15:00:00Z"},
		{"driver_number":16,"position":2,"date":"2024-03-02T15:00:00Z"},
		{"driver_number":16,"position":1,"date":"2024-03-02T15:10:00Z"},
		{"driver_number":1,"position":2,"date":"2024-03-02T15:10:00Z"},
		{"driver_number":4,"position":3,"date":"2024-03-02T15:01:00Z"}
	]}`))

	got := LatestPositions(rows)
	assert.Equal(t, []Position{
		{DriverNumber: 16, Position: 1, Date: "2024-03-02T15:10:00Z"},
		{DriverNumber: 1, Position: 2, Date: "2024-03-02T15:10:00Z"},
		{DriverNumber: 4, Position: 3, Date: "2024-03-02T15:01:00Z"},
	}, got)
	assert.Empty(t, LatestPositions(nil))
}

func TestRecentLaps(t *testing.T) {
	laps := []Lap{{Number: 1}, {Number: 3}, {Number: 2}, {Number: 4}}

	got := RecentLaps(laps, 2)
	require.Len(t, got, 2)
	assert.Equal(t, 4, got[0].Number)
	assert.Equal(t, 3, got[1].Number)
	assert.Equal(t, 1, laps[0].Number, "input must not be reordered")
	assert.Len(t, RecentLaps(laps, 0), 4)
}
