package templates

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"race-delta/normalize"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestLayout(t *testing.T) {
	out := render(t, Layout(LayoutProps{Title: "Drivers", Active: "drivers", RefreshSeconds: 3}, EmptyState("nothing")))

	assert.Contains(t, out, "<title>Drivers · Race Delta</title>")
	assert.Contains(t, out, `<a href="/drivers" class="active">Drivers</a>`)
	assert.Contains(t, out, `<meta http-equiv="refresh" content="3">`)
	assert.Contains(t, out, "nothing")

	out = render(t, Layout(LayoutProps{}, nil))
	assert.NotContains(t, out, "http-equiv")
	assert.Contains(t, out, "<title>Race Delta</title>")
}

func TestStates(t *testing.T) {
	assert.Contains(t, render(t, Offline()), "No backend available")
	assert.Contains(t, render(t, ErrorState("502 Bad Gateway")), "502 Bad Gateway")
	assert.Contains(t, render(t, EmptyState("none yet")), "none yet")
}

func TestEscaping(t *testing.T) {
	out := render(t, Drivers(DriversPageData{Drivers: []normalize.Driver{
		{Code: "XSS", Name: `<script>alert(1)</script>`, Number: 9, Team: "A&B"},
	}}))

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "A&amp;B")
	assert.Contains(t, out, `href="/drivers/XSS/season"`)
}

func TestHome(t *testing.T) {
	board := []normalize.LeaderboardEntry{
		{Position: 1, Name: "Max Verstappen", Team: "Red Bull Racing", Number: 1, Time: "1:31.447"},
		{Position: 2, Name: "Lando Norris", Team: "McLaren", Gap: "+0.2"},
		{Position: 3, Name: "Charles Leclerc", Team: "Ferrari"},
	}
	out := render(t, Home(HomePageData{
		Sessions:        []normalize.Session{{ID: "9158", Name: "Race"}, {ID: "9157", Name: "Qualifying"}},
		SelectedSession: "9158",
		Leaderboard:     board,
		Podium:          normalize.Podium(board),
		Circuit:         &normalize.Circuit{Name: "Bahrain International Circuit", Country: "Bahrain", Laps: 57, LengthKm: 5.412},
		Standings:       []normalize.DriverStanding{{Position: 1, Code: "VER", Name: "Max Verstappen", Points: 575, Wins: 19}},
		UpdatedAt:       time.Now().Add(-2 * time.Minute),
	}))

	assert.Contains(t, out, `<option value="9158" selected>Race</option>`)
	assert.Contains(t, out, `href="/session/9158/live"`)
	assert.Contains(t, out, "1st")
	assert.Contains(t, out, "3rd")
	assert.Contains(t, out, "57 laps")
	assert.Contains(t, out, "2 minutes ago")
	assert.Contains(t, out, "<td>575</td>")
}

func TestHomeEmpty(t *testing.T) {
	out := render(t, Home(HomePageData{}))
	assert.Contains(t, out, "No timing data")
	assert.NotContains(t, out, "<select")
}

func TestTeamsAndTeam(t *testing.T) {
	out := render(t, Teams(TeamsPageData{Teams: []TeamCard{
		{Team: normalize.Team{ID: "mclaren", Name: "McLaren", Position: 1, Points: 666, Wins: 6, DriverCount: 2}, Colour: "#FF8000"},
	}}))
	assert.Contains(t, out, `href="/teams/mclaren"`)
	assert.Contains(t, out, "--team:#FF8000")
	assert.Contains(t, out, "666 pts · 6 wins")

	out = render(t, Team(TeamPageData{
		Team:   normalize.Team{Name: "Ferrari", Principal: "Frédéric Vasseur", Drivers: []normalize.TeamDriver{{Name: "Charles Leclerc", Number: 16}}},
		Colour: "#DC0000",
		Base:   "Maranello, Italy",
	}))
	assert.Contains(t, out, "Frédéric Vasseur")
	assert.Contains(t, out, "#16 Charles Leclerc")
	assert.Contains(t, out, "Maranello, Italy")
	assert.NotContains(t, out, "Power unit")
}

func TestStandings(t *testing.T) {
	out := render(t, Standings(StandingsPageData{
		Year:         2024,
		Drivers:      []normalize.DriverStanding{{Position: 1, Name: "Max Verstappen", Points: 437, Wins: 9}},
		Constructors: []normalize.ConstructorStanding{{Position: 1, ConstructorID: "mclaren", Name: "McLaren", Points: 666.5}},
	}))
	assert.Contains(t, out, "2024 standings")
	assert.Contains(t, out, "<td>666.5</td>")
	assert.Contains(t, out, `href="/teams/mclaren"`)
}

func TestSeason(t *testing.T) {
	s := normalize.Season{
		Driver: normalize.DriverIdentity{Code: "LEC", Name: "Charles Leclerc", Team: "Ferrari"},
		Season: 2024,
		Metrics: normalize.SeasonMetrics{
			TotalPoints: 356, PointsPerRace: 14.83, Wins: 3, Podiums: 13, DNFs: 1,
			DNFRaces:     []string{"Canadian Grand Prix"},
			PointsByRace: []normalize.RacePoints{{Round: 1, Points: 15}},
		},
		Radar: []normalize.RadarAxis{{Key: "consistency", Label: "Consistency", Value: 81.2}},
		Teammate: &normalize.SeasonOverlay{
			Driver: normalize.DriverIdentity{Code: "SAI"},
			Radar:  []normalize.RadarAxis{{Key: "consistency", Value: 77}},
		},
	}
	out := render(t, Season(SeasonPageData{Code: "LEC", Year: 2024, Season: s, ChartQS: "code=LEC&season=2024"}))

	assert.Contains(t, out, "Charles Leclerc · 2024 season")
	assert.Contains(t, out, `src="/charts/season.svg?code=LEC&amp;season=2024"`)
	assert.Contains(t, out, "<td>81.2</td><td>77.0</td>")
	assert.Contains(t, out, "Canadian Grand Prix")
}

func TestCompare(t *testing.T) {
	out := render(t, Compare(ComparePageData{}))
	assert.Contains(t, out, "Pick two drivers")

	out = render(t, Compare(ComparePageData{
		Driver1: "VER", Driver2: "NOR", Season: "2024",
		Drivers:    []normalize.Driver{{Code: "VER", Name: "Max Verstappen"}, {Code: "NOR", Name: "Lando Norris"}},
		Comparison: &normalize.Comparison{DriverA: normalize.LapStats{Code: "VER", BestLapTime: 92.608, Laps: 57}, DriverB: normalize.LapStats{Code: "NOR"}},
		Timeline: &normalize.Timeline{
			Season: "2024", DriverA: "VER", DriverB: "NOR",
			Rounds:     []normalize.TimelineRound{{Round: 1, Race: "Bahrain", PointsA: 26, CumulativeA: 26, PointsB: 12, CumulativeB: 12}},
			HeadToHead: map[string]int{"VER": 1, "NOR": 0},
		},
	}))
	assert.Contains(t, out, `<option value="VER" selected>`)
	assert.Contains(t, out, "1:32.608")
	assert.Contains(t, out, "Finished ahead: VER 1 · NOR 0")
	assert.Contains(t, out, "/charts/timeline.svg?driver1=VER&amp;driver2=NOR&amp;season=2024")
}

func TestHomeMeetingsAndTimingMessage(t *testing.T) {
	out := render(t, Home(HomePageData{
		Meetings:           []normalize.Meeting{{Key: "1229", Name: "Bahrain Grand Prix"}, {Key: "1230", Name: "Saudi Arabian Grand Prix"}},
		SelectedMeeting:    "1230",
		Sessions:           []normalize.Session{{ID: "9165", Name: "Race"}},
		SelectedSession:    "9165",
		Leaderboard:        []normalize.LeaderboardEntry{{Position: 1, Name: "Stale Row"}},
		LeaderboardMessage: "upstream exploded",
	}))

	assert.Contains(t, out, `<option value="1230" selected>Saudi Arabian Grand Prix</option>`)
	assert.Contains(t, out, `<input type="hidden" name="meeting" value="1230">`)
	assert.Contains(t, out, "Timing unavailable: upstream exploded")
	assert.NotContains(t, out, "Stale Row")
}

func TestLive(t *testing.T) {
	out := render(t, Live(LivePageData{SessionID: "9158", RefreshSeconds: 3}))
	assert.Contains(t, out, "Refreshes every 3s.")
	assert.Contains(t, out, "Waiting for timing data")
	assert.NotContains(t, out, "Recent laps")
}

func TestLiveLapsAndPositions(t *testing.T) {
	out := render(t, Live(LivePageData{
		SessionID: "9158",
		Laps:      []normalize.Lap{{DriverNumber: 1, Number: 12, Duration: 95.123, Sector1: 30.1, PitOut: true}},
		Positions: []normalize.Position{{DriverNumber: 16, Position: 1, Date: "2024-03-02T15:10:00Z"}},
	}))

	assert.Contains(t, out, "Recent laps")
	assert.Contains(t, out, "<td>12 (out)</td>")
	assert.Contains(t, out, "<td>1:35.123</td>")
	assert.Contains(t, out, "<td>30.100</td>")
	assert.Contains(t, out, "<td>16</td>")
	assert.Contains(t, out, `<td class="muted">2024-03-02T15:10:00Z</td>`)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1,234", points(1234))
	assert.Equal(t, "12.5", points(12.5))
	assert.Equal(t, "-", ordinal(0))
	assert.Equal(t, "2nd", ordinal(2))
	assert.Equal(t, "58.123", lapTime(58.123))
	assert.Equal(t, "1:05.000", lapTime(65))
	assert.Equal(t, "-", lapTime(0))
	assert.Equal(t, "/teams/red%20bull", pathJoin("teams", "red bull"))
}
