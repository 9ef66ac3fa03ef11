package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seasonPayload = `{
	"driver": {"code": "LEC", "name": "Charles Leclerc", "team": "Ferrari", "image": null},
	"season": 2024,
	"metrics": {
		"avg_finish": 4.5,
		"dnf_count": 1,
		"dnf_races": ["Canadian Grand Prix"],
		"wins": 3,
		"podiums": 13,
		"total_points": 356,
		"points_by_race": [
			{"round": 1, "race": "Bahrain Grand Prix", "points": 12},
			{"round": 2, "race": "Saudi Arabian Grand Prix", "points": 16}
		],
		"points_per_race": 14.83,
		"q_vs_race": {"average_delta": 0.8, "by_race": []}
	},
	"radar": {"points_efficiency": 57, "consistency": 81.6, "racecraft": 58, "reliability": 95.8, "winning_impact": 30, "pace": 70},
	"teammate": {
		"driver": {"code": "SAI", "name": null},
		"metrics": {"points_by_race": [{"round": 1, "race": "Bahrain Grand Prix", "points": 15}], "wins": 2}
	}
}`

func TestParseSeason(t *testing.T) {
	s, err := ParseSeason([]byte(seasonPayload))
	require.NoError(t, err)

	assert.Equal(t, 2024, s.Season)
	assert.Equal(t, DriverIdentity{Code: "LEC", Name: "Charles Leclerc", Team: "Ferrari"}, s.Driver)
	assert.Equal(t, 3, s.Metrics.Wins)
	assert.Equal(t, []string{"Canadian Grand Prix"}, s.Metrics.DNFRaces)
	assert.InDelta(t, 0.8, s.Metrics.QualiDelta, 1e-9)
	require.Len(t, s.Metrics.PointsByRace, 2)
	assert.Equal(t, RacePoints{Round: 2, Race: "Saudi Arabian Grand Prix", Points: 16}, s.Metrics.PointsByRace[1])

	require.Len(t, s.Radar, 6)
	assert.Equal(t, "points_efficiency", s.Radar[0].Key)
	assert.Equal(t, "pace", s.Radar[5].Key)
	assert.Equal(t, "Pace", s.Radar[5].Label)

	require.NotNil(t, s.Teammate)
	assert.Equal(t, "SAI", s.Teammate.Driver.Code)
	assert.InDelta(t, 15, s.Teammate.Metrics.TotalPoints, 1e-9)
	assert.InDelta(t, 15, s.Teammate.Metrics.PointsPerRace, 1e-9)
	// Teammate radar is derived when the backend omits it.
	require.Len(t, s.Teammate.Radar, 5)
	assert.InDelta(t, 20, s.Teammate.Radar[4].Value, 1e-9)
}

func TestParseSeasonWithoutTeammate(t *testing.T) {
	s, err := ParseSeason([]byte(`{"driver":{"code":"HAM"},"season":2024,"metrics":{},"teammate":null}`))
	require.NoError(t, err)
	assert.Nil(t, s.Teammate)
	assert.Len(t, s.Radar, 5)

	_, err = ParseSeason([]byte(`[]`))
	assert.Error(t, err)
}

func TestRadarFromMetrics(t *testing.T) {
	m := SeasonMetrics{
		PointsPerRace: 26,
		AvgFinish:     1,
		QualiDelta:    10,
		DNFs:          1,
		Wins:          15,
		PointsByRace:  make([]RacePoints, 4),
	}
	radar := RadarFromMetrics(m)
	require.Len(t, radar, 5)

	values := map[string]float64{}
	for _, a := range radar {
		values[a.Key] = a.Value
	}
	assert.InDelta(t, 100, values["points_efficiency"], 1e-9)
	assert.InDelta(t, 100, values["consistency"], 1e-9)
	assert.InDelta(t, 100, values["racecraft"], 1e-9)
	assert.InDelta(t, 75, values["reliability"], 1e-9)
	assert.InDelta(t, 100, values["winning_impact"], 1e-9)

	empty := RadarFromMetrics(SeasonMetrics{})
	for _, a := range empty {
		assert.GreaterOrEqual(t, a.Value, 0.0)
		assert.LessOrEqual(t, a.Value, 100.0)
	}
}

func TestParseComparisonShapes(t *testing.T) {
	shapes := map[string]string{
		"drivers map": `{"season":2024,"event":"Italian Grand Prix","drivers":{"VER":{"avg_lap_time":84.1,"best_lap_time":81.4,"laps":53},"NOR":{"avg_lap_time":84.0,"best_lap_time":81.3,"laps":53}},"source":"fastf1"}`,
		"data wrapper": `{"source":"fastf1","data":{"season":2024,"driverA":{"avg_lap_time":84.1,"best_lap_time":81.4,"laps":53},"driverB":{"avg_lap_time":84.0,"best_lap_time":81.3,"laps":53}}}`,
		"top level":    `{"season":2024,"driverA":{"avg_lap_time":84.1,"best_lap_time":81.4,"laps":53},"driverB":{"avg_lap_time":84.0,"best_lap_time":81.3,"laps":53}}`,
	}
	for name, raw := range shapes {
		t.Run(name, func(t *testing.T) {
			c, err := ParseComparison([]byte(raw), "VER", "NOR")
			require.NoError(t, err)
			assert.Equal(t, 2024, c.Season)
			assert.Equal(t, LapStats{Code: "VER", AvgLapTime: 84.1, BestLapTime: 81.4, Laps: 53}, c.DriverA)
			assert.Equal(t, "NOR", c.DriverB.Code)
			assert.InDelta(t, 81.3, c.DriverB.BestLapTime, 1e-9)
		})
	}

	_, err := ParseComparison([]byte(`{"error":"Driver comparison failed"}`), "VER", "NOR")
	assert.Error(t, err)
}

func TestParseTimeline(t *testing.T) {
	raw := []byte(`{
		"season": "2024",
		"rounds": [
			{"round": 1, "race": "Bahrain", "points": {"VER": 26, "NOR": 8}, "cumulative": {"VER": 26, "NOR": 8}, "winner": "VER"},
			{"round": 2, "race": "Jeddah", "points": {"VER": 25, "NOR": 10}}
		],
		"head_to_head": {"VER": 2, "NOR": 0}
	}`)

	tl, err := ParseTimeline(raw, "VER", "NOR")
	require.NoError(t, err)
	require.Len(t, tl.Rounds, 2)
	assert.InDelta(t, 51, tl.Rounds[1].CumulativeA, 1e-9)
	assert.InDelta(t, 18, tl.Rounds[1].CumulativeB, 1e-9)
	assert.Equal(t, "VER", tl.Rounds[1].Winner)
	assert.Equal(t, map[string]int{"VER": 2, "NOR": 0}, tl.HeadToHead)
}

func TestParseTimelineRebuildsHeadToHead(t *testing.T) {
	raw := []byte(`{"rounds":[{"points":{"A":1,"B":2}},{"points":{"A":5,"B":2}},{"points":{"A":0,"B":3}}]}`)

	tl, err := ParseTimeline(raw, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"A": 1, "B": 2}, tl.HeadToHead)
	assert.Equal(t, 3, tl.Rounds[2].Round)

	empty, err := ParseTimeline([]byte(`{"season":"2025","rounds":[]}`), "A", "B")
	require.NoError(t, err)
	assert.Empty(t, empty.Rounds)
}
