package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"race-delta/normalize"
)

func TestSeasonPoints(t *testing.T) {
	s := normalize.Season{
		Driver: normalize.DriverIdentity{Code: "LEC"},
		Season: 2024,
		Metrics: normalize.SeasonMetrics{PointsByRace: []normalize.RacePoints{
			{Round: 1, Race: "Bahrain", Points: 15},
			{Round: 2, Race: "Saudi Arabia", Points: 12},
			{Round: 3, Race: "Australia", Points: 19},
		}},
		Teammate: &normalize.SeasonOverlay{
			Driver: normalize.DriverIdentity{Code: "SAI"},
			Metrics: normalize.SeasonMetrics{PointsByRace: []normalize.RacePoints{
				{Round: 1, Points: 10}, {Round: 3, Points: 25},
			}},
		},
	}

	svg, err := SeasonPoints(s, Options{Primary: "#DC0000"})
	require.NoError(t, err)
	out := string(svg)
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "LEC")
	assert.Contains(t, out, "SAI")
}

func TestSeasonPointsSingleRound(t *testing.T) {
	s := normalize.Season{Metrics: normalize.SeasonMetrics{PointsByRace: []normalize.RacePoints{{Points: 0}}}}

	svg, err := SeasonPoints(s, Options{})
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
}

func TestTimeline(t *testing.T) {
	tl := normalize.Timeline{
		Season: "2024", DriverA: "VER", DriverB: "NOR",
		Rounds: []normalize.TimelineRound{
			{Round: 1, CumulativeA: 26, CumulativeB: 12},
			{Round: 2, CumulativeA: 51, CumulativeB: 27},
		},
	}

	svg, err := Timeline(tl, Options{Width: 400, Height: 200})
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
	assert.Contains(t, string(svg), "NOR")
}

func TestRadar(t *testing.T) {
	axes := normalize.RadarFromMetrics(normalize.SeasonMetrics{
		TotalPoints: 200, PointsPerRace: 9, Wins: 2, Podiums: 8, AvgFinish: 4.2,
	})

	svg, err := Radar("LEC 2024", axes, Options{})
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
}

func TestNoData(t *testing.T) {
	_, err := SeasonPoints(normalize.Season{}, Options{})
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Timeline(normalize.Timeline{}, Options{})
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Radar("x", nil, Options{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{Primary: "#ff8000", Secondary: "#FF8000"}.withDefaults()
	assert.Equal(t, DefaultWidth, o.Width)
	assert.Equal(t, DefaultHeight, o.Height)
	assert.Equal(t, fallbackSecondary, o.Secondary)
}
