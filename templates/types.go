package templates

import (
	"time"

	"race-delta/normalize"
)

type HomePageData struct {
	Meetings        []normalize.Meeting
	SelectedMeeting string
	Sessions        []normalize.Session
	SelectedSession string
	Leaderboard     []normalize.LeaderboardEntry
	// LeaderboardMessage replaces the leaderboard when timing failed to load.
	LeaderboardMessage string
	Podium          []normalize.LeaderboardEntry
	Circuit         *normalize.Circuit
	Standings       []normalize.DriverStanding
	UpdatedAt       time.Time
}

type DriversPageData struct {
	Drivers []normalize.Driver
	Colours map[string]string // team name -> hex colour
}

type TeamCard struct {
	Team   normalize.Team
	Colour string
}

type TeamsPageData struct {
	Teams []TeamCard
}

type TeamPageData struct {
	Team   normalize.Team
	Colour string
	Base   string
}

type StandingsPageData struct {
	Year         int
	Drivers      []normalize.DriverStanding
	Constructors []normalize.ConstructorStanding
}

type SeasonPageData struct {
	Code    string
	Year    int
	Season  normalize.Season
	ChartQS string // query string for the chart endpoints
}

type ComparePageData struct {
	Driver1    string
	Driver2    string
	Season     string
	Drivers    []normalize.Driver
	Comparison *normalize.Comparison
	Timeline   *normalize.Timeline
	Message    string // shown when one of the two payloads failed
}

type LivePageData struct {
	SessionID      string
	Entries        []normalize.LeaderboardEntry
	Laps           []normalize.Lap      // newest first
	Positions      []normalize.Position // latest per driver
	RefreshSeconds int
	UpdatedAt      time.Time
}
