package f1api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"race-delta/normalize"
)

var ErrMissingParam = errors.New("missing required parameter")

// Drivers returns the current driver list. Successful non-empty results are
// cached for the drivers TTL; concurrent misses share one request.
func (c *Client) Drivers(ctx context.Context) ([]normalize.Driver, error) {
	c.driversMu.Lock()
	if c.drivers != nil && c.now().Sub(c.driversAt) < c.driversTTL {
		d := c.drivers
		c.driversMu.Unlock()
		return d, nil
	}
	c.driversMu.Unlock()

	// The shared fetch must not die with whichever caller started it.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan("drivers", func() (any, error) {
		raw, err := c.GetJSON(shared, "/drivers", nil)
		if err != nil {
			return nil, err
		}
		drivers := normalize.Drivers(raw)
		if len(drivers) == 0 {
			c.lggr.Warnw("Invalid drivers response", "bytes", len(raw))
			return drivers, nil
		}

		c.driversMu.Lock()
		c.drivers = drivers
		c.driversAt = c.now()
		c.driversMu.Unlock()
		return drivers, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("drivers: %w", res.Err)
		}
		return res.Val.([]normalize.Driver), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("drivers: %w", ctx.Err())
	}
}

// ForgetDrivers drops the cached driver list.
func (c *Client) ForgetDrivers() {
	c.driversMu.Lock()
	c.drivers = nil
	c.driversMu.Unlock()
}

func yearQuery(year int) url.Values {
	if year <= 0 {
		return nil
	}
	return url.Values{"year": {strconv.Itoa(year)}}
}

func (c *Client) Meetings(ctx context.Context, year int) ([]normalize.Meeting, error) {
	raw, err := c.GetJSON(ctx, "/meetings", yearQuery(year))
	if err != nil {
		return nil, fmt.Errorf("meetings: %w", err)
	}
	return normalize.Meetings(raw), nil
}

// Sessions returns the session overview, optionally for one meeting.
func (c *Client) Sessions(ctx context.Context, meetingKey string) (normalize.SessionsOverview, error) {
	var q url.Values
	if meetingKey != "" {
		q = url.Values{"meeting_key": {meetingKey}}
	}
	raw, err := c.GetJSON(ctx, "/sessions", q)
	if err != nil {
		return normalize.SessionsOverview{}, fmt.Errorf("sessions: %w", err)
	}
	return normalize.Sessions(raw), nil
}

func sessionDriverQuery(sessionKey string, driverNumber int) url.Values {
	q := url.Values{}
	if sessionKey != "" {
		q.Set("session_key", sessionKey)
	}
	if driverNumber > 0 {
		q.Set("driver_number", strconv.Itoa(driverNumber))
	}
	return q
}

func (c *Client) Laps(ctx context.Context, sessionKey string, driverNumber int) ([]normalize.Lap, error) {
	raw, err := c.GetJSON(ctx, "/laps", sessionDriverQuery(sessionKey, driverNumber))
	if err != nil {
		return nil, fmt.Errorf("laps: %w", err)
	}
	return normalize.Laps(raw), nil
}

func (c *Client) Positions(ctx context.Context, sessionKey string, driverNumber int) ([]normalize.Position, error) {
	raw, err := c.GetJSON(ctx, "/position", sessionDriverQuery(sessionKey, driverNumber))
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	return normalize.Positions(raw), nil
}

func (c *Client) Teams(ctx context.Context) ([]normalize.Team, error) {
	raw, err := c.GetJSON(ctx, "/teams", nil)
	if err != nil {
		return nil, fmt.Errorf("teams: %w", err)
	}
	return normalize.Teams(raw), nil
}

func (c *Client) TeamDetail(ctx context.Context, constructorID string) (normalize.Team, error) {
	if constructorID == "" {
		return normalize.Team{}, fmt.Errorf("team detail: constructor id: %w", ErrMissingParam)
	}
	raw, err := c.GetJSON(ctx, "/teams/"+url.PathEscape(constructorID), nil)
	if err != nil {
		return normalize.Team{}, fmt.Errorf("team %s: %w", constructorID, err)
	}
	return normalize.TeamDetail(raw)
}

// StandingsLatest returns the latest driver standings as served by
// /standings/latest.
func (c *Client) StandingsLatest(ctx context.Context, year int) ([]normalize.DriverStanding, error) {
	raw, err := c.GetJSON(ctx, "/standings/latest", yearQuery(year))
	if err != nil {
		return nil, fmt.Errorf("latest standings: %w", err)
	}
	return normalize.DriverStandings(raw), nil
}

func (c *Client) DriverStandings(ctx context.Context, year int) ([]normalize.DriverStanding, error) {
	raw, err := c.GetJSON(ctx, "/standings/drivers", yearQuery(year))
	if err != nil {
		return nil, fmt.Errorf("driver standings: %w", err)
	}
	return normalize.DriverStandings(raw), nil
}

func (c *Client) ConstructorStandings(ctx context.Context, year int) ([]normalize.ConstructorStanding, error) {
	raw, err := c.GetJSON(ctx, "/standings/constructors", yearQuery(year))
	if err != nil {
		return nil, fmt.Errorf("constructor standings: %w", err)
	}
	return normalize.ConstructorStandings(raw), nil
}

// DriverSeason returns L1 season analytics. Both arguments are required.
func (c *Client) DriverSeason(ctx context.Context, driverCode string, season int) (normalize.Season, error) {
	if driverCode == "" || season <= 0 {
		return normalize.Season{}, fmt.Errorf("driver season: driver code and season: %w", ErrMissingParam)
	}
	q := url.Values{"driver_code": {driverCode}, "season": {strconv.Itoa(season)}}
	raw, err := c.GetJSON(ctx, "/l1/season", q)
	if err != nil {
		return normalize.Season{}, fmt.Errorf("driver season: %w", err)
	}
	return normalize.ParseSeason(raw)
}

// Matchup names two drivers and a season ("current" or a year).
type Matchup struct {
	Driver1 string
	Driver2 string
	Season  string
}

func (m Matchup) query() (url.Values, error) {
	if m.Driver1 == "" || m.Driver2 == "" {
		return nil, fmt.Errorf("driver1 and driver2: %w", ErrMissingParam)
	}
	season := m.Season
	if season == "" {
		season = "current"
	}
	return url.Values{"driver1": {m.Driver1}, "driver2": {m.Driver2}, "season": {season}}, nil
}

func (c *Client) DriverComparison(ctx context.Context, m Matchup) (normalize.Comparison, error) {
	q, err := m.query()
	if err != nil {
		return normalize.Comparison{}, fmt.Errorf("comparison: %w", err)
	}
	raw, err := c.GetJSON(ctx, "/compare/drivers", q)
	if err != nil {
		return normalize.Comparison{}, fmt.Errorf("comparison: %w", err)
	}
	return normalize.ParseComparison(raw, m.Driver1, m.Driver2)
}

func (c *Client) DriverTimeline(ctx context.Context, m Matchup) (normalize.Timeline, error) {
	q, err := m.query()
	if err != nil {
		return normalize.Timeline{}, fmt.Errorf("timeline: %w", err)
	}
	raw, err := c.GetJSON(ctx, "/compare/drivers/timeline", q)
	if err != nil {
		return normalize.Timeline{}, fmt.Errorf("timeline: %w", err)
	}
	return normalize.ParseTimeline(raw, m.Driver1, m.Driver2)
}

func (c *Client) LiveLeaderboard(ctx context.Context, sessionID string) ([]normalize.LeaderboardEntry, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("live leaderboard: session id: %w", ErrMissingParam)
	}
	raw, err := c.GetJSON(ctx, "/session/"+url.PathEscape(sessionID)+"/live", nil)
	if err != nil {
		return nil, fmt.Errorf("live leaderboard: %w", err)
	}
	return normalize.Leaderboard(raw), nil
}

func (c *Client) SessionResults(ctx context.Context, sessionID string) ([]normalize.LeaderboardEntry, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session results: session id: %w", ErrMissingParam)
	}
	raw, err := c.GetJSON(ctx, "/session/"+url.PathEscape(sessionID)+"/results", nil)
	if err != nil {
		return nil, fmt.Errorf("session results: %w", err)
	}
	return normalize.Leaderboard(raw), nil
}

// Ping checks that the backend answers healthPath with JSON.
func (c *Client) Ping(ctx context.Context, healthPath string) error {
	if _, err := c.GetJSON(ctx, healthPath, nil); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
