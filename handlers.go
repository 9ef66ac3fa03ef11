package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"

	"race-delta/apibase"
	"race-delta/charts"
	"race-delta/f1api"
	"race-delta/normalize"
	"race-delta/templates"
)

func (a *app) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", a.homeHandler)
	mux.HandleFunc("GET /drivers", a.driversHandler)
	mux.HandleFunc("GET /drivers/{code}/season", a.seasonHandler)
	mux.HandleFunc("GET /teams", a.teamsHandler)
	mux.HandleFunc("GET /teams/{id}", a.teamHandler)
	mux.HandleFunc("GET /standings", a.standingsHandler)
	mux.HandleFunc("GET /compare", a.compareHandler)
	mux.HandleFunc("GET /session/{id}/live", a.liveHandler)

	mux.HandleFunc("GET /charts/season.svg", a.seasonChartHandler)
	mux.HandleFunc("GET /charts/radar.svg", a.radarChartHandler)
	mux.HandleFunc("GET /charts/timeline.svg", a.timelineChartHandler)

	mux.HandleFunc("GET /api/drivers", a.apiDriversHandler)
	mux.HandleFunc("GET /api/standings", a.apiStandingsHandler)
	mux.HandleFunc("GET /api/live/{id}", a.apiLiveHandler)
	mux.HandleFunc("GET /api/base", a.apiBaseHandler)
	mux.HandleFunc("DELETE /api/base", a.apiBaseClearHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /readyz", a.readyHandler)

	return withRequestLog(a.lggr.Named("http"), mux)
}

func (a *app) render(w http.ResponseWriter, r *http.Request, props templates.LayoutProps, status int, body templ.Component) {
	templ.Handler(templates.Layout(props, body), templ.WithStatus(status)).ServeHTTP(w, r)
}

// fail renders err as a page state. No backend is not an error for the
// visitor: the offline page is served with 200.
func (a *app) fail(w http.ResponseWriter, r *http.Request, props templates.LayoutProps, err error) {
	status, msg := errorStatus(err)
	if status == http.StatusOK {
		a.render(w, r, props, status, templates.Offline())
		return
	}
	if status >= http.StatusInternalServerError {
		a.lggr.Warnw("❌ Backend request failed", "path", r.URL.Path, "err", err)
	}
	a.render(w, r, props, status, templates.ErrorState(msg))
}

func errorStatus(err error) (int, string) {
	var apiErr *f1api.APIError
	switch {
	case f1api.IsUnavailable(err):
		return http.StatusOK, "no backend available"
	case errors.Is(err, f1api.ErrMissingParam):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound:
		return http.StatusNotFound, apiErr.Message
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, apiErr.Message
	default:
		return http.StatusBadGateway, err.Error()
	}
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (a *app) homeHandler(w http.ResponseWriter, r *http.Request) {
	props := templates.LayoutProps{Title: "Live", Active: "home"}
	ctx := r.Context()
	q := r.URL.Query()
	meeting := q.Get("meeting")

	var (
		overview  normalize.SessionsOverview
		standings []normalize.DriverStanding
		meetings  []normalize.Meeting
	)
	// Only sessions are required; standings and meetings degrade to nothing.
	optional := func(what string, err error) error {
		if err != nil && !f1api.IsUnavailable(err) {
			a.lggr.Debugw("Home section unavailable", "section", what, "err", err)
			return nil
		}
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		overview, err = a.api.Sessions(gctx, meeting)
		return err
	})
	g.Go(func() error {
		var err error
		standings, err = a.api.StandingsLatest(gctx, 0)
		return optional("standings", err)
	})
	g.Go(func() error {
		var err error
		meetings, err = a.api.Meetings(gctx, a.seasonYear(r))
		return optional("meetings", err)
	})
	if err := g.Wait(); err != nil {
		a.fail(w, r, props, err)
		return
	}

	data := templates.HomePageData{
		Meetings:        meetings,
		SelectedMeeting: meeting,
		Sessions:        overview.Sessions,
		Circuit:         overview.Circuit,
		Standings:       standings,
		UpdatedAt:       a.now(),
	}
	if len(data.Standings) == 0 {
		data.Standings = overview.Standings
	}
	if data.SelectedMeeting == "" && len(overview.Sessions) > 0 {
		data.SelectedMeeting = overview.Sessions[0].MeetingKey
	}

	data.SelectedSession = q.Get("session")
	if data.SelectedSession == "" && len(overview.Sessions) > 0 {
		data.SelectedSession = overview.Sessions[0].ID
	}
	if data.SelectedSession != "" {
		board, err := a.leaderboard(ctx, data.SelectedSession)
		switch {
		case f1api.IsUnavailable(err):
			a.fail(w, r, props, err)
			return
		case err != nil:
			a.lggr.Warnw("Leaderboard unavailable", "session", data.SelectedSession, "err", err)
			_, data.LeaderboardMessage = errorStatus(err)
		default:
			data.Leaderboard = board
			data.Podium = normalize.Podium(board)
		}
	}

	a.render(w, r, props, http.StatusOK, templates.Home(data))
}

// leaderboard prefers live timing and falls back to final results.
func (a *app) leaderboard(ctx context.Context, sessionID string) ([]normalize.LeaderboardEntry, error) {
	board, err := a.api.LiveLeaderboard(ctx, sessionID)
	if f1api.IsUnavailable(err) {
		return nil, err
	}
	if err == nil && len(board) > 0 {
		return board, nil
	}
	if err != nil {
		a.lggr.Debugw("Live leaderboard unavailable, trying results", "session", sessionID, "err", err)
	}
	results, rerr := a.api.SessionResults(ctx, sessionID)
	if rerr != nil {
		if err != nil {
			return nil, rerr
		}
		return board, nil
	}
	return results, nil
}

func (a *app) driversHandler(w http.ResponseWriter, r *http.Request) {
	props := templates.LayoutProps{Title: "Drivers", Active: "drivers"}
	drivers, err := a.api.Drivers(r.Context())
	if err != nil {
		a.fail(w, r, props, err)
		return
	}
	colours := make(map[string]string, len(drivers))
	for _, d := range drivers {
		if _, ok := colours[d.Team]; !ok {
			colours[d.Team] = a.teams.Colour(d.Team)
		}
	}
	a.render(w, r, props, http.StatusOK, templates.Drivers(templates.DriversPageData{Drivers: drivers, Colours: colours}))
}

func (a *app) teamsHandler(w http.ResponseWriter, r *http.Request) {
	props := templates.LayoutProps{Title: "Teams", Active: "teams"}
	teams, err := a.api.Teams(r.Context())
	if err != nil {
		a.fail(w, r, props, err)
		return
	}
	cards := make([]templates.TeamCard, 0, len(teams))
	for _, t := range teams {
		t = a.teams.Enrich(t)
		cards = append(cards, templates.TeamCard{Team: t, Colour: a.teams.Colour(t.Name)})
	}
	a.render(w, r, props, http.StatusOK, templates.Teams(templates.TeamsPageData{Teams: cards}))
}

func (a *app) teamHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	props := templates.LayoutProps{Title: "Team", Active: "teams"}
	team, err := a.api.TeamDetail(r.Context(), id)
	if err != nil {
		a.fail(w, r, props, err)
		return
	}
	team = a.teams.Enrich(team)
	data := templates.TeamPageData{Team: team, Colour: a.teams.Colour(team.Name)}
	if meta, ok := a.teams.Lookup(id); ok {
		data.Base = meta.Base
	} else if meta, ok := a.teams.Lookup(team.Name); ok {
		data.Base = meta.Base
	}
	props.Title = team.Name
	a.render(w, r, props, http.StatusOK, templates.Team(data))
}

func (a *app) standingsHandler(w http.ResponseWriter, r *http.Request) {
	props := templates.LayoutProps{Title: "Standings", Active: "standings"}
	data := templates.StandingsPageData{Year: queryInt(r, "year")}

	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		data.Drivers, err = a.api.DriverStandings(gctx, data.Year)
		return err
	})
	g.Go(func() error {
		var err error
		data.Constructors, err = a.api.ConstructorStandings(gctx, data.Year)
		return err
	})
	if err := g.Wait(); err != nil {
		a.fail(w, r, props, err)
		return
	}
	a.render(w, r, props, http.StatusOK, templates.Standings(data))
}

func (a *app) seasonYear(r *http.Request) int {
	if y := queryInt(r, "season"); y > 0 {
		return y
	}
	return a.now().Year()
}

func (a *app) seasonHandler(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.PathValue("code"))
	year := a.seasonYear(r)
	props := templates.LayoutProps{Title: code + " " + strconv.Itoa(year), Active: "drivers"}

	season, err := a.api.DriverSeason(r.Context(), code, year)
	if err != nil {
		a.fail(w, r, props, err)
		return
	}
	qs := url.Values{"code": {code}, "season": {strconv.Itoa(year)}}.Encode()
	a.render(w, r, props, http.StatusOK, templates.Season(templates.SeasonPageData{
		Code: code, Year: year, Season: season, ChartQS: qs,
	}))
}

func matchupFrom(r *http.Request) f1api.Matchup {
	q := r.URL.Query()
	return f1api.Matchup{
		Driver1: strings.ToUpper(strings.TrimSpace(q.Get("driver1"))),
		Driver2: strings.ToUpper(strings.TrimSpace(q.Get("driver2"))),
		Season:  strings.TrimSpace(q.Get("season")),
	}
}

func (a *app) compareHandler(w http.ResponseWriter, r *http.Request) {
	props := templates.LayoutProps{Title: "Compare", Active: "compare"}
	ctx := r.Context()
	m := matchupFrom(r)
	data := templates.ComparePageData{Driver1: m.Driver1, Driver2: m.Driver2, Season: m.Season}

	drivers, err := a.api.Drivers(ctx)
	if f1api.IsUnavailable(err) {
		a.fail(w, r, props, err)
		return
	}
	data.Drivers = drivers

	if m.Driver1 == "" || m.Driver2 == "" {
		a.render(w, r, props, http.StatusOK, templates.Compare(data))
		return
	}

	// Either half may fail on its own; the page shows whatever arrived.
	var (
		wg            sync.WaitGroup
		cmpErr, tlErr error
	)
	wg.Go(func() {
		c, err := a.api.DriverComparison(ctx, m)
		if err == nil {
			data.Comparison = &c
		}
		cmpErr = err
	})
	wg.Go(func() {
		t, err := a.api.DriverTimeline(ctx, m)
		if err == nil {
			data.Timeline = &t
		}
		tlErr = err
	})
	wg.Wait()

	if cmpErr != nil && tlErr != nil {
		a.fail(w, r, props, cmpErr)
		return
	}
	for _, err := range []error{cmpErr, tlErr} {
		if err != nil {
			_, msg := errorStatus(err)
			data.Message = msg
			a.lggr.Debugw("Partial comparison", "driver1", m.Driver1, "driver2", m.Driver2, "err", err)
		}
	}
	a.render(w, r, props, http.StatusOK, templates.Compare(data))
}

const recentLaps = 20

func (a *app) liveHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	refresh := int(a.cfg.LiveRefresh.Seconds())
	props := templates.LayoutProps{Title: "Live timing", Active: "home", RefreshSeconds: refresh}
	data := templates.LivePageData{SessionID: id, RefreshSeconds: refresh}

	// The leaderboard is required; laps and positions are extras.
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		data.Entries, err = a.api.LiveLeaderboard(gctx, id)
		return err
	})
	g.Go(func() error {
		laps, err := a.api.Laps(gctx, id, queryInt(r, "driver"))
		if err != nil {
			a.lggr.Debugw("Laps unavailable", "session", id, "err", err)
			return nil
		}
		data.Laps = normalize.RecentLaps(laps, recentLaps)
		return nil
	})
	g.Go(func() error {
		positions, err := a.api.Positions(gctx, id, 0)
		if err != nil {
			a.lggr.Debugw("Positions unavailable", "session", id, "err", err)
			return nil
		}
		data.Positions = normalize.LatestPositions(positions)
		return nil
	})
	if err := g.Wait(); err != nil {
		a.fail(w, r, props, err)
		return
	}
	data.UpdatedAt = a.now()
	a.render(w, r, props, http.StatusOK, templates.Live(data))
}

func (a *app) writeSVG(w http.ResponseWriter, svg []byte, err error) {
	switch {
	case errors.Is(err, charts.ErrNoData):
		http.Error(w, err.Error(), http.StatusNotFound)
	case f1api.IsUnavailable(err):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case err != nil:
		status, msg := errorStatus(err)
		http.Error(w, msg, status)
	default:
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=300")
		_, _ = w.Write(svg)
	}
}

func (a *app) chartSeason(r *http.Request) (normalize.Season, error) {
	code := strings.ToUpper(r.URL.Query().Get("code"))
	return a.api.DriverSeason(r.Context(), code, a.seasonYear(r))
}

func (a *app) seasonChartHandler(w http.ResponseWriter, r *http.Request) {
	season, err := a.chartSeason(r)
	if err != nil {
		a.writeSVG(w, nil, err)
		return
	}
	opts := charts.Options{Primary: a.teams.Colour(season.Driver.Team)}
	if season.Teammate != nil {
		opts.Secondary = "#6B7280"
	}
	svg, err := charts.SeasonPoints(season, opts)
	a.writeSVG(w, svg, err)
}

func (a *app) radarChartHandler(w http.ResponseWriter, r *http.Request) {
	season, err := a.chartSeason(r)
	if err != nil {
		a.writeSVG(w, nil, err)
		return
	}
	title := season.Driver.Code + " profile"
	svg, err := charts.Radar(title, season.Radar, charts.Options{Primary: a.teams.Colour(season.Driver.Team)})
	a.writeSVG(w, svg, err)
}

func (a *app) timelineChartHandler(w http.ResponseWriter, r *http.Request) {
	tl, err := a.api.DriverTimeline(r.Context(), matchupFrom(r))
	if err != nil {
		a.writeSVG(w, nil, err)
		return
	}
	svg, err := charts.Timeline(tl, charts.Options{})
	a.writeSVG(w, svg, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, err error) {
	status, msg := errorStatus(err)
	if status == http.StatusOK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func (a *app) apiDriversHandler(w http.ResponseWriter, r *http.Request) {
	drivers, err := a.api.Drivers(r.Context())
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"drivers": drivers})
}

func (a *app) apiStandingsHandler(w http.ResponseWriter, r *http.Request) {
	year := queryInt(r, "year")
	var (
		drivers      []normalize.DriverStanding
		constructors []normalize.ConstructorStanding
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		drivers, err = a.api.DriverStandings(gctx, year)
		return err
	})
	g.Go(func() (err error) {
		constructors, err = a.api.ConstructorStandings(gctx, year)
		return err
	})
	if err := g.Wait(); err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"drivers": drivers, "constructors": constructors})
}

func (a *app) apiLiveHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := a.api.LiveLeaderboard(r.Context(), r.PathValue("id"))
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"drivers": entries})
}

type baseReport struct {
	Origin      string                `json:"origin,omitempty"`
	Available   bool                  `json:"available"`
	Persistent  bool                  `json:"persistent"`
	Candidates  []string              `json:"candidates"`
	LastAttempt []apibase.ProbeResult `json:"last_attempt"`
}

func (a *app) report(ctx context.Context) baseReport {
	origin, ok := a.resolver.Resolve(ctx)
	return baseReport{
		Origin:      origin,
		Available:   ok,
		Persistent:  a.resolver.Persistent(),
		Candidates:  a.resolver.Candidates(),
		LastAttempt: a.resolver.LastAttempt(),
	}
}

// readyHandler reports ready once the resolved backend answers its health
// path.
func (a *app) readyHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.api.Ping(r.Context(), a.cfg.HealthPath); err != nil {
		writeJSONError(w, err)
		return
	}
	origin, _ := a.resolver.Resolve(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "origin": origin})
}

func (a *app) apiBaseHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.report(r.Context()))
}

func (a *app) apiBaseClearHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.forgetBackend(r.Context()); err != nil {
		a.lggr.Errorw("❌ Clearing api base failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	a.lggr.Infow("Api base cleared")
	w.WriteHeader(http.StatusNoContent)
}
