package templates

import (
	"context"
	"fmt"
	"strconv"

	"github.com/a-h/templ"

	"race-delta/normalize"
)

func Home(d HomePageData) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.el("h1", "", "Race weekend")

		if len(d.Meetings) > 0 {
			h.raw(`<form method="get" action="/"><label for="meeting">Race weekend</label> <select id="meeting" name="meeting" onchange="this.form.submit()">`)
			for _, m := range d.Meetings {
				h.raw(`<option value="` + templ.EscapeString(m.Key) + `"`)
				if m.Key == d.SelectedMeeting {
					h.raw(" selected")
				}
				h.raw(">")
				h.text(m.Name)
				h.raw("</option>")
			}
			h.raw(`</select> <noscript><button type="submit">Show</button></noscript></form>`)
		}
		if len(d.Sessions) > 0 {
			h.raw(`<form method="get" action="/">`)
			if d.SelectedMeeting != "" {
				h.raw(`<input type="hidden" name="meeting" value="` + templ.EscapeString(d.SelectedMeeting) + `">`)
			}
			h.raw(`<label for="session">Session</label> <select id="session" name="session" onchange="this.form.submit()">`)
			for _, s := range d.Sessions {
				h.raw(`<option value="` + templ.EscapeString(s.ID) + `"`)
				if s.ID == d.SelectedSession {
					h.raw(" selected")
				}
				h.raw(">")
				h.text(s.Name)
				h.raw("</option>")
			}
			h.raw(`</select> <noscript><button type="submit">Show</button></noscript></form>`)
		}
		if d.SelectedSession != "" {
			h.link(pathJoin("session", d.SelectedSession, "live"), "", "Open live timing")
		}

		if c := d.Circuit; c != nil {
			h.raw(`<section class="card circuit">`)
			h.el("h3", "", c.Name)
			where := c.Location
			if c.Country != "" {
				if where != "" {
					where += ", "
				}
				where += c.Country
			}
			h.el("p", "muted", where)
			if c.Laps > 0 || c.LengthKm > 0 {
				h.el("p", "", fmt.Sprintf("%d laps · %.3f km", c.Laps, c.LengthKm))
			}
			h.raw("</section>")
		}

		if len(d.Podium) > 0 {
			h.el("h2", "", "Podium")
			h.raw(`<div class="grid podium">`)
			for _, e := range d.Podium {
				h.raw(`<div class="card">`)
				h.el("strong", "", ordinal(e.Position))
				h.el("p", "", e.Name)
				h.el("p", "muted", e.Team)
				h.raw("</div>")
			}
			h.raw("</div>")
		}

		h.el("h2", "", "Leaderboard")
		if d.LeaderboardMessage != "" {
			h.child(ctx, EmptyState("Timing unavailable: "+d.LeaderboardMessage))
		} else if len(d.Leaderboard) == 0 {
			h.child(ctx, EmptyState("No timing data for this session yet."))
		} else {
			h.child(ctx, Leaderboard(d.Leaderboard))
		}
		if u := updated(d.UpdatedAt); u != "" {
			h.el("p", "muted", u)
		}

		if len(d.Standings) > 0 {
			h.el("h2", "", "Championship")
			h.child(ctx, driverStandingsTable(d.Standings))
		}
	})
}

// Leaderboard renders timing rows. Used by the home and live pages.
func Leaderboard(entries []normalize.LeaderboardEntry) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<table class="leaderboard"><thead><tr><th>Pos</th><th>#</th><th>Driver</th><th>Team</th><th>Time</th><th>Gap</th></tr></thead><tbody>`)
		for _, e := range entries {
			h.raw("<tr>")
			h.el("td", "", strconv.Itoa(e.Position))
			h.el("td", "", itoa(e.Number))
			h.el("td", "", e.Name)
			h.el("td", "", e.Team)
			h.el("td", "", e.Time)
			h.el("td", "", e.Gap)
			h.raw("</tr>")
		}
		h.raw("</tbody></table>")
	})
}

func Live(d LivePageData) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.el("h1", "", "Live timing · session "+d.SessionID)
		if d.RefreshSeconds > 0 {
			h.el("p", "muted", fmt.Sprintf("Refreshes every %ds.", d.RefreshSeconds))
		}
		if len(d.Entries) == 0 {
			h.child(ctx, EmptyState("Waiting for timing data."))
		} else {
			h.child(ctx, Leaderboard(d.Entries))
		}
		if len(d.Positions) > 0 {
			h.el("h2", "", "Positions")
			h.raw(`<table class="positions"><thead><tr><th>Pos</th><th>#</th><th>As of</th></tr></thead><tbody>`)
			for _, p := range d.Positions {
				h.raw("<tr>")
				h.el("td", "", itoa(p.Position))
				h.el("td", "", itoa(p.DriverNumber))
				h.el("td", "muted", p.Date)
				h.raw("</tr>")
			}
			h.raw("</tbody></table>")
		}
		if len(d.Laps) > 0 {
			h.el("h2", "", "Recent laps")
			h.raw(`<table class="laps"><thead><tr><th>Lap</th><th>#</th><th>Time</th><th>S1</th><th>S2</th><th>S3</th></tr></thead><tbody>`)
			for _, l := range d.Laps {
				h.raw("<tr>")
				lap := itoa(l.Number)
				if l.PitOut {
					lap += " (out)"
				}
				h.el("td", "", lap)
				h.el("td", "", itoa(l.DriverNumber))
				h.el("td", "", lapTime(l.Duration))
				h.el("td", "", lapTime(l.Sector1))
				h.el("td", "", lapTime(l.Sector2))
				h.el("td", "", lapTime(l.Sector3))
				h.raw("</tr>")
			}
			h.raw("</tbody></table>")
		}
		if u := updated(d.UpdatedAt); u != "" {
			h.el("p", "muted", u)
		}
	})
}

func Drivers(d DriversPageData) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.el("h1", "", "Drivers")
		if len(d.Drivers) == 0 {
			h.child(ctx, EmptyState("No drivers returned by the backend."))
			return
		}
		h.raw(`<div class="grid drivers">`)
		for _, dr := range d.Drivers {
			h.raw(`<div class="card" style="--team:` + templ.EscapeString(d.Colours[dr.Team]) + `">`)
			if dr.Photo != "" {
				h.raw(`<img src="` + templ.EscapeString(dr.Photo) + `" alt="" width="64" height="64">`)
			}
			h.el("strong", "", "#"+strconv.Itoa(dr.Number)+" "+dr.Code)
			h.el("p", "", dr.Name)
			h.el("p", "muted", dr.Team)
			h.link(pathJoin("drivers", dr.Code, "season"), "", "Season analytics")
			h.raw("</div>")
		}
		h.raw("</div>")
	})
}

func Teams(d TeamsPageData) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.el("h1", "", "Teams")
		if len(d.Teams) == 0 {
			h.child(ctx, EmptyState("No teams returned by the backend."))
			return
		}
		h.raw(`<div class="grid teams">`)
		for _, c := range d.Teams {
			t := c.Team
			h.raw(`<div class="card" style="--team:` + templ.EscapeString(c.Colour) + `">`)
			if t.Position > 0 {
				h.el("span", "muted", ordinal(t.Position))
			}
			if t.ID != "" {
				h.raw("<h3>")
				h.link(pathJoin("teams", t.ID), "", t.Name)
				h.raw("</h3>")
			} else {
				h.el("h3", "", t.Name)
			}
			h.el("p", "", points(t.Points)+" pts · "+strconv.Itoa(t.Wins)+" wins")
			h.el("p", "muted", strconv.Itoa(t.DriverCount)+" drivers")
			h.raw("</div>")
		}
		h.raw("</div>")
	})
}

func Team(d TeamPageData) templ.Component {
	return component(func(_ context.Context, h *html) {
		t := d.Team
		h.raw(`<section class="card team" style="--team:` + templ.EscapeString(d.Colour) + `">`)
		h.el("h1", "", t.Name)
		h.raw("<dl>")
		for _, row := range [][2]string{
			{"Position", ordinal(t.Position)},
			{"Points", points(t.Points)},
			{"Wins", strconv.Itoa(t.Wins)},
			{"Team principal", t.Principal},
			{"Power unit", t.Engine},
			{"Car", t.Car},
			{"Base", d.Base},
			{"Nationality", t.Nationality},
		} {
			if row[1] == "" {
				continue
			}
			h.el("dt", "", row[0])
			h.el("dd", "", row[1])
		}
		h.raw("</dl>")
		if len(t.Drivers) > 0 {
			h.el("h2", "", "Drivers")
			h.raw("<ul>")
			for _, dr := range t.Drivers {
				label := dr.Name
				if dr.Number > 0 {
					label = "#" + strconv.Itoa(dr.Number) + " " + label
				}
				h.el("li", "", label)
			}
			h.raw("</ul>")
		}
		h.raw("</section>")
	})
}

func driverStandingsTable(rows []normalize.DriverStanding) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<table class="standings drivers"><thead><tr><th>Pos</th><th>Driver</th><th>Team</th><th>Wins</th><th>Points</th></tr></thead><tbody>`)
		for _, s := range rows {
			h.raw("<tr>")
			h.el("td", "", strconv.Itoa(s.Position))
			if s.Code != "" {
				h.raw("<td>")
				h.link(pathJoin("drivers", s.Code, "season"), "", s.Name)
				h.raw("</td>")
			} else {
				h.el("td", "", s.Name)
			}
			h.el("td", "", s.Team)
			h.el("td", "", strconv.Itoa(s.Wins))
			h.el("td", "", points(s.Points))
			h.raw("</tr>")
		}
		h.raw("</tbody></table>")
	})
}

func Standings(d StandingsPageData) templ.Component {
	return component(func(ctx context.Context, h *html) {
		title := "Standings"
		if d.Year > 0 {
			title = strconv.Itoa(d.Year) + " standings"
		}
		h.el("h1", "", title)

		h.el("h2", "", "Drivers")
		if len(d.Drivers) == 0 {
			h.child(ctx, EmptyState("No driver standings available."))
		} else {
			h.child(ctx, driverStandingsTable(d.Drivers))
		}

		h.el("h2", "", "Constructors")
		if len(d.Constructors) == 0 {
			h.child(ctx, EmptyState("No constructor standings available."))
			return
		}
		h.raw(`<table class="standings constructors"><thead><tr><th>Pos</th><th>Team</th><th>Wins</th><th>Points</th></tr></thead><tbody>`)
		for _, s := range d.Constructors {
			h.raw("<tr>")
			h.el("td", "", strconv.Itoa(s.Position))
			if s.ConstructorID != "" {
				h.raw("<td>")
				h.link(pathJoin("teams", s.ConstructorID), "", s.Name)
				h.raw("</td>")
			} else {
				h.el("td", "", s.Name)
			}
			h.el("td", "", strconv.Itoa(s.Wins))
			h.el("td", "", points(s.Points))
			h.raw("</tr>")
		}
		h.raw("</tbody></table>")
	})
}
