package templates

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"race-delta/normalize"
)

func Season(d SeasonPageData) templ.Component {
	return component(func(ctx context.Context, h *html) {
		s := d.Season
		name := s.Driver.Name
		if name == "" {
			name = d.Code
		}
		h.el("h1", "", fmt.Sprintf("%s · %d season", name, d.Year))
		if s.Driver.Team != "" {
			h.el("p", "muted", s.Driver.Team)
		}

		h.raw(`<form method="get"><label for="season">Season</label> <input id="season" name="season" type="number" min="1950" value="` + strconv.Itoa(d.Year) + `"> <button type="submit">Go</button></form>`)

		m := s.Metrics
		h.raw(`<div class="grid metrics">`)
		for _, kv := range [][2]string{
			{"Points", points(m.TotalPoints)},
			{"Points / race", fmt.Sprintf("%.2f", m.PointsPerRace)},
			{"Wins", strconv.Itoa(m.Wins)},
			{"Podiums", strconv.Itoa(m.Podiums)},
			{"DNFs", strconv.Itoa(m.DNFs)},
			{"Avg finish", fmt.Sprintf("%.1f", m.AvgFinish)},
		} {
			h.raw(`<div class="card">`)
			h.el("span", "muted", kv[0])
			h.el("strong", "", kv[1])
			h.raw("</div>")
		}
		h.raw("</div>")

		if len(m.PointsByRace) == 0 {
			h.child(ctx, EmptyState("No race results for this season yet."))
		} else {
			h.raw(`<img class="chart" alt="Points by race" src="/charts/season.svg?` + templ.EscapeString(d.ChartQS) + `">`)
		}

		if len(s.Radar) > 0 {
			h.el("h2", "", "Driver profile")
			h.raw(`<img class="chart" alt="Driver profile" src="/charts/radar.svg?` + templ.EscapeString(d.ChartQS) + `">`)
			h.child(ctx, radarTable(s))
		}

		if len(m.DNFRaces) > 0 {
			h.el("h2", "", "Retirements")
			h.raw("<ul>")
			for _, r := range m.DNFRaces {
				h.el("li", "", r)
			}
			h.raw("</ul>")
		}
	})
}

func radarTable(s normalize.Season) templ.Component {
	return component(func(_ context.Context, h *html) {
		var mate map[string]float64
		h.raw(`<table class="radar"><thead><tr><th>Metric</th>`)
		h.el("th", "", s.Driver.Code)
		if s.Teammate != nil {
			h.el("th", "", s.Teammate.Driver.Code)
			mate = make(map[string]float64, len(s.Teammate.Radar))
			for _, a := range s.Teammate.Radar {
				mate[a.Key] = a.Value
			}
		}
		h.raw("</tr></thead><tbody>")
		for _, a := range s.Radar {
			h.raw("<tr>")
			h.el("td", "", a.Label)
			h.el("td", "", fmt.Sprintf("%.1f", a.Value))
			if mate != nil {
				if v, ok := mate[a.Key]; ok {
					h.el("td", "", fmt.Sprintf("%.1f", v))
				} else {
					h.el("td", "", "-")
				}
			}
			h.raw("</tr>")
		}
		h.raw("</tbody></table>")
	})
}

func driverSelect(h *html, name, selected string, drivers []normalize.Driver) {
	if len(drivers) == 0 {
		h.raw(`<input name="` + name + `" placeholder="Code" value="` + templ.EscapeString(selected) + `">`)
		return
	}
	h.raw(`<select name="` + name + `"><option value="">Select driver</option>`)
	for _, d := range drivers {
		h.raw(`<option value="` + templ.EscapeString(d.Code) + `"`)
		if d.Code == selected {
			h.raw(" selected")
		}
		h.raw(">")
		h.text(d.Code + " · " + d.Name)
		h.raw("</option>")
	}
	h.raw("</select>")
}

func Compare(d ComparePageData) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.el("h1", "", "Head to head")
		h.raw(`<form method="get" action="/compare">`)
		driverSelect(h, "driver1", d.Driver1, d.Drivers)
		h.raw(" vs ")
		driverSelect(h, "driver2", d.Driver2, d.Drivers)
		h.raw(` <input name="season" value="` + templ.EscapeString(d.Season) + `" placeholder="current"> <button type="submit">Compare</button></form>`)

		if d.Message != "" {
			h.el("p", "muted", d.Message)
		}
		if d.Driver1 == "" || d.Driver2 == "" {
			h.child(ctx, EmptyState("Pick two drivers to compare."))
			return
		}

		if c := d.Comparison; c != nil {
			title := "Lap pace"
			if c.Event != "" {
				title += " · " + c.Event
			}
			h.el("h2", "", title)
			h.raw(`<table class="comparison"><thead><tr><th></th>`)
			h.el("th", "", c.DriverA.Code)
			h.el("th", "", c.DriverB.Code)
			h.raw("</tr></thead><tbody>")
			for _, row := range []struct {
				label string
				a, b  string
			}{
				{"Average lap", lapTime(c.DriverA.AvgLapTime), lapTime(c.DriverB.AvgLapTime)},
				{"Best lap", lapTime(c.DriverA.BestLapTime), lapTime(c.DriverB.BestLapTime)},
				{"Laps", strconv.Itoa(c.DriverA.Laps), strconv.Itoa(c.DriverB.Laps)},
			} {
				h.raw("<tr>")
				h.el("td", "", row.label)
				h.el("td", "", row.a)
				h.el("td", "", row.b)
				h.raw("</tr>")
			}
			h.raw("</tbody></table>")
			if c.Source != "" {
				h.el("p", "muted", "Source: "+c.Source)
			}
		}

		if t := d.Timeline; t != nil {
			h.el("h2", "", "Season timeline")
			if len(t.Rounds) == 0 {
				h.child(ctx, EmptyState("No rounds completed yet."))
				return
			}
			q := url.Values{"driver1": {d.Driver1}, "driver2": {d.Driver2}, "season": {d.Season}}
			h.raw(`<img class="chart" alt="Cumulative points" src="/charts/timeline.svg?` + templ.EscapeString(q.Encode()) + `">`)
			h.el("p", "", fmt.Sprintf("Finished ahead: %s %d · %s %d",
				t.DriverA, t.HeadToHead[t.DriverA], t.DriverB, t.HeadToHead[t.DriverB]))
			h.raw(`<table class="timeline"><thead><tr><th>Round</th><th>Race</th>`)
			h.el("th", "", t.DriverA)
			h.el("th", "", t.DriverB)
			h.raw("</tr></thead><tbody>")
			for _, r := range t.Rounds {
				h.raw("<tr>")
				h.el("td", "", strconv.Itoa(r.Round))
				h.el("td", "", r.Race)
				h.el("td", "", points(r.PointsA)+" ("+points(r.CumulativeA)+")")
				h.el("td", "", points(r.PointsB)+" ("+points(r.CumulativeB)+")")
				h.raw("</tr>")
			}
			h.raw("</tbody></table>")
		}
	})
}
