package normalize

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

var radarAxes = []struct{ key, label string }{
	{"points_efficiency", "Points efficiency"},
	{"consistency", "Consistency"},
	{"racecraft", "Racecraft"},
	{"reliability", "Reliability"},
	{"winning_impact", "Winning impact"},
}

// ParseSeason accepts the L1 season payload:
//
//	{"driver": {...}, "season": 2024, "metrics": {...}, "radar": {...}, "teammate": {...}|null}
//
// The radar may be an object of axis scores or a list of {key, value}; when it
// is missing it is derived from the metrics.
func ParseSeason(raw []byte) (Season, error) {
	obj := Object(raw)
	if obj == nil {
		return Season{}, fmt.Errorf("season: not a JSON object")
	}
	if nested := obj.Record("data"); nested != nil && !obj.Has("metrics") {
		obj = nested
	}

	s := Season{
		Driver:  identityFrom(obj.Record("driver")),
		Season:  obj.IntOr(0, "season", "year"),
		Metrics: metricsFrom(obj.Record("metrics")),
	}
	s.Radar = radarFrom(obj, s.Metrics)

	if tm := obj.Record("teammate"); tm != nil {
		m := metricsFrom(tm.Record("metrics"))
		s.Teammate = &SeasonOverlay{
			Driver:  identityFrom(tm.Record("driver")),
			Metrics: m,
			Radar:   radarFrom(tm, m),
		}
	}
	return s, nil
}

func identityFrom(r Record) DriverIdentity {
	if r == nil {
		return DriverIdentity{}
	}
	return DriverIdentity{
		Code:  r.String("code", "driver_code", "name_acronym"),
		Name:  fullName(r, "name", "driver_name", "full_name"),
		Team:  r.String("team", "team_name"),
		Image: r.String("image", "headshot_url"),
	}
}

func metricsFrom(r Record) SeasonMetrics {
	if r == nil {
		return SeasonMetrics{}
	}
	m := SeasonMetrics{
		TotalPoints:   r.FloatOr(0, "total_points", "points"),
		PointsPerRace: r.FloatOr(0, "points_per_race"),
		Wins:          r.IntOr(0, "wins"),
		Podiums:       r.IntOr(0, "podiums"),
		DNFs:          r.IntOr(0, "dnf_count", "dnfs"),
		AvgFinish:     r.FloatOr(0, "avg_finish"),
	}
	if q := r.Record("q_vs_race"); q != nil {
		m.QualiDelta = q.FloatOr(0, "average_delta")
	} else {
		m.QualiDelta = r.FloatOr(0, "q_vs_race_delta")
	}
	if races, ok := r["dnf_races"].([]any); ok {
		for _, v := range races {
			if s, ok := v.(string); ok {
				m.DNFRaces = append(m.DNFRaces, s)
			}
		}
	}
	for i, p := range r.List("points_by_race") {
		m.PointsByRace = append(m.PointsByRace, RacePoints{
			Round:  p.IntOr(i+1, "round"),
			Race:   p.String("race", "name"),
			Points: p.FloatOr(0, "points"),
		})
	}
	if m.TotalPoints == 0 {
		for _, p := range m.PointsByRace {
			m.TotalPoints += p.Points
		}
	}
	if m.PointsPerRace == 0 && len(m.PointsByRace) > 0 {
		m.PointsPerRace = math.Round(m.TotalPoints/float64(len(m.PointsByRace))*100) / 100
	}
	return m
}

func radarFrom(obj Record, m SeasonMetrics) []RadarAxis {
	if scores := obj.Record("radar"); scores != nil {
		out := make([]RadarAxis, 0, len(scores))
		seen := map[string]bool{}
		for _, a := range radarAxes {
			if v, ok := scores.Float(a.key); ok {
				out = append(out, RadarAxis{Key: a.key, Label: a.label, Value: v})
				seen[a.key] = true
			}
		}
		var extra []string
		for k := range scores {
			if !seen[k] {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		for _, k := range extra {
			if v, ok := scores.Float(k); ok {
				out = append(out, RadarAxis{Key: k, Label: labelFor(k), Value: v})
			}
		}
		return out
	}
	if list := obj.List("radar"); list != nil {
		out := make([]RadarAxis, 0, len(list))
		for _, r := range list {
			k := r.String("key", "axis", "name")
			out = append(out, RadarAxis{Key: k, Label: r.String("label"), Value: r.FloatOr(0, "value", "score")})
			if out[len(out)-1].Label == "" {
				out[len(out)-1].Label = labelFor(k)
			}
		}
		return out
	}
	return RadarFromMetrics(m)
}

func labelFor(key string) string {
	for _, a := range radarAxes {
		if a.key == key {
			return a.label
		}
	}
	l := strings.ReplaceAll(key, "_", " ")
	if l == "" {
		return l
	}
	return strings.ToUpper(l[:1]) + l[1:]
}

// RadarFromMetrics scores season metrics on 0-100 axes: points per race
// against a 26 point maximum, average finish over a 20 car grid, quali-to-race
// delta over a +/-5 window, DNF rate, and wins capped at ten.
func RadarFromMetrics(m SeasonMetrics) []RadarAxis {
	races := float64(len(m.PointsByRace))

	consistency := 0.0
	if m.AvgFinish > 0 {
		consistency = clamp((1 - (m.AvgFinish-1)/19) * 100)
	}
	reliability := 0.0
	if races > 0 {
		reliability = clamp((1 - float64(m.DNFs)/races) * 100)
	}

	values := []float64{
		clamp(m.PointsPerRace / 26 * 100),
		consistency,
		clamp((m.QualiDelta + 5) / 10 * 100),
		reliability,
		clamp(math.Min(float64(m.Wins)/10, 1) * 100),
	}
	out := make([]RadarAxis, len(radarAxes))
	for i, a := range radarAxes {
		out[i] = RadarAxis{Key: a.key, Label: a.label, Value: values[i]}
	}
	return out
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, round1(v)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ParseComparison accepts any of:
//
//	{"season": 2024, "event": "...", "drivers": {"VER": {...}, "NOR": {...}}, "source": "fastf1"}
//	{"source": "...", "data": {"driverA": {...}, "driverB": {...}}}
//	{"driverA": {...}, "driverB": {...}}
func ParseComparison(raw []byte, codeA, codeB string) (Comparison, error) {
	obj := Object(raw)
	if obj == nil {
		return Comparison{}, fmt.Errorf("comparison: not a JSON object")
	}

	c := Comparison{
		Season: obj.IntOr(0, "season"),
		Event:  obj.String("event", "race"),
		Source: obj.String("source"),
	}

	var a, b Record
	switch {
	case obj.Record("drivers") != nil:
		drivers := obj.Record("drivers")
		a, b = drivers.Record(codeA), drivers.Record(codeB)
	case obj.Record("data") != nil:
		data := obj.Record("data")
		a, b = data.Record("driverA", codeA), data.Record("driverB", codeB)
		if c.Season == 0 {
			c.Season = data.IntOr(0, "season")
		}
	default:
		a, b = obj.Record("driverA", codeA), obj.Record("driverB", codeB)
	}
	if a == nil && b == nil {
		return Comparison{}, fmt.Errorf("comparison: no data for %s or %s", codeA, codeB)
	}

	c.DriverA = lapStatsFrom(a, codeA)
	c.DriverB = lapStatsFrom(b, codeB)
	return c, nil
}

func lapStatsFrom(r Record, code string) LapStats {
	if r == nil {
		return LapStats{Code: code}
	}
	return LapStats{
		Code:        code,
		AvgLapTime:  r.FloatOr(0, "avg_lap_time", "average_lap"),
		BestLapTime: r.FloatOr(0, "best_lap_time", "best_lap"),
		Laps:        r.IntOr(0, "laps", "lap_count"),
	}
}

// ParseTimeline accepts {"season": ..., "rounds": [...], "head_to_head": {...}}
// where each round carries per-driver "points" and optionally "cumulative"
// objects keyed by driver code. Missing cumulative totals are computed, and a
// missing head-to-head tally is rebuilt from the rounds.
func ParseTimeline(raw []byte, codeA, codeB string) (Timeline, error) {
	obj := Object(raw)
	if obj == nil {
		return Timeline{}, fmt.Errorf("timeline: not a JSON object")
	}

	tl := Timeline{
		Season:     obj.String("season"),
		DriverA:    codeA,
		DriverB:    codeB,
		Rounds:     []TimelineRound{},
		HeadToHead: map[string]int{codeA: 0, codeB: 0},
	}

	var cumA, cumB float64
	rounds := obj.List("rounds", "timeline")
	for i, r := range rounds {
		pts := r.Record("points")
		if pts == nil {
			pts = Record{}
		}
		tr := TimelineRound{
			Round:   r.IntOr(i+1, "round"),
			Race:    r.String("race", "name"),
			PointsA: pts.FloatOr(0, codeA),
			PointsB: pts.FloatOr(0, codeB),
			Winner:  r.String("winner"),
		}
		cumA += tr.PointsA
		cumB += tr.PointsB
		tr.CumulativeA, tr.CumulativeB = cumA, cumB
		if cum := r.Record("cumulative"); cum != nil {
			tr.CumulativeA = cum.FloatOr(cumA, codeA)
			tr.CumulativeB = cum.FloatOr(cumB, codeB)
		}
		if tr.Winner == "" {
			tr.Winner = codeB
			if tr.PointsA > tr.PointsB {
				tr.Winner = codeA
			}
		}
		tl.Rounds = append(tl.Rounds, tr)
	}

	if h2h := obj.Record("head_to_head"); h2h != nil {
		tl.HeadToHead[codeA] = h2h.IntOr(0, codeA)
		tl.HeadToHead[codeB] = h2h.IntOr(0, codeB)
	} else {
		for _, r := range tl.Rounds {
			tl.HeadToHead[r.Winner]++
		}
	}
	return tl, nil
}
