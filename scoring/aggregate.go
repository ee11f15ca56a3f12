// scoring/aggregate.go - History replay and reporting views
package scoring

import (
	"errors"
	"sort"
	"time"
)

// ErrUnknownWindow is returned for window kinds other than
// weekly/monthly/yearly.
var ErrUnknownWindow = errors.New("unknown report window")

// Window kinds accepted by WindowRange.
const (
	WindowWeekly  = "weekly"
	WindowMonthly = "monthly"
	WindowYearly  = "yearly"
)

var windowDays = map[string]int{
	WindowWeekly:  7,
	WindowMonthly: 30,
	WindowYearly:  365,
}

// TeamLedger is the in-memory snapshot the aggregator works on: the
// cached score plus the recorded history of one team.
type TeamLedger struct {
	ID      uint
	Name    string
	Icon    string
	Score   int
	History History
}

// Seed derives the score the team started with before any recorded
// events.
func (t TeamLedger) Seed() int {
	return t.History.SeedScore(t.Score)
}

// WindowRange resolves a window kind to [start, end] anchored at now:
// end is the end of today, start is the beginning of the day N days
// back (7, 30 or 365).
func WindowRange(kind string, now time.Time) (time.Time, time.Time, error) {
	days, ok := windowDays[kind]
	if !ok {
		return time.Time{}, time.Time{}, ErrUnknownWindow
	}

	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
	from := now.AddDate(0, 0, -days)
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, now.Location())
	return start, end, nil
}

// DailyPoints sums event points per calendar day across all teams for
// events falling inside [start, end]. Events with unparseable dates are
// skipped.
func DailyPoints(teams []TeamLedger, start, end time.Time) map[string]int {
	buckets := make(map[string]int)
	eachInWindow(teams, start, end, func(_ TeamLedger, e Event) {
		buckets[e.Day()] += e.Points
	})
	return buckets
}

// DailyActivity counts events per calendar day across all teams for
// events falling inside [start, end].
func DailyActivity(teams []TeamLedger, start, end time.Time) map[string]int {
	buckets := make(map[string]int)
	eachInWindow(teams, start, end, func(_ TeamLedger, e Event) {
		buckets[e.Day()]++
	})
	return buckets
}

func eachInWindow(teams []TeamLedger, start, end time.Time, fn func(TeamLedger, Event)) {
	for _, t := range teams {
		for _, e := range t.History {
			when, ok := e.When()
			if !ok {
				continue
			}
			if when.Before(start) || when.After(end) {
				continue
			}
			fn(t, e)
		}
	}
}

// Crossing reports which team first reached a cap boundary. Known is
// false when the fastest team's seed score alone already met the
// boundary: no recorded event explains the crossing, so no date is
// invented for it.
type Crossing struct {
	Band  string `json:"band"`
	Team  string `json:"team"`
	Date  string `json:"date,omitempty"`
	Known bool   `json:"known"`
}

// FirstCrossings replays every team's history per cap boundary and
// reports, for each band above the floor, the team that crossed it
// earliest. Replay sorts each team's events by date ascending (stable,
// recording order breaks ties) starting from the team's seed score.
// Teams whose seed already meets a boundary count as having crossed at
// an unknown time; a team with a dated crossing always beats them.
// Bands nobody has reached are omitted.
func FirstCrossings(teams []TeamLedger, s Scheme) []Crossing {
	var out []Crossing

	for _, band := range s.Bands {
		if band.Min <= 0 {
			continue
		}

		var best *Crossing
		var bestAt time.Time

		for _, t := range teams {
			at, dated, reached := crossingTime(t, band.Min)
			if !reached {
				continue
			}

			switch {
			case best == nil:
				best = &Crossing{Band: band.Name, Team: t.Name, Known: dated}
				bestAt = at
				if dated {
					best.Date = at.Format("2006-01-02")
				}
			case dated && (!best.Known || at.Before(bestAt)):
				best = &Crossing{Band: band.Name, Team: t.Name, Date: at.Format("2006-01-02"), Known: true}
				bestAt = at
			}
		}

		if best != nil {
			out = append(out, *best)
		}
	}

	return out
}

// crossingTime finds when a single team's running score first met min.
// dated is false when the seed alone already met it.
func crossingTime(t TeamLedger, min int) (at time.Time, dated, reached bool) {
	running := t.Seed()
	if running >= min {
		return time.Time{}, false, true
	}

	for _, e := range t.History.SortedByDate() {
		running += e.Points
		if running >= min {
			when, ok := e.When()
			if !ok {
				return time.Time{}, false, true
			}
			return when, true, true
		}
	}
	return time.Time{}, false, false
}

// Trend is the cumulative score of every team sampled at each distinct
// event date across the whole board.
type Trend struct {
	Dates  []string      `json:"dates"`
	Series []TrendSeries `json:"series"`
}

type TrendSeries struct {
	Team   string `json:"team"`
	Points []int  `json:"points"`
}

// CumulativeTrend walks the global sorted list of distinct event days
// and accumulates each team's points recorded on or before each day,
// starting from the team's seed score. Teams without history contribute
// a flat baseline.
func CumulativeTrend(teams []TeamLedger) Trend {
	seen := make(map[string]bool)
	for _, t := range teams {
		for _, e := range t.History {
			if _, ok := e.When(); ok {
				seen[e.Day()] = true
			}
		}
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	trend := Trend{Dates: dates, Series: make([]TrendSeries, 0, len(teams))}
	for _, t := range teams {
		points := make([]int, len(dates))
		for i, d := range dates {
			total := t.Seed()
			for _, e := range t.History {
				if _, ok := e.When(); ok && e.Day() <= d {
					total += e.Points
				}
			}
			points[i] = total
		}
		trend.Series = append(trend.Series, TrendSeries{Team: t.Name, Points: points})
	}
	return trend
}

// MostActiveDay finds the calendar day with the most recorded events
// across all history. Ties resolve to the earliest such day so the
// answer is stable. ok is false when no datable events exist.
func MostActiveDay(teams []TeamLedger) (day string, count int, ok bool) {
	counts := make(map[string]int)
	for _, t := range teams {
		for _, e := range t.History {
			if _, valid := e.When(); valid {
				counts[e.Day()]++
			}
		}
	}

	for d, n := range counts {
		if n > count || (n == count && (day == "" || d < day)) {
			day, count = d, n
		}
	}
	return day, count, count > 0
}

// ReasonBreakdown counts recorded events per reason label across all
// teams.
func ReasonBreakdown(teams []TeamLedger) map[string]int {
	counts := make(map[string]int)
	for _, t := range teams {
		for _, e := range t.History {
			if e.Reason != "" {
				counts[e.Reason]++
			}
		}
	}
	return counts
}

// CapCount pairs a cap name with how many teams currently hold it.
type CapCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CapCounts tallies teams per cap band, in band order.
func CapCounts(teams []TeamLedger, s Scheme) []CapCount {
	out := make([]CapCount, len(s.Bands))
	for i, b := range s.Bands {
		out[i] = CapCount{Name: b.Name}
	}
	for _, t := range teams {
		out[s.Classify(t.Score).Level].Count++
	}
	return out
}

// Activity is one ledger event annotated with its team, for the recent
// activity feed.
type Activity struct {
	Team   string `json:"team"`
	Icon   string `json:"icon"`
	Points int    `json:"points"`
	Reason string `json:"reason"`
	Date   string `json:"date"`
}

// RecentActivity flattens all histories into a single feed sorted by
// event date descending (stable, so same-day events keep their board
// order) and truncated to limit entries.
func RecentActivity(teams []TeamLedger, limit int) []Activity {
	var feed []Activity
	times := make([]time.Time, 0)

	for _, t := range teams {
		for _, e := range t.History {
			when, ok := e.When()
			if !ok {
				continue
			}
			feed = append(feed, Activity{
				Team:   t.Name,
				Icon:   t.Icon,
				Points: e.Points,
				Reason: e.Reason,
				Date:   e.Day(),
			})
			times = append(times, when)
		}
	}

	idx := make([]int, len(feed))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return times[idx[i]].After(times[idx[j]])
	})

	if limit > 0 && limit < len(idx) {
		idx = idx[:limit]
	}

	out := make([]Activity, len(idx))
	for i, k := range idx {
		out[i] = feed[k]
	}
	return out
}
