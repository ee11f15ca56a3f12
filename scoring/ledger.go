// scoring/ledger.go - Append-only point history
package scoring

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrReasonRequired is returned when a nonzero point change arrives
// without a reason.
var ErrReasonRequired = errors.New("a reason is required when points change")

// Event is one recorded point adjustment. Events are immutable once
// appended; only whole-team deletion removes them. The JSON shape
// {points, reason, date} is the persisted wire format and must not
// change.
type Event struct {
	Points int    `json:"points"`
	Reason string `json:"reason"`
	Date   string `json:"date"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// When parses the event timestamp. Dates arrive either as full ISO-8601
// timestamps or as bare YYYY-MM-DD from older records.
func (e Event) When() (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, e.Date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Day returns the calendar date (YYYY-MM-DD) the event falls on. The
// time-of-day component is dropped for bucketing.
func (e Event) Day() string {
	if len(e.Date) >= 10 {
		return e.Date[:10]
	}
	return e.Date
}

// History is a team's ordered event sequence. Insertion order is the
// order of recording, which may differ from the order of event dates.
type History []Event

// Append validates and records one point change. A zero delta is a
// no-op; a nonzero delta without a reason is rejected before any state
// changes. The caller is responsible for adding delta to the team's
// cached score, which remains the authoritative total.
func (h History) Append(delta int, reason string, at time.Time) (History, error) {
	if delta == 0 {
		return h, nil
	}
	if reason == "" {
		return h, ErrReasonRequired
	}

	return append(h, Event{
		Points: delta,
		Reason: reason,
		Date:   at.UTC().Format(time.RFC3339),
	}), nil
}

// Sum totals the recorded point deltas. Diagnostic only; the cached
// score is authoritative.
func (h History) Sum() int {
	total := 0
	for _, e := range h {
		total += e.Points
	}
	return total
}

// SeedScore derives the portion of a team's score not explained by its
// history: the value it was created with.
func (h History) SeedScore(score int) int {
	return score - h.Sum()
}

// UsedReasons collects the reason labels already spent by this team.
// Matching is case-sensitive: the dropdown filter compares the stored
// strings exactly.
func (h History) UsedReasons() map[string]bool {
	used := make(map[string]bool, len(h))
	for _, e := range h {
		used[e.Reason] = true
	}
	return used
}

// LastUpdate returns the timestamp of the most recently recorded event.
// Teams with no history report false and sort as "oldest" in
// leaderboard tie-breaks.
func (h History) LastUpdate() (time.Time, bool) {
	if len(h) == 0 {
		return time.Time{}, false
	}
	return h[len(h)-1].When()
}

// SortedByDate returns a copy ordered by event date ascending. The sort
// is stable so events sharing a date keep their recording order.
// Events with unparseable dates sort first.
func (h History) SortedByDate() History {
	out := make(History, len(h))
	copy(out, h)
	sort.SliceStable(out, func(i, j int) bool {
		ti, iok := out[i].When()
		tj, jok := out[j].When()
		if !iok || !jok {
			return !iok && jok
		}
		return ti.Before(tj)
	})
	return out
}

// Value serializes the history for the single text column it lives in.
func (h History) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan restores the history from its text column. NULL and empty
// strings load as an empty history.
func (h *History) Scan(value interface{}) error {
	if value == nil {
		*h = History{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into History", value)
	}

	if len(raw) == 0 {
		*h = History{}
		return nil
	}
	return json.Unmarshal(raw, h)
}
