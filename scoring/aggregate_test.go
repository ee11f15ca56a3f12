package scoring_test

import (
	"testing"
	"time"

	"capboard/scoring"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWindowRange(t *testing.T) {
	Convey("Given a fixed anchor date", t, func() {
		now := time.Date(2023, 10, 15, 14, 30, 0, 0, time.UTC)

		Convey("When resolving the weekly window", func() {
			start, end, err := scoring.WindowRange(scoring.WindowWeekly, now)

			Convey("Then it spans the last 7 days at day granularity", func() {
				So(err, ShouldBeNil)
				So(start.Format("2006-01-02 15:04:05"), ShouldEqual, "2023-10-08 00:00:00")
				So(end.Format("2006-01-02 15:04:05"), ShouldEqual, "2023-10-15 23:59:59")
			})
		})

		Convey("When resolving the monthly and yearly windows", func() {
			mStart, _, mErr := scoring.WindowRange(scoring.WindowMonthly, now)
			yStart, _, yErr := scoring.WindowRange(scoring.WindowYearly, now)

			Convey("Then they reach back 30 and 365 days", func() {
				So(mErr, ShouldBeNil)
				So(mStart.Format("2006-01-02"), ShouldEqual, "2023-09-15")
				So(yErr, ShouldBeNil)
				So(yStart.Format("2006-01-02"), ShouldEqual, "2022-10-15")
			})
		})

		Convey("When resolving an unknown window kind", func() {
			_, _, err := scoring.WindowRange("fortnightly", now)

			Convey("Then it is rejected", func() {
				So(err, ShouldEqual, scoring.ErrUnknownWindow)
			})
		})
	})
}

func TestDailyBuckets(t *testing.T) {
	Convey("Given teams with events inside and outside the window", t, func() {
		now := time.Date(2023, 10, 15, 12, 0, 0, 0, time.UTC)
		start, end, err := scoring.WindowRange(scoring.WindowWeekly, now)
		So(err, ShouldBeNil)

		teams := []scoring.TeamLedger{
			{Name: "Alpha", Score: 150, History: scoring.History{
				{Points: 100, Reason: "A", Date: "2023-10-10T09:00:00Z"},
				{Points: 50, Reason: "B", Date: "2023-10-10T17:00:00Z"},
			}},
			{Name: "Beta", Score: 900, History: scoring.History{
				{Points: 900, Reason: "old", Date: "2023-09-01"},
			}},
			{Name: "Gamma", Score: 0},
		}

		Convey("When summing daily points", func() {
			points := scoring.DailyPoints(teams, start, end)

			Convey("Then same-day events collapse into one bucket", func() {
				So(points, ShouldHaveLength, 1)
				So(points["2023-10-10"], ShouldEqual, 150)
			})
		})

		Convey("When counting daily activity", func() {
			counts := scoring.DailyActivity(teams, start, end)

			Convey("Then each event counts once", func() {
				So(counts["2023-10-10"], ShouldEqual, 2)
			})

			Convey("And out-of-window events never appear", func() {
				_, present := counts["2023-09-01"]
				So(present, ShouldBeFalse)
			})
		})

		Convey("When aggregating an empty team list", func() {
			points := scoring.DailyPoints(nil, start, end)
			counts := scoring.DailyActivity(nil, start, end)

			Convey("Then the result is empty, not a panic", func() {
				So(points, ShouldBeEmpty)
				So(counts, ShouldBeEmpty)
			})
		})
	})
}

func TestFirstCrossings(t *testing.T) {
	Convey("Given the test cap scheme", t, func() {
		scheme := testScheme()

		Convey("When a team crossed a boundary through recorded events", func() {
			teams := []scoring.TeamLedger{
				{Name: "Alpha", Score: 1500, History: scoring.History{
					// Recorded out of date order on purpose
					{Points: 800, Reason: "r1", Date: "2023-09-05"},
					{Points: 700, Reason: "r2", Date: "2023-09-01"},
				}},
			}

			crossings := scoring.FirstCrossings(teams, scheme)

			Convey("Then replay follows date order, not recording order", func() {
				So(crossings, ShouldHaveLength, 1)
				So(crossings[0].Band, ShouldEqual, "Orange Cap")
				So(crossings[0].Team, ShouldEqual, "Alpha")
				So(crossings[0].Known, ShouldBeTrue)
				So(crossings[0].Date, ShouldEqual, "2023-09-05")
			})
		})

		Convey("When only a seed score explains the boundary", func() {
			teams := []scoring.TeamLedger{
				{Name: "Beta", Score: 1200},
			}

			crossings := scoring.FirstCrossings(teams, scheme)

			Convey("Then the crossing is reported without inventing a date", func() {
				So(crossings, ShouldHaveLength, 1)
				So(crossings[0].Team, ShouldEqual, "Beta")
				So(crossings[0].Known, ShouldBeFalse)
				So(crossings[0].Date, ShouldBeEmpty)
			})
		})

		Convey("When a dated crossing competes with a seed-only one", func() {
			teams := []scoring.TeamLedger{
				{Name: "Beta", Score: 1200},
				{Name: "Alpha", Score: 1500, History: scoring.History{
					{Points: 1500, Reason: "big", Date: "2023-09-05"},
				}},
			}

			crossings := scoring.FirstCrossings(teams, scheme)

			Convey("Then the dated crossing wins", func() {
				So(crossings[0].Team, ShouldEqual, "Alpha")
				So(crossings[0].Known, ShouldBeTrue)
			})
		})

		Convey("When two teams crossed on different dates", func() {
			teams := []scoring.TeamLedger{
				{Name: "Late", Score: 1100, History: scoring.History{
					{Points: 1100, Reason: "x", Date: "2023-09-20"},
				}},
				{Name: "Early", Score: 1000, History: scoring.History{
					{Points: 1000, Reason: "y", Date: "2023-09-02"},
				}},
			}

			crossings := scoring.FirstCrossings(teams, scheme)

			Convey("Then the earliest date wins regardless of input order", func() {
				So(crossings[0].Team, ShouldEqual, "Early")
				So(crossings[0].Date, ShouldEqual, "2023-09-02")
			})
		})

		Convey("When no team has reached a boundary", func() {
			teams := []scoring.TeamLedger{
				{Name: "Small", Score: 100, History: scoring.History{
					{Points: 100, Reason: "tiny", Date: "2023-09-01"},
				}},
			}

			crossings := scoring.FirstCrossings(teams, scheme)

			Convey("Then that boundary is omitted", func() {
				So(crossings, ShouldBeEmpty)
			})
		})
	})
}

func TestCumulativeTrend(t *testing.T) {
	Convey("Given one active and one idle team", t, func() {
		teams := []scoring.TeamLedger{
			{Name: "Alpha", Score: 1500, History: scoring.History{
				{Points: 800, Reason: "r1", Date: "2023-09-05"},
				{Points: 700, Reason: "r2", Date: "2023-09-01"},
			}},
			{Name: "Beta", Score: 1200},
		}

		trend := scoring.CumulativeTrend(teams)

		Convey("Then the date axis is the sorted distinct event days", func() {
			So(trend.Dates, ShouldResemble, []string{"2023-09-01", "2023-09-05"})
		})

		Convey("Then the active team accumulates from its seed", func() {
			So(trend.Series[0].Team, ShouldEqual, "Alpha")
			So(trend.Series[0].Points, ShouldResemble, []int{700, 1500})
		})

		Convey("Then the idle team holds a flat baseline", func() {
			So(trend.Series[1].Team, ShouldEqual, "Beta")
			So(trend.Series[1].Points, ShouldResemble, []int{1200, 1200})
		})
	})

	Convey("Given no teams at all", t, func() {
		trend := scoring.CumulativeTrend(nil)

		Convey("Then the trend is empty and well-formed", func() {
			So(trend.Dates, ShouldBeEmpty)
			So(trend.Series, ShouldBeEmpty)
		})
	})
}

func TestBoardStats(t *testing.T) {
	Convey("Given a small board with history", t, func() {
		teams := []scoring.TeamLedger{
			{Name: "Alpha", Icon: "fa-brain", Score: 700, History: scoring.History{
				{Points: 500, Reason: "Launch MVP", Date: "2023-10-01"},
				{Points: 200, Reason: "Weekly Streak", Date: "2023-10-08"},
			}},
			{Name: "Beta", Icon: "fa-atom", Score: 3100, History: scoring.History{
				{Points: 100, Reason: "Launch MVP", Date: "2023-10-08"},
			}},
		}

		Convey("When finding the most active day", func() {
			day, count, ok := scoring.MostActiveDay(teams)

			Convey("Then the busiest calendar day wins", func() {
				So(ok, ShouldBeTrue)
				So(day, ShouldEqual, "2023-10-08")
				So(count, ShouldEqual, 2)
			})
		})

		Convey("When breaking down by reason", func() {
			counts := scoring.ReasonBreakdown(teams)

			Convey("Then events tally per label across teams", func() {
				So(counts["Launch MVP"], ShouldEqual, 2)
				So(counts["Weekly Streak"], ShouldEqual, 1)
			})
		})

		Convey("When tallying caps", func() {
			levels := scoring.CapCounts(teams, testScheme())

			Convey("Then each team lands in exactly one band", func() {
				So(levels[0].Name, ShouldEqual, "No Cap")
				So(levels[0].Count, ShouldEqual, 1)
				So(levels[2].Name, ShouldEqual, "Green Cap")
				So(levels[2].Count, ShouldEqual, 1)
			})
		})

		Convey("When building the recent activity feed", func() {
			feed := scoring.RecentActivity(teams, 2)

			Convey("Then newest events come first and the limit holds", func() {
				So(feed, ShouldHaveLength, 2)
				So(feed[0].Date, ShouldEqual, "2023-10-08")
				So(feed[0].Team, ShouldEqual, "Alpha")
				So(feed[1].Date, ShouldEqual, "2023-10-08")
				So(feed[1].Team, ShouldEqual, "Beta")
			})
		})

		Convey("When the board is empty", func() {
			_, _, ok := scoring.MostActiveDay(nil)

			Convey("Then there is no most active day", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}
