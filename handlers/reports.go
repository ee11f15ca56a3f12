// handlers/reports.go - Analytics HTTP Handlers
package handlers

import (
	"errors"
	"sort"
	"time"

	"capboard/scoring"
	"capboard/services"

	"github.com/gofiber/fiber/v2"
)

// GetSummary returns the headline numbers for the report view
// GET /api/reports/summary
func GetSummary(c *fiber.Ctx) error {
	teams, err := teamService.ListTeams()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to retrieve teams",
		})
	}

	totalPoints := 0
	for _, t := range teams {
		totalPoints += t.Score
	}

	topTeam := ""
	if len(teams) > 0 {
		// ListTeams already returns leaderboard order
		topTeam = teams[0].Name
	}

	day, count, ok := scoring.MostActiveDay(services.Ledgers(teams))
	summary := fiber.Map{
		"total_points": totalPoints,
		"team_count":   len(teams),
		"top_team":     topTeam,
	}
	if ok {
		summary["most_active_day"] = day
		summary["most_active_count"] = count
	}

	return c.JSON(fiber.Map{
		"success": true,
		"summary": summary,
	})
}

// GetMomentum returns daily point totals and activity counts for a
// rolling window (weekly, monthly or yearly) anchored at now
// GET /api/reports/momentum?window=weekly
func GetMomentum(c *fiber.Ctx) error {
	kind := c.Query("window", scoring.WindowWeekly)

	start, end, err := scoring.WindowRange(kind, time.Now())
	if err != nil {
		if errors.Is(err, scoring.ErrUnknownWindow) {
			return c.Status(400).JSON(fiber.Map{
				"success": false,
				"error":   "Window must be weekly, monthly or yearly",
			})
		}
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to resolve window",
		})
	}

	teams, err := teamService.ListTeams()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to retrieve teams",
		})
	}

	ledgers := services.Ledgers(teams)
	points := scoring.DailyPoints(ledgers, start, end)
	activity := scoring.DailyActivity(ledgers, start, end)

	dates := make([]string, 0, len(points))
	for d := range points {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	pointSeries := make([]int, len(dates))
	countSeries := make([]int, len(dates))
	for i, d := range dates {
		pointSeries[i] = points[d]
		countSeries[i] = activity[d]
	}

	return c.JSON(fiber.Map{
		"success": true,
		"window":  kind,
		"dates":   dates,
		"points":  pointSeries,
		"counts":  countSeries,
	})
}

// GetCrossings reports which team first reached each cap boundary.
// Crossings a team earned through its seed score alone carry no date
// and are marked known=false.
// GET /api/reports/crossings
func GetCrossings(c *fiber.Ctx) error {
	teams, err := teamService.ListTeams()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to retrieve teams",
		})
	}

	crossings := scoring.FirstCrossings(services.Ledgers(teams), teamService.Scheme())

	return c.JSON(fiber.Map{
		"success":   true,
		"crossings": crossings,
	})
}

// GetTrend returns every team's cumulative score sampled at each
// distinct event date
// GET /api/reports/trend
func GetTrend(c *fiber.Ctx) error {
	teams, err := teamService.ListTeams()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to retrieve teams",
		})
	}

	trend := scoring.CumulativeTrend(services.Ledgers(teams))

	return c.JSON(fiber.Map{
		"success": true,
		"trend":   trend,
	})
}

// GetLevels tallies how many teams hold each cap
// GET /api/reports/levels
func GetLevels(c *fiber.Ctx) error {
	teams, err := teamService.ListTeams()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to retrieve teams",
		})
	}

	levels := scoring.CapCounts(services.Ledgers(teams), teamService.Scheme())

	return c.JSON(fiber.Map{
		"success": true,
		"levels":  levels,
	})
}

// GetBreakdown counts recorded events per reason
// GET /api/reports/breakdown
func GetBreakdown(c *fiber.Ctx) error {
	teams, err := teamService.ListTeams()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to retrieve teams",
		})
	}

	counts := scoring.ReasonBreakdown(services.Ledgers(teams))

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	series := make([]int, len(labels))
	for i, label := range labels {
		series[i] = counts[label]
	}

	return c.JSON(fiber.Map{
		"success": true,
		"labels":  labels,
		"counts":  series,
	})
}

// GetActivity returns the most recent ledger events across all teams,
// newest first
// GET /api/reports/activity?limit=10
func GetActivity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)

	teams, err := teamService.ListTeams()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to retrieve teams",
		})
	}

	feed := scoring.RecentActivity(services.Ledgers(teams), limit)

	return c.JSON(fiber.Map{
		"success":    true,
		"activities": feed,
	})
}
