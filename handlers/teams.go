// handlers/teams.go - Leaderboard HTTP Handlers
package handlers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"capboard/database"
	"capboard/middleware"
	"capboard/models"
	"capboard/scoring"
	"capboard/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	teamService   *services.TeamService
	reasonService *services.ReasonService
)

// InitHandlers initializes the shared services
func InitHandlers() {
	db := database.GetDB()
	if db == nil {
		panic("Database not initialized before InitHandlers")
	}
	teamService = services.NewTeamService(db)
	reasonService = services.NewReasonService(db)
}

// teamView is a team annotated with its rank and cap classification so
// clients don't re-implement the ladder.
type teamView struct {
	models.Team
	Rank     int         `json:"rank"`
	Cap      scoring.Cap `json:"cap"`
	Progress float64     `json:"progress"`
}

func viewOf(team models.Team, rank int) teamView {
	cap := teamService.Scheme().Classify(team.Score)
	return teamView{
		Team:     team,
		Rank:     rank,
		Cap:      cap,
		Progress: cap.Progress(team.Score),
	}
}

// ================== TEAM CRUD ENDPOINTS ==================

// GetTeams returns the full leaderboard in rank order
// GET /api/teams
func GetTeams(c *fiber.Ctx) error {
	teams, err := teamService.ListTeams()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to retrieve teams",
		})
	}

	views := make([]teamView, len(teams))
	for i, t := range teams {
		views[i] = viewOf(t, i+1)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"teams":   views,
		"count":   len(views),
	})
}

// GetTeam returns one team with its cap classification and history
// GET /api/teams/:id
func GetTeam(c *fiber.Ctx) error {
	teamID, err := parseID(c)
	if err != nil {
		return err
	}

	team, err := teamService.GetTeam(teamID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "Team not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"team":    viewOf(*team, 0),
	})
}

// CreateTeam creates a new team; a nonzero initial score becomes the
// first ledger event
// POST /api/teams
func CreateTeam(c *fiber.Ctx) error {
	var req struct {
		Name   string `json:"name"`
		Icon   string `json:"icon"`
		Score  int    `json:"score"`
		Reason string `json:"reason"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Team name is required",
		})
	}

	team, err := teamService.CreateTeam(req.Name, req.Icon, req.Score, req.Reason)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	NotifyLeaderboard("teams_updated")

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "Team created successfully",
		"team":    team,
	})
}

// UpdateTeam renames a team or changes its icon
// PUT /api/teams/:id
func UpdateTeam(c *fiber.Ctx) error {
	teamID, err := parseID(c)
	if err != nil {
		return err
	}

	var req struct {
		Name string `json:"name"`
		Icon string `json:"icon"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	team, err := teamService.UpdateTeam(teamID, req.Name, req.Icon)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"error":   "Team not found",
			})
		}
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to update team",
		})
	}

	NotifyLeaderboard("teams_updated")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Team updated successfully",
		"team":    team,
	})
}

// AdjustPoints appends one ledger event and moves the cached score
// POST /api/teams/:id/points
func AdjustPoints(c *fiber.Ctx) error {
	teamID, err := parseID(c)
	if err != nil {
		return err
	}

	var req struct {
		Points int    `json:"points"`
		Reason string `json:"reason"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	team, err := teamService.AdjustPoints(teamID, req.Points, req.Reason, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"error":   "Team not found",
			})
		case errors.Is(err, scoring.ErrReasonRequired):
			return c.Status(400).JSON(fiber.Map{
				"success": false,
				"error":   "Please provide a reason for adding/subtracting points",
			})
		default:
			return c.Status(500).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to adjust points",
			})
		}
	}

	if actor, aerr := middleware.GetUserID(c); aerr == nil {
		log.Printf("Points adjustment: team %d %+d (%s) by user %d", teamID, req.Points, req.Reason, actor)
	}

	NotifyLeaderboard("teams_updated")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Points recorded",
		"team":    viewOf(*team, 0),
	})
}

// DeleteTeam removes a team and its history
// DELETE /api/teams/:id
func DeleteTeam(c *fiber.Ctx) error {
	teamID, err := parseID(c)
	if err != nil {
		return err
	}

	if err := teamService.DeleteTeam(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"error":   "Team not found",
			})
		}
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to delete team",
		})
	}

	NotifyLeaderboard("teams_updated")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Team deleted successfully",
	})
}

// GetTeamReasons returns the catalog entries the team may claim next:
// tagged for the cap it is chasing and not already in its history
// GET /api/teams/:id/reasons
func GetTeamReasons(c *fiber.Ctx) error {
	teamID, err := parseID(c)
	if err != nil {
		return err
	}

	team, err := teamService.GetTeam(teamID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "Team not found",
		})
	}

	catalog, err := reasonService.ListReasons()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to retrieve reasons",
		})
	}

	available := teamService.AvailableReasons(team, catalog)
	target := teamService.Scheme().Target(team.Score)

	return c.JSON(fiber.Map{
		"success": true,
		"target":  target,
		"reasons": available,
	})
}

// parseID reads the :id route param. The returned error is a
// fiber.Error carrying the 400 so callers can return it straight to
// the error handler without touching the response themselves.
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid ID")
	}
	return uint(id), nil
}
