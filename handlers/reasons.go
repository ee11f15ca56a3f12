// handlers/reasons.go - Reason Catalog HTTP Handlers
package handlers

import (
	"errors"

	"capboard/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type reasonRequest struct {
	Reason      string `json:"reason"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	CapType     string `json:"cap_type"`
}

// GetReasons returns the whole catalog
// GET /api/reasons
func GetReasons(c *fiber.Ctx) error {
	reasons, err := reasonService.ListReasons()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to retrieve reasons",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"reasons": reasons,
		"count":   len(reasons),
	})
}

// CreateReason adds a catalog entry (admin only)
// POST /api/reasons
func CreateReason(c *fiber.Ctx) error {
	var req reasonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	reason, err := reasonService.CreateReason(req.Reason, req.Description, req.Points, req.CapType)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateReason) {
			return c.Status(400).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		}
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "Reason created successfully",
		"reason":  reason,
	})
}

// UpdateReason edits a catalog entry (admin only)
// PUT /api/reasons/:id
func UpdateReason(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req reasonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	reason, err := reasonService.UpdateReason(id, req.Reason, req.Description, req.Points, req.CapType)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"error":   "Reason not found",
			})
		case errors.Is(err, services.ErrDuplicateReason):
			return c.Status(400).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		default:
			return c.Status(400).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Reason updated successfully",
		"reason":  reason,
	})
}

// DeleteReason removes a catalog entry; recorded team history keeps the
// reason text (admin only)
// DELETE /api/reasons/:id
func DeleteReason(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := reasonService.DeleteReason(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"error":   "Reason not found",
			})
		}
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to delete reason",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Reason deleted successfully",
	})
}
