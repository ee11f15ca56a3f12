// handlers/admin/users.go - Admin user management
package admin

import (
	"capboard/database"
	"capboard/models"

	"github.com/gofiber/fiber/v2"
)

// GetUsers returns all users with pagination. Password hashes never
// serialize.
// GET /api/admin/users
func GetUsers(c *fiber.Ctx) error {
	db := database.GetDB()

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	search := c.Query("search", "")

	offset := (page - 1) * limit

	var users []models.User
	var total int64

	query := db.Model(&models.User{})
	if search != "" {
		query = query.Where("email LIKE ?", "%"+search+"%")
	}

	query.Count(&total)

	if err := query.Order("id").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch users",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// DeleteUser removes a non-admin account
// DELETE /api/admin/users/:id
func DeleteUser(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "User not found",
		})
	}

	if user.IsAdmin {
		return c.Status(403).JSON(fiber.Map{
			"success": false,
			"error":   "Cannot delete admin users",
		})
	}

	if err := db.Delete(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to delete user",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully",
	})
}

// PromoteUser grants or revokes the admin role
// POST /api/admin/users/:id/promote
func PromoteUser(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "User not found",
		})
	}

	var req struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	var admins int64
	db.Model(&models.User{}).Where("is_admin = ?", true).Count(&admins)
	if demotionLocksBoard(user, req.IsAdmin, admins) {
		return c.Status(403).JSON(fiber.Map{
			"success": false,
			"error":   "Cannot demote the last remaining admin",
		})
	}

	user.IsAdmin = req.IsAdmin

	if err := db.Save(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to update user role",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// demotionLocksBoard reports whether applying the role change would
// leave the board with no admin at all.
func demotionLocksBoard(target models.User, makeAdmin bool, adminCount int64) bool {
	return target.IsAdmin && !makeAdmin && adminCount <= 1
}
