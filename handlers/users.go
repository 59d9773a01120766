// handlers/users.go - User Profile Endpoints
package handlers

import (
	"arenahub/middleware"
	"arenahub/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var userDB *gorm.DB

// InitUserHandlers wires the handlers to the database.
func InitUserHandlers(db *gorm.DB) {
	userDB = db
}

// GetProfileInfo returns the authenticated user's profile.
// GET /api/users/me
func GetProfileInfo(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "User not authenticated"})
	}

	var user models.User
	if err := userDB.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    toUserInfo(user),
	})
}

// GetAllUsers lists accounts with their platform roles for the admin roles
// page.
// GET /api/admin/users
func GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := userDB.Order("username ASC").Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load users"})
	}

	results := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		results = append(results, fiber.Map{
			"id":         u.ID,
			"username":   u.Username,
			"role":       string(u.Role),
			"role_label": models.PlatformRoleLabel(string(u.Role)),
			"role_flag":  models.PlatformRoleFlag(u.Role),
		})
	}

	return c.JSON(fiber.Map{"success": true, "users": results})
}

// SearchUsers finds users by username or name, used by the invite dialog.
// GET /api/users/search?query=
func SearchUsers(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Search query is required"})
	}

	var users []models.User
	pattern := "%" + query + "%"
	if err := userDB.
		Where("username LIKE ? OR first_name LIKE ? OR last_name LIKE ?", pattern, pattern, pattern).
		Limit(20).
		Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Search failed"})
	}

	results := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		results = append(results, fiber.Map{
			"id":        u.ID,
			"username":  u.Username,
			"firstName": u.FirstName,
			"lastName":  u.LastName,
			"photoUrl":  u.PhotoURL,
		})
	}

	return c.JSON(fiber.Map{"success": true, "users": results})
}
