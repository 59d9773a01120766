// handlers/teams.go - Team Roster HTTP Handlers
package handlers

import (
	"strconv"

	"arenahub/apperrors"
	"arenahub/middleware"
	"arenahub/models"
	"arenahub/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	rosterService     *services.RosterService
	invitationService *services.InvitationService
	notifier          *services.Notifier
)

// InitTeamHandlers wires the roster and invitation services to the database.
func InitTeamHandlers(db *gorm.DB) {
	notifier = services.NewNotifier()
	rosterService = services.NewRosterService(db)
	invitationService = services.NewInvitationService(db, rosterService, notifier)
}

// respondError maps service errors onto the JSON envelope.
func respondError(c *fiber.Ctx, err error) error {
	return c.Status(apperrors.Status(err)).JSON(fiber.Map{
		"success": false,
		"error":   apperrors.Message(err),
	})
}

func parseTeamID(c *fiber.Ctx) (uint, error) {
	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, apperrors.NewValidation("invalid team ID")
	}
	return uint(teamID), nil
}

// ================== TEAM ENDPOINTS ==================

// CreateTeam creates a team with the caller as Capitan or Coach.
// POST /api/teams
func CreateTeam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "User not authenticated"})
	}

	var req struct {
		Name     string `json:"name"`
		TeamRole string `json:"team_role"`
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	team, err := rosterService.CreateTeam(userID, middleware.GetPlatformRole(c), req.Name,
		models.TeamRole(models.TeamRoleFromLabel(req.TeamRole)), req.ImageURL)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "Team created successfully",
		"team_id": team.ID,
	})
}

// GetTeam returns the team roster with display roles.
// GET /api/teams/:id
func GetTeam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "User not authenticated"})
	}

	teamID, err := parseTeamID(c)
	if err != nil {
		return respondError(c, err)
	}

	info, err := rosterService.GetTeamInfo(teamID)
	if err != nil {
		return respondError(c, err)
	}

	sub := services.Subject{PlatformRole: middleware.GetPlatformRole(c)}
	if member, err := rosterService.MembershipFor(teamID, userID); err == nil {
		sub.TeamRole = member.TeamRole
		sub.IsMember = true
	} else if !apperrors.IsKind(err, apperrors.KindUnauthorized) {
		return respondError(c, err)
	}

	if decision := services.Can(sub, services.ActionViewRoster); !decision.Allowed {
		return respondError(c, apperrors.NewUnauthorized(decision.Reason))
	}

	return c.JSON(info)
}

// GetMyTeams returns the teams the caller leads as Capitan or Coach.
// GET /api/teams
func GetMyTeams(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "User not authenticated"})
	}

	teams, err := rosterService.GetTeamsForUser(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "teams": teams})
}

// JoinTeam joins a team via its join code.
// POST /api/teams/join
func JoinTeam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "User not authenticated"})
	}

	var req struct {
		TeamCode string `json:"team_code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	team, err := rosterService.JoinTeamByCode(userID, req.TeamCode)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Joined team " + team.Name,
		"team_id": team.ID,
	})
}

// UpdateTeamImage updates the team logo. The team name is immutable.
// PUT /api/teams/:id/image
func UpdateTeamImage(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "User not authenticated"})
	}

	teamID, err := parseTeamID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if err := rosterService.UpdateTeamImage(userID, teamID, req.ImageURL); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// ================== MEMBERSHIP ENDPOINTS ==================

// InvitePlayer sends a team invitation to a user.
// POST /api/teams/:id/invite
func InvitePlayer(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "User not authenticated"})
	}

	teamID, err := parseTeamID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if _, err := invitationService.InvitePlayer(userID, teamID, req.UserID); err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "Invitation sent",
	})
}

// RemoveMember removes a plain roster member. Leaders cannot be removed.
// DELETE /api/teams/:id/members/:userId
func RemoveMember(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "User not authenticated"})
	}

	teamID, err := parseTeamID(c)
	if err != nil {
		return respondError(c, err)
	}

	targetID, err := strconv.ParseUint(c.Params("userId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid user ID"})
	}

	if err := rosterService.RemoveMember(userID, teamID, uint(targetID)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// ExitTeam removes the caller from the team.
// POST /api/teams/:id/exit
func ExitTeam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "User not authenticated"})
	}

	teamID, err := parseTeamID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := rosterService.ExitTeam(userID, teamID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Left the team"})
}
