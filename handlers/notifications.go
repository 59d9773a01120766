// handlers/notifications.go - Notification & Invitation HTTP Handlers
package handlers

import (
	"strconv"

	"arenahub/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// GetNotifications lists the caller's notifications, newest first.
// GET /api/notifications
func GetNotifications(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "User not authenticated"})
	}

	notifications, err := invitationService.ListForUser(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(notifications)
}

// GetUnreadCount returns the badge count of pending notifications.
// GET /api/notifications/unread-count
func GetUnreadCount(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "User not authenticated"})
	}

	count, err := invitationService.UnreadCount(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "count": count})
}

// AcceptInvitation accepts a pending team invitation.
// POST /api/notifications/:id/accept
func AcceptInvitation(c *fiber.Ctx) error {
	return resolveNotification(c, invitationService.AcceptInvitation)
}

// RejectInvitation rejects a pending team invitation.
// POST /api/notifications/:id/reject
func RejectInvitation(c *fiber.Ctx) error {
	return resolveNotification(c, invitationService.RejectInvitation)
}

// MarkRead dismisses a pending notification.
// POST /api/notifications/:id/read
func MarkRead(c *fiber.Ctx) error {
	return resolveNotification(c, invitationService.MarkRead)
}

func resolveNotification(c *fiber.Ctx, fn func(notificationID, actingUserID uint) error) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "User not authenticated"})
	}

	notificationID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid notification ID"})
	}

	if err := fn(uint(notificationID), userID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// ================== WEBSOCKET ==================

// NotificationsUpgrade authenticates the websocket upgrade. The token comes
// in as a query parameter because browsers cannot set headers on websocket
// connections.
func NotificationsUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	claims, err := middleware.ParseTokenString(c.Query("token"))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid or missing token"})
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid token claims"})
	}

	c.Locals("wsUserId", uint(userID))
	return c.Next()
}

// NotificationsSocket streams freshly created notifications to the client.
// GET /ws/notifications?token=
func NotificationsSocket(conn *websocket.Conn) {
	userID, ok := conn.Locals("wsUserId").(uint)
	if !ok {
		conn.Close()
		return
	}

	notifier.Register(userID, conn)
	defer func() {
		notifier.Unregister(userID, conn)
		conn.Close()
	}()

	// Reads are discarded; the socket is push-only. The read loop exists to
	// notice the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
