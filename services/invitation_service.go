// services/invitation_service.go - Invitation & Notification Lifecycle
package services

import (
	"errors"
	"fmt"
	"time"

	"arenahub/apperrors"
	"arenahub/models"

	"gorm.io/gorm"
)

// InvitationService owns Notification and its lifecycle. On acceptance it
// delegates to RosterService to materialize the membership inside the same
// transaction as the state transition.
type InvitationService struct {
	db       *gorm.DB
	roster   *RosterService
	notifier *Notifier
}

func NewInvitationService(db *gorm.DB, roster *RosterService, notifier *Notifier) *InvitationService {
	return &InvitationService{db: db, roster: roster, notifier: notifier}
}

// NotificationView is the client-facing shape of a notification.
type NotificationView struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Read            bool      `json:"read"`
	Type            string    `json:"type"`
	RelatedEntityID uint      `json:"relatedEntityId"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toView(n models.Notification) NotificationView {
	return NotificationView{
		ID:              n.ID,
		Title:           n.Title,
		Description:     n.Description,
		Read:            n.Resolved(),
		Type:            string(n.Type),
		RelatedEntityID: n.TeamID,
		CreatedAt:       n.CreatedAt,
	}
}

// ================== INVITATION OPERATIONS ==================

// InvitePlayer creates a pending invitation for the target user. The actor
// must lead the team; the target must be membership-free and must not
// already hold a pending invitation to this team.
func (s *InvitationService) InvitePlayer(actorUserID, teamID, targetUserID uint) (*models.Notification, error) {
	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("team not found")
		}
		return nil, apperrors.NewInternal("failed to load team", err)
	}

	var target models.User
	if err := s.db.First(&target, targetUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user not found")
		}
		return nil, apperrors.NewInternal("failed to load user", err)
	}

	unlock := s.roster.locks.lock(teamID)
	defer unlock()

	actor, err := s.roster.membershipIn(teamID, actorUserID)
	if err != nil {
		return nil, err
	}

	if decision := Can(Subject{TeamRole: actor.TeamRole, IsMember: true}, ActionInvitePlayer); !decision.Allowed {
		return nil, apperrors.NewUnauthorized(decision.Reason)
	}

	// Early reject on the single-team constraint; acceptance re-checks it
	// as the authoritative gate.
	var memberships int64
	if err := s.db.Model(&models.Membership{}).
		Where("user_id = ? AND is_active = ?", targetUserID, true).
		Count(&memberships).Error; err != nil {
		return nil, apperrors.NewInternal("failed to check memberships", err)
	}
	if memberships > 0 {
		return nil, apperrors.NewConflict("user already belongs to a team")
	}

	var pending int64
	if err := s.db.Model(&models.Notification{}).
		Where("team_id = ? AND target_user_id = ? AND type = ? AND status = ?",
			teamID, targetUserID, models.NotificationTypeInvitation, models.NotificationPending).
		Count(&pending).Error; err != nil {
		return nil, apperrors.NewInternal("failed to check invitations", err)
	}
	if pending > 0 {
		return nil, apperrors.NewConflict("an invitation is already pending for this user")
	}

	invitation := &models.Notification{
		Type:         models.NotificationTypeInvitation,
		TargetUserID: targetUserID,
		TeamID:       teamID,
		Title:        "Invitación de equipo",
		Description:  fmt.Sprintf("Has sido invitado a unirte al equipo %s", team.Name),
		Status:       models.NotificationPending,
		CreatedAt:    time.Now(),
	}
	if err := s.db.Create(invitation).Error; err != nil {
		return nil, apperrors.NewInternal("failed to create invitation", err)
	}

	if s.notifier != nil {
		s.notifier.Push(targetUserID, toView(*invitation))
	}

	return invitation, nil
}

// AcceptInvitation transitions Pending -> Accepted and creates the
// membership in the same transaction. The status update is a compare-and-set
// on the Pending state, so of two concurrent calls exactly one wins; the
// loser sees the already-resolved invitation. If the membership cannot be
// created the transaction rolls back and the invitation stays Pending.
func (s *InvitationService) AcceptInvitation(invitationID, actingUserID uint) error {
	invitation, err := s.loadInvitation(invitationID, actingUserID)
	if err != nil {
		return err
	}

	if invitation.Type != models.NotificationTypeInvitation {
		return apperrors.NewInvalidState("notification is not an invitation")
	}

	unlock := s.roster.locks.lock(invitation.TeamID)
	defer unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Notification{}).
			Where("id = ? AND status = ?", invitationID, models.NotificationPending).
			Update("status", models.NotificationAccepted)
		if res.Error != nil {
			return apperrors.NewInternal("failed to accept invitation", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NewInvalidState("invitation already resolved")
		}

		return s.roster.CreateMembershipTx(tx, invitation.TeamID, invitation.TargetUserID, models.TeamRoleNone)
	})
}

// RejectInvitation transitions Pending -> Rejected. No side effects beyond
// the status change.
func (s *InvitationService) RejectInvitation(invitationID, actingUserID uint) error {
	invitation, err := s.loadInvitation(invitationID, actingUserID)
	if err != nil {
		return err
	}

	if invitation.Type != models.NotificationTypeInvitation {
		return apperrors.NewInvalidState("notification is not an invitation")
	}

	return s.resolve(invitationID, models.NotificationRejected)
}

// MarkRead transitions Pending -> Read. For invitations this is a dismissal:
// the invitation can no longer be accepted afterwards.
func (s *InvitationService) MarkRead(notificationID, actingUserID uint) error {
	if _, err := s.loadInvitation(notificationID, actingUserID); err != nil {
		return err
	}

	return s.resolve(notificationID, models.NotificationRead)
}

// ListForUser returns the user's notifications, newest first, both pending
// and terminal so clients can render history. The unread badge count is
// derived from Pending alone.
func (s *InvitationService) ListForUser(userID uint) ([]NotificationView, error) {
	var notifications []models.Notification
	if err := s.db.Where("target_user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, apperrors.NewInternal("failed to load notifications", err)
	}

	views := make([]NotificationView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, toView(n))
	}

	return views, nil
}

// UnreadCount returns the number of pending notifications for the user.
func (s *InvitationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Notification{}).
		Where("target_user_id = ? AND status = ?", userID, models.NotificationPending).
		Count(&count).Error; err != nil {
		return 0, apperrors.NewInternal("failed to count notifications", err)
	}
	return count, nil
}

// Announce creates an informational notification and pushes it live. Used by
// the event and tournament subsystems to message team members.
func (s *InvitationService) Announce(targetUserID, teamID uint, title, description string) (*models.Notification, error) {
	if title == "" {
		return nil, apperrors.NewValidation("notification title is required")
	}

	notification := &models.Notification{
		Type:         models.NotificationTypeInformational,
		TargetUserID: targetUserID,
		TeamID:       teamID,
		Title:        title,
		Description:  description,
		Status:       models.NotificationPending,
		CreatedAt:    time.Now(),
	}
	if err := s.db.Create(notification).Error; err != nil {
		return nil, apperrors.NewInternal("failed to create notification", err)
	}

	if s.notifier != nil {
		s.notifier.Push(targetUserID, toView(*notification))
	}

	return notification, nil
}

// ================== HELPERS ==================

// loadInvitation loads the notification and verifies the acting user is its
// target. Only the target may resolve a notification.
func (s *InvitationService) loadInvitation(id, actingUserID uint) (*models.Notification, error) {
	var notification models.Notification
	if err := s.db.First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("notification not found")
		}
		return nil, apperrors.NewInternal("failed to load notification", err)
	}

	if notification.TargetUserID != actingUserID {
		return nil, apperrors.NewUnauthorized("notification belongs to another user")
	}

	return &notification, nil
}

// resolve performs the Pending -> terminal compare-and-set shared by reject
// and mark-read.
func (s *InvitationService) resolve(id uint, status models.NotificationStatus) error {
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND status = ?", id, models.NotificationPending).
		Update("status", status)
	if res.Error != nil {
		return apperrors.NewInternal("failed to update notification", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewInvalidState("invitation already resolved")
	}
	return nil
}
