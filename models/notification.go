// models/notification.go
package models

import "time"

type NotificationType string

const (
	NotificationTypeInvitation    NotificationType = "Invitation"
	NotificationTypeInformational NotificationType = "Informational"
)

type NotificationStatus string

const (
	NotificationPending  NotificationStatus = "Pending"
	NotificationAccepted NotificationStatus = "Accepted"
	NotificationRejected NotificationStatus = "Rejected"
	NotificationRead     NotificationStatus = "Read"
)

// Notification is a message delivered to a single user. Invitations carry a
// pending -> accepted/rejected/read lifecycle; Accepted, Rejected and Read
// are all terminal. At most one Pending invitation may exist per
// (team, target user) pair.
type Notification struct {
	ID           uint               `json:"id" gorm:"primaryKey"`
	Type         NotificationType   `json:"type" gorm:"not null;size:20;index"`
	TargetUserID uint               `json:"target_user_id" gorm:"not null;index"`
	TargetUser   *User              `json:"target_user,omitempty" gorm:"foreignKey:TargetUserID"`
	TeamID       uint               `json:"team_id" gorm:"index"`
	Team         *Team              `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	Title        string             `json:"title" gorm:"not null;size:100"`
	Description  string             `json:"description" gorm:"type:text"`
	Status       NotificationStatus `json:"status" gorm:"not null;default:'Pending';size:20;index"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Resolved reports whether the notification reached a terminal state.
func (n Notification) Resolved() bool {
	return n.Status != NotificationPending
}
