// models/membership.go
package models

import "time"

// Membership binds a user to a team with a team role.
// A user holds at most one active membership at a time, and a team holds
// at most one Capitan and at most one Coach among its active members.
type Membership struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	TeamID      uint      `json:"team_id" gorm:"not null;index"`
	Team        *Team     `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	User        *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	TeamRole    TeamRole  `json:"team_role" gorm:"not null;default:'None';size:20"`
	IsAlternate bool      `json:"is_alternate" gorm:"default:false"` // "Suplente" label, cosmetic only
	IsActive    bool      `json:"is_active" gorm:"default:true;index"`
	JoinedAt    time.Time `json:"joined_at" gorm:"not null"`
}

func (Membership) TableName() string {
	return "memberships"
}

// IsLeader reports whether the membership carries team management authority.
func (m Membership) IsLeader() bool {
	return m.TeamRole == TeamRoleCaptain || m.TeamRole == TeamRoleCoach
}
