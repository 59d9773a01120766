// models/team.go
package models

import "time"

type Team struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"not null;size:100"` // set at creation, never updated
	TeamCode  string `json:"team_code" gorm:"unique;size:10"`
	ImageURL  string `json:"image_url,omitempty" gorm:"size:255"`
	CreatorID uint   `json:"creator_id" gorm:"not null"`
	Creator   *User  `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`

	// Competitive stats, updated by the tournament subsystem
	Wins              int `json:"wins" gorm:"default:0"`
	TournamentsPlayed int `json:"tournaments_played" gorm:"default:0"`
	MatchesPlayed     int `json:"matches_played" gorm:"default:0"`

	Members   []Membership `json:"members,omitempty" gorm:"foreignKey:TeamID"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}
