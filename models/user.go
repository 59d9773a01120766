// models/user.go
package models

import "time"

type User struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Username    string       `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Email       string       `json:"email" gorm:"uniqueIndex;not null;size:100"`
	Password    string       `json:"-" gorm:"not null"`
	FirstName   string       `json:"first_name" gorm:"size:50"`
	LastName    string       `json:"last_name" gorm:"size:50"`
	DiscordUser string       `json:"discord_user" gorm:"size:50"`
	SteamID     string       `json:"steam_id" gorm:"size:50"`
	PhotoURL    string       `json:"photo_url,omitempty" gorm:"size:255"`
	Role        PlatformRole `json:"role" gorm:"not null;default:'Usuario';size:20"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
