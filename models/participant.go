package models

import (
	"time"

	"gorm.io/gorm"
)

// Participant is a registrant in the creator rewards program.
// DisplayName is the canonical display identity; DiscordUsername is kept
// only as the verified contact handle.
type Participant struct {
	ID               string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	DisplayName      string  `gorm:"not null" json:"display_name"`
	Slug             string  `gorm:"index" json:"slug"`
	Email            *string `json:"email,omitempty"`
	DiscordUsername  string  `gorm:"index;not null" json:"discord_username"`
	DiscordAvatarURL *string `json:"discord_avatar_url,omitempty"`

	// Opaque capability key for the self-service dashboard.
	DashboardToken string `gorm:"uniqueIndex;not null" json:"-"`

	Channels []Channel `gorm:"foreignKey:ParticipantID" json:"channels,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
