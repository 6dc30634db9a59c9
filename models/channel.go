package models

import "time"

// Platform identifies the social platform a channel or video lives on.
type Platform string

const (
	PlatformTikTok  Platform = "tiktok"
	PlatformYouTube Platform = "youtube"
)

// ValidPlatform reports whether p is one of the supported platforms.
func ValidPlatform(p Platform) bool {
	return p == PlatformTikTok || p == PlatformYouTube
}

// Channel is one platform-specific account belonging to a participant.
// Exactly one of Handle (tiktok) or ExternalChannelID (youtube) is populated,
// per platform convention. A participant holds at most one channel per
// platform in the registration flow; this is a soft invariant and is not
// backed by a DB uniqueness constraint.
type Channel struct {
	ID                string   `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ParticipantID     string   `gorm:"index;not null" json:"participant_id"`
	Platform          Platform `gorm:"not null" json:"platform"`
	Handle            *string  `json:"handle,omitempty"`
	ExternalChannelID *string  `json:"channel_id,omitempty"`
	URL               string   `json:"url"`

	Videos []Video `gorm:"foreignKey:ChannelID" json:"videos,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
