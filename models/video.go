package models

import "time"

// Video is one piece of content on one platform.
// (Platform, ExternalVideoID) is globally unique — re-sync updates the same
// row rather than duplicating. Videos are never deleted in normal operation.
type Video struct {
	ID              string   `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ChannelID       string   `gorm:"index;not null" json:"channel_id"`
	Platform        Platform `gorm:"not null;uniqueIndex:idx_platform_external_video" json:"platform"`
	ExternalVideoID string   `gorm:"not null;uniqueIndex:idx_platform_external_video" json:"external_video_id"`
	Title           string   `gorm:"type:text" json:"title"`
	Description     *string  `gorm:"type:text" json:"description,omitempty"`
	URL             string   `json:"url"`
	ThumbnailURL    string   `json:"thumbnail_url"`
	PublishedAt     time.Time `gorm:"index;not null" json:"published_at"`
	DurationSeconds *int     `json:"duration_seconds,omitempty"`
	Views           int      `gorm:"default:0" json:"views"`
	LastSyncedAt    time.Time `json:"last_synced_at"`

	Eligibility *VideoEligibility `gorm:"foreignKey:VideoID" json:"eligibility,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
